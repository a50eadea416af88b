package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per capability role
// for offline/testing use.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }
func (f *FakeClient) CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text) / 4
}

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	role := RoleFrom(ctx)
	var obj any
	switch role {
	case RoleAgent:
		obj = map[string]any{
			"narrative":  "Fake agent narrative citing 0.10 for the headline metric.",
			"metrics":    map[string]any{"headline": map[string]any{"value": 0.10}},
			"citations":  []string{"0.10"},
			"confidence": 0.5,
		}
	case RoleArbiterRebut:
		obj = map[string]any{
			"content":     "Fake rebuttal weighing both reported values.",
			"new_metrics": []string{},
		}
	case RoleArbiterExplore:
		obj = map[string]any{
			"content": "Fake what-if scenario exercising the disputed metric.",
		}
	case RoleArbiterResolve:
		obj = map[string]any{
			"action":            "both-valid",
			"explanation":       "Fake resolution: sources measure different panels.",
			"recommended_value": 0.10,
			"confidence":        0.6,
		}
	case RoleCritic:
		obj = map[string]any{
			"weakness":              "Fake weakness: single-source dependence.",
			"counter_argument":      "Fake counter: corroborating series exists.",
			"severity":              "medium",
			"robustness_score":      0.7,
			"confidence_adjustment": nil,
		}
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
