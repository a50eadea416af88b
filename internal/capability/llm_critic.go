package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"concord/internal/finding"
	"concord/internal/llm"
	"concord/internal/llmclient"
	"concord/internal/prompt"
)

var criticPromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:    "Stress-test one expert finding: name its most material weakness and the strongest counter-argument.",
	Background: "The finding and any debate context are in the input. Your review feeds the final synthesis; it must be adversarial but fair.",
	OutputFields: []prompt.Field{
		{Name: "weakness", Type: "string", Required: true, Description: "The most material weakness of the finding."},
		{Name: "counter_argument", Type: "string", Required: true, Description: "The strongest argument against the weakness mattering."},
		{Name: "severity", Type: "string", Required: true, Description: "high, medium, or low."},
		{Name: "robustness_score", Type: "number", Required: true, Description: "0-1 robustness of the finding under attack."},
		{Name: "confidence_adjustment", Type: "number", Required: false, Description: "Optional replacement for the finding's confidence; omit to keep it."},
	},
	Constraints: []string{
		"Always pair the weakness with a counter-argument; a bare rejection is invalid output.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetCautious())

// LLMCritic runs the critic capability on an LLM client.
type LLMCritic struct {
	LLM llmclient.LLMClient
}

func (c *LLMCritic) Critique(ctx context.Context, f finding.Finding, debate []string) Result[CritiqueItem] {
	input := map[string]any{
		"finding":        f,
		"debate_context": debate,
	}
	p, err := criticPromptSpec.Build(input)
	if err != nil {
		return Failure[CritiqueItem](err)
	}
	raw, err := c.LLM.GenerateJSON(llm.WithRole(ctx, llm.RoleCritic), p, input)
	if err != nil {
		return Failure[CritiqueItem](err)
	}
	var out CritiqueItem
	if err := json.Unmarshal(raw, &out); err != nil {
		return Malformed[CritiqueItem](raw, fmt.Errorf("critique JSON invalid: %w", err))
	}
	// Contract: never an arbitrary teardown. Both sides of the argument are
	// required before the item is usable.
	if strings.TrimSpace(out.Weakness) == "" || strings.TrimSpace(out.CounterArgument) == "" {
		return Malformed[CritiqueItem](raw, fmt.Errorf("critique of %s lacks weakness or counter-argument", f.AgentID))
	}
	switch out.Severity {
	case SeverityHigh, SeverityMedium, SeverityLow:
	default:
		out.Severity = SeverityMedium
	}
	out.AgentID = f.AgentID
	return Success(out)
}
