package capability

import (
	"context"
	"encoding/json"
	"testing"

	"concord/internal/facts"
	"concord/internal/finding"
	"concord/internal/llm"
)

// rawClient returns a fixed payload regardless of role.
type rawClient struct{ raw string }

func (c *rawClient) Name() string             { return "raw" }
func (c *rawClient) Close() error             { return nil }
func (c *rawClient) CountTokens(s string) int { return 0 }
func (c *rawClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	return json.RawMessage(c.raw), nil
}

func TestLLMAgentExamineWithFakeClient(t *testing.T) {
	a := &LLMAgent{AgentID: "a1", Perspective: "skeptic", LLM: llm.NewFakeClient()}
	res := a.Examine(context.Background(), "q", facts.FactSet{})
	if !res.OK() {
		t.Fatalf("examine failed: %v", res.Err)
	}
	if res.Payload.AgentID != "a1" {
		t.Fatalf("agent id: %q", res.Payload.AgentID)
	}
	if res.Payload.Narrative == "" || len(res.Payload.Metrics) == 0 {
		t.Fatalf("payload incomplete: %+v", res.Payload)
	}
}

func TestLLMAgentEmptyNarrativeIsMalformed(t *testing.T) {
	a := &LLMAgent{AgentID: "a1", LLM: &rawClient{raw: `{"narrative":"  ","metrics":{},"confidence":0.5}`}}
	res := a.Examine(context.Background(), "q", facts.FactSet{})
	if res.Status != StatusMalformed {
		t.Fatalf("status: %v", res.Status)
	}
	if len(res.Raw) == 0 {
		t.Fatalf("raw output not preserved")
	}
}

func TestLLMArbiterResolveWithFakeClient(t *testing.T) {
	arb := &LLMArbiter{LLM: llm.NewFakeClient()}
	c := finding.Contradiction{Metric: "m", AgentA: "a", AgentB: "b", ValueA: 0.10, ValueB: 0.12}
	res := arb.Resolve(context.Background(), c, []string{"0.10"}, []string{"0.12"})
	if !res.OK() {
		t.Fatalf("resolve failed: %v", res.Err)
	}
	if res.Payload.Action != ActionBothValid {
		t.Fatalf("action: %s", res.Payload.Action)
	}
	if res.Payload.ContradictionKey != c.Key() {
		t.Fatalf("contradiction ref: %q", res.Payload.ContradictionKey)
	}
}

func TestLLMArbiterRejectsUnknownAction(t *testing.T) {
	arb := &LLMArbiter{LLM: &rawClient{raw: `{"action":"coin-flip","explanation":"x"}`}}
	res := arb.Resolve(context.Background(), finding.Contradiction{Metric: "m"}, nil, nil)
	if res.Status != StatusMalformed {
		t.Fatalf("status: %v", res.Status)
	}
}

func TestLLMCriticContract(t *testing.T) {
	cr := &LLMCritic{LLM: llm.NewFakeClient()}
	res := cr.Critique(context.Background(), finding.Finding{AgentID: "a"}, nil)
	if !res.OK() {
		t.Fatalf("critique failed: %v", res.Err)
	}
	if res.Payload.Weakness == "" || res.Payload.CounterArgument == "" {
		t.Fatalf("critique missing weakness or counter-argument: %+v", res.Payload)
	}

	// A bare rejection without a counter-argument breaks the contract.
	cr = &LLMCritic{LLM: &rawClient{raw: `{"weakness":"bad","counter_argument":"","severity":"high","robustness_score":0.1}`}}
	res = cr.Critique(context.Background(), finding.Finding{AgentID: "a"}, nil)
	if res.Status != StatusMalformed {
		t.Fatalf("status: %v", res.Status)
	}
}
