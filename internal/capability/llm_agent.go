package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"concord/internal/facts"
	"concord/internal/finding"
	"concord/internal/llm"
	"concord/internal/llmclient"
	"concord/internal/prompt"
)

var agentPromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:    "Answer the analytical question from the supplied facts, as one independent expert.",
	Background: "Several experts examine the same question in isolation; disagreements are arbitrated later. State your own position with its supporting numbers.",
	OutputFields: []prompt.Field{
		{Name: "narrative", Type: "string", Required: true, Description: "Your analysis as prose, embedding every number you rely on."},
		{Name: "metrics", Type: "map[string]MetricValue", Required: true, Description: "Each metric you assert: {value, low, high, period, methodology}; bare numbers accepted."},
		{Name: "citations", Type: "[]string", Required: true, Description: "The numeric tokens from the narrative, in order of appearance."},
		{Name: "confidence", Type: "number", Required: true, Description: "0-1 confidence in your position."},
	},
	Constraints: []string{
		"Tag a metric with period/methodology whenever the facts distinguish them.",
		"Metric names should be lowercase with underscores.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetNoFabrication(), prompt.PresetCautious())

// LLMAgent runs the agent capability on an LLM client. Multiple instances
// with different perspectives form the expert panel.
type LLMAgent struct {
	AgentID     string
	Perspective string // optional slant, e.g. "macro-skeptic"
	LLM         llmclient.LLMClient
}

func (a *LLMAgent) ID() string { return a.AgentID }

func (a *LLMAgent) Examine(ctx context.Context, question string, fs facts.FactSet) Result[finding.Finding] {
	spec := agentPromptSpec
	if p := strings.TrimSpace(a.Perspective); p != "" {
		spec.Background += " Your assigned perspective: " + p + "."
	}
	// Facts are grouped per metric so competing observations of the same
	// series sit side by side in the prompt.
	input := map[string]any{
		"question": question,
		"facts":    fs.ByMetric(),
	}
	p, err := spec.Build(input)
	if err != nil {
		return Failure[finding.Finding](err)
	}
	raw, err := a.LLM.GenerateJSON(llm.WithRole(ctx, llm.RoleAgent), p, input)
	if err != nil {
		return Failure[finding.Finding](err)
	}
	var out finding.Finding
	if err := json.Unmarshal(raw, &out); err != nil {
		return Malformed[finding.Finding](raw, fmt.Errorf("agent %s JSON invalid: %w", a.AgentID, err))
	}
	out.AgentID = a.AgentID
	if strings.TrimSpace(out.Narrative) == "" {
		return Malformed[finding.Finding](raw, fmt.Errorf("agent %s returned an empty narrative", a.AgentID))
	}
	return Success(out)
}
