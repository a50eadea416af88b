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

var rebutPromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:      "Advance one round of challenge/defense over a disputed metric.",
	Background:   "Two expert findings disagree on the same metric. Argue the round: test the weaker value, defend the stronger, and surface any further metrics the disagreement drags into dispute.",
	OutputFields: prompt.MustFieldsFromStruct(Rebuttal{}),
	Constraints: []string{
		"Engage with both reported values; never dismiss one side without argument.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetNoFabrication())

var explorePromptSpecs = map[ExploreKind]prompt.Spec{
	ExploreEdgeCases: prompt.ApplyPresets(prompt.Spec{
		Purpose:      "Generate adversarial what-if scenarios that stress the positions taken so far.",
		Background:   "The debate has produced the positions in the input. Find the scenarios under which each position breaks.",
		OutputFields: prompt.MustFieldsFromStruct(Commentary{}),
		OutputFormat: "JSON only.",
		Language:     "English",
	}, prompt.PresetStrictJSON(), prompt.PresetCautious()),
	ExploreRiskAnalysis: prompt.ApplyPresets(prompt.Spec{
		Purpose:      "Enumerate worst-case outcomes if the emerging consensus is wrong.",
		Background:   "Assume the positions in the input are adopted and then fail. Describe the concrete downside per position.",
		OutputFields: prompt.MustFieldsFromStruct(Commentary{}),
		OutputFormat: "JSON only.",
		Language:     "English",
	}, prompt.PresetStrictJSON(), prompt.PresetCautious()),
}

var resolvePromptSpec = prompt.ApplyPresets(prompt.Spec{
	Purpose:    "Rule on a contradiction between two expert findings.",
	Background: "You are an impartial arbiter. Both findings and their supporting citations are in the input. Prefer the better-sourced value, or rule both-valid when the sources measure different things, or flag-for-review when the evidence cannot decide.",
	OutputFields: []prompt.Field{
		{Name: "action", Type: "string", Required: true, Description: "One of prefer-A, prefer-B, both-valid, flag-for-review."},
		{Name: "explanation", Type: "string", Required: true, Description: "Why this ruling follows from the cited sources."},
		{Name: "recommended_value", Type: "number", Required: true, Description: "The value downstream consumers should use."},
		{Name: "confidence", Type: "number", Required: true, Description: "0-1 confidence in the ruling."},
	},
	Constraints: []string{
		"A tie is not a failure: both-valid and flag-for-review are acceptable rulings.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetNoFabrication())

// LLMArbiter runs the arbiter capability on an LLM client.
type LLMArbiter struct {
	LLM llmclient.LLMClient
}

func (a *LLMArbiter) Rebut(ctx context.Context, c finding.Contradiction, round int, debate []string) Result[Rebuttal] {
	input := map[string]any{
		"contradiction": c,
		"round":         round,
		"debate_so_far": debate,
	}
	p, err := rebutPromptSpec.Build(input)
	if err != nil {
		return Failure[Rebuttal](err)
	}
	raw, err := a.LLM.GenerateJSON(llm.WithRole(ctx, llm.RoleArbiterRebut), p, input)
	if err != nil {
		return Failure[Rebuttal](err)
	}
	var out Rebuttal
	if err := json.Unmarshal(raw, &out); err != nil {
		return Malformed[Rebuttal](raw, fmt.Errorf("rebuttal JSON invalid: %w", err))
	}
	if strings.TrimSpace(out.Content) == "" {
		return Malformed[Rebuttal](raw, fmt.Errorf("rebuttal content is empty"))
	}
	return Success(out)
}

func (a *LLMArbiter) Explore(ctx context.Context, kind ExploreKind, question string, positions []string) Result[Commentary] {
	spec, ok := explorePromptSpecs[kind]
	if !ok {
		return Failure[Commentary](fmt.Errorf("unknown explore kind %q", kind))
	}
	input := map[string]any{
		"question":  question,
		"positions": positions,
	}
	p, err := spec.Build(input)
	if err != nil {
		return Failure[Commentary](err)
	}
	raw, err := a.LLM.GenerateJSON(llm.WithRole(ctx, llm.RoleArbiterExplore), p, input)
	if err != nil {
		return Failure[Commentary](err)
	}
	var out Commentary
	if err := json.Unmarshal(raw, &out); err != nil {
		return Malformed[Commentary](raw, fmt.Errorf("commentary JSON invalid: %w", err))
	}
	if strings.TrimSpace(out.Content) == "" {
		return Malformed[Commentary](raw, fmt.Errorf("commentary content is empty"))
	}
	return Success(out)
}

func (a *LLMArbiter) Resolve(ctx context.Context, c finding.Contradiction, citationsA, citationsB []string) Result[Resolution] {
	input := map[string]any{
		"contradiction": c,
		"citations_a":   citationsA,
		"citations_b":   citationsB,
	}
	p, err := resolvePromptSpec.Build(input)
	if err != nil {
		return Failure[Resolution](err)
	}
	raw, err := a.LLM.GenerateJSON(llm.WithRole(ctx, llm.RoleArbiterResolve), p, input)
	if err != nil {
		return Failure[Resolution](err)
	}
	var out Resolution
	if err := json.Unmarshal(raw, &out); err != nil {
		return Malformed[Resolution](raw, fmt.Errorf("resolution JSON invalid: %w", err))
	}
	if !ValidAction(out.Action) {
		return Malformed[Resolution](raw, fmt.Errorf("resolution action %q is not in the enum", out.Action))
	}
	out.ContradictionKey = c.Key()
	return Success(out)
}
