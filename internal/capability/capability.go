// Package capability defines the three external reasoning capabilities the
// engine consumes (agent, arbiter, critic) as input/output contracts, plus
// LLM-backed and scripted implementations. How a capability reasons is opaque
// to the engine; it only sees typed results within a caller-supplied deadline.
package capability

import (
	"context"

	"concord/internal/facts"
	"concord/internal/finding"
)

// Action is the arbiter's ruling on a contradiction. Ties are not
// auto-resolved: both-valid and flag-for-review are first-class outcomes.
type Action string

const (
	ActionPreferA       Action = "prefer-A"
	ActionPreferB       Action = "prefer-B"
	ActionBothValid     Action = "both-valid"
	ActionFlagForReview Action = "flag-for-review"
)

// ValidAction reports whether a model-emitted action is one of the enum.
func ValidAction(a Action) bool {
	switch a {
	case ActionPreferA, ActionPreferB, ActionBothValid, ActionFlagForReview:
		return true
	}
	return false
}

// Resolution is the arbiter's ruling for one contradiction.
type Resolution struct {
	ContradictionKey string  `json:"contradiction_ref"`
	Action           Action  `json:"action" prompt_desc:"One of prefer-A, prefer-B, both-valid, flag-for-review."`
	Explanation      string  `json:"explanation" prompt_desc:"Why this ruling follows from the cited sources."`
	RecommendedValue float64 `json:"recommended_value" prompt_desc:"The value downstream consumers should use."`
	Confidence       float64 `json:"confidence" prompt_desc:"0-1 confidence in the ruling."`
}

// Severity grades a critique weakness.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// CritiqueItem is the critic's adversarial review of one finding. It never
// mutates the finding; the confidence adjustment is advisory.
type CritiqueItem struct {
	AgentID              string   `json:"agent_id"`
	Weakness             string   `json:"weakness" prompt_desc:"The most material weakness of the finding."`
	CounterArgument      string   `json:"counter_argument" prompt_desc:"The strongest argument against the weakness mattering."`
	Severity             Severity `json:"severity" prompt_desc:"high, medium, or low."`
	RobustnessScore      float64  `json:"robustness_score" prompt_desc:"0-1 robustness of the finding under attack."`
	ConfidenceAdjustment *float64 `json:"confidence_adjustment,omitempty" prompt_desc:"Optional replacement for the finding's confidence."`
}

// Rebuttal is one challenge/defense turn produced by the arbiter for a
// contradiction.
type Rebuttal struct {
	Content    string   `json:"content" prompt_desc:"The rebuttal argument for this round."`
	NewMetrics []string `json:"new_metrics,omitempty" prompt_desc:"Canonical metric keys newly brought into dispute, if any."`
}

// Commentary is free-form arbiter output for the edge-case and risk phases.
type Commentary struct {
	Content string `json:"content" prompt_desc:"The scenarios or worst-case outcomes, as prose."`
}

// ExploreKind selects the arbiter's exploratory mode.
type ExploreKind string

const (
	ExploreEdgeCases    ExploreKind = "edge_cases"
	ExploreRiskAnalysis ExploreKind = "risk_analysis"
)

// Agent produces one independent finding for a question from the fact set.
type Agent interface {
	ID() string
	Examine(ctx context.Context, question string, fs facts.FactSet) Result[finding.Finding]
}

// Arbiter drives the debate: rebuttals during challenge/defense, exploratory
// commentary for edge cases and risks, and one resolution per contradiction.
type Arbiter interface {
	Rebut(ctx context.Context, c finding.Contradiction, round int, debate []string) Result[Rebuttal]
	Explore(ctx context.Context, kind ExploreKind, question string, positions []string) Result[Commentary]
	Resolve(ctx context.Context, c finding.Contradiction, citationsA, citationsB []string) Result[Resolution]
}

// Critic reviews one finding's robustness, independent of contradiction
// resolution.
type Critic interface {
	Critique(ctx context.Context, f finding.Finding, debate []string) Result[CritiqueItem]
}
