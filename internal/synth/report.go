package synth

import (
	"concord/internal/capability"
)

// EmergencyConfidence is the fixed confidence attached to reports assembled
// from a partial transcript.
const EmergencyConfidence = 0.65

// KeyFinding is one agent position as it appears in the final report, with
// the narrative already citation-annotated and the confidence after any
// applied critique adjustment.
type KeyFinding struct {
	AgentID    string  `json:"agent_id"`
	Narrative  string  `json:"narrative"`
	Confidence float64 `json:"confidence"`
	Adjusted   bool    `json:"adjusted,omitempty"`
}

// ResolvedMetric is an arbitrated contradiction with a usable ruling.
type ResolvedMetric struct {
	Metric      string            `json:"metric"`
	Action      capability.Action `json:"action"`
	Value       float64           `json:"value"`
	Explanation string            `json:"explanation"`
	Confidence  float64           `json:"confidence"`
}

// FlaggedContradiction is a disagreement that survives into the report
// unresolved, either by explicit arbiter ruling or because no ruling arrived.
type FlaggedContradiction struct {
	Metric string  `json:"metric"`
	AgentA string  `json:"agent_a"`
	AgentB string  `json:"agent_b"`
	ValueA float64 `json:"value_a"`
	ValueB float64 `json:"value_b"`
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

// CritiqueNote summarizes one red-team review for the report.
type CritiqueNote struct {
	AgentID         string              `json:"agent_id"`
	Weakness        string              `json:"weakness"`
	CounterArgument string              `json:"counter_argument"`
	Severity        capability.Severity `json:"severity"`
	RobustnessScore float64             `json:"robustness_score"`
}

// Argument is a representative transcript excerpt, used only by emergency
// reports where no synthesized findings exist.
type Argument struct {
	Speaker string `json:"speaker"`
	Phase   string `json:"phase"`
	Content string `json:"content"`
}

// Report is the engine's single output for one question.
type Report struct {
	Question           string                 `json:"question"`
	Summary            string                 `json:"summary"`
	KeyFindings        []KeyFinding           `json:"key_findings,omitempty"`
	Resolved           []ResolvedMetric       `json:"resolved,omitempty"`
	Flagged            []FlaggedContradiction `json:"flagged,omitempty"`
	Critique           []CritiqueNote         `json:"critique,omitempty"`
	Arguments          []Argument             `json:"arguments,omitempty"`
	CitationViolations int                    `json:"citation_violations"`
	Unverified         []string               `json:"unverified,omitempty"`
	Confidence         float64                `json:"confidence"`
	Emergency          bool                   `json:"emergency"`
}
