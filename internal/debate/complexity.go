package debate

import "strings"

// Tier grades how contentious a question is; it selects the challenge/defense
// turn cap.
type Tier string

const (
	TierSimple   Tier = "simple"
	TierMedium   Tier = "medium"
	TierComplex  Tier = "complex"
	TierCritical Tier = "critical"
)

// TurnCaps holds the challenge/defense turn limit per tier. The defaults are
// tunables, not invariants.
type TurnCaps struct {
	Simple   int `yaml:"simple"`
	Medium   int `yaml:"medium"`
	Complex  int `yaml:"complex"`
	Critical int `yaml:"critical"`
}

// DefaultTurnCaps returns the stock 10/15/25/30 limits.
func DefaultTurnCaps() TurnCaps {
	return TurnCaps{Simple: 10, Medium: 15, Complex: 25, Critical: 30}
}

// For returns the cap for a tier.
func (c TurnCaps) For(t Tier) int {
	switch t {
	case TierSimple:
		return c.Simple
	case TierMedium:
		return c.Medium
	case TierComplex:
		return c.Complex
	case TierCritical:
		return c.Critical
	default:
		return c.Medium
	}
}

// Classify grades a question by how much disagreement it produced and how
// much it asks. A cheap heuristic: contradiction count dominates, with a bump
// for multi-part or risk-heavy questions.
func Classify(question string, contradictions int) Tier {
	score := contradictions
	q := strings.ToLower(question)
	for _, kw := range []string{" and ", "compare", "versus", " vs ", "trade-off", "risk", "forecast"} {
		if strings.Contains(q, kw) {
			score++
		}
	}
	switch {
	case score <= 1:
		return TierSimple
	case score <= 3:
		return TierMedium
	case score <= 6:
		return TierComplex
	default:
		return TierCritical
	}
}
