package debate

// Phase is one stage of the deliberation state machine. Phases run in the
// fixed order below; the budget gate may skip any phase by routing straight
// to synthesis.
type Phase string

const (
	PhaseOpening          Phase = "opening"
	PhaseChallengeDefense Phase = "challenge_defense"
	PhaseEdgeCases        Phase = "edge_cases"
	PhaseRiskAnalysis     Phase = "risk_analysis"
	PhaseConsensus        Phase = "consensus_building"
	PhaseSynthesis        Phase = "synthesis"
)

// Order lists the debate phases the orchestrator owns, in execution order.
// Synthesis is listed for completeness but is delegated to the synthesizer.
var Order = []Phase{
	PhaseOpening,
	PhaseChallengeDefense,
	PhaseEdgeCases,
	PhaseRiskAnalysis,
	PhaseConsensus,
	PhaseSynthesis,
}
