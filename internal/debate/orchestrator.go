package debate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"concord/internal/budget"
	"concord/internal/capability"
	"concord/internal/facts"
	"concord/internal/finding"
)

// Config carries the orchestrator's tunables.
type Config struct {
	TurnCaps              TurnCaps
	ConvergenceSimilarity float64 // DefaultConvergenceSimilarity when 0
	MaxParallel           int     // fan-out width for concurrent phases; 4 when 0
	DebateWindow          int     // transcript excerpt size fed to capability calls; 6 when 0
}

func (c Config) withDefaults() Config {
	if c.TurnCaps == (TurnCaps{}) {
		c.TurnCaps = DefaultTurnCaps()
	}
	if c.ConvergenceSimilarity == 0 {
		c.ConvergenceSimilarity = DefaultConvergenceSimilarity
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = 4
	}
	if c.DebateWindow <= 0 {
		c.DebateWindow = 6
	}
	return c
}

// Outcome is everything the debate produced for downstream critique,
// verification, and synthesis.
type Outcome struct {
	Findings       []finding.Finding
	FailedAgents   []string
	Contradictions []finding.Contradiction
	Resolutions    map[string]capability.Resolution
	Transcript     *Transcript
	Tier           Tier
	Cut            bool // one or more phases were skipped by the budget gate
}

// Unresolved returns the contradictions that never received a resolution;
// these are surfaced as flagged-for-review, never dropped.
func (o Outcome) Unresolved() []finding.Contradiction {
	var out []finding.Contradiction
	for _, c := range o.Contradictions {
		if _, ok := o.Resolutions[c.Key()]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Orchestrator owns the phase state machine and the debate transcript. It is
// the only writer of both; concurrent capability calls within a phase write
// to per-call result slots that are merged back after fan-in.
type Orchestrator struct {
	Agents   []capability.Agent
	Arbiter  capability.Arbiter
	Detector finding.Detector
	Budget   *budget.Budget
	Config   Config
	Log      *zap.Logger
}

// Run executes Opening through ConsensusBuilding. Single capability failures
// are absorbed (the affected finding/resolution is simply absent); budget
// exhaustion skips ahead rather than aborting. Run never returns an error:
// whatever happened, the outcome is usable by synthesis.
func (o *Orchestrator) Run(ctx context.Context, question string, fs facts.FactSet) Outcome {
	cfg := o.Config.withDefaults()
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	emit := EmitterFrom(ctx)

	out := Outcome{
		Transcript:  NewTranscript(),
		Resolutions: make(map[string]capability.Resolution),
	}

	o.opening(ctx, cfg, log, emit, question, fs, &out)

	out.Contradictions = o.Detector.Detect(out.Findings)
	out.Tier = Classify(question, len(out.Contradictions))
	log.Info("contradictions detected",
		zap.Int("count", len(out.Contradictions)),
		zap.String("tier", string(out.Tier)))

	o.challengeDefense(ctx, cfg, log, emit, &out)
	o.explore(ctx, cfg, log, emit, PhaseEdgeCases, capability.ExploreEdgeCases, question, &out)
	o.explore(ctx, cfg, log, emit, PhaseRiskAnalysis, capability.ExploreRiskAnalysis, question, &out)
	o.consensus(ctx, cfg, log, emit, &out)

	emit.Emit(Event{Type: EventTypeComplete, Message: fmt.Sprintf("%d turns recorded", out.Transcript.Len())})
	return out
}

// gate applies the transition rule into every phase: if only the reserved
// tail remains, the phase is skipped and the engine falls through to
// synthesis with whatever exists so far.
func (o *Orchestrator) gate(log *zap.Logger, emit Emitter, phase Phase, out *Outcome) bool {
	if out.Cut {
		return true
	}
	if o.Budget.TailReached() {
		out.Cut = true
		log.Warn("budget tail reached, skipping ahead to synthesis",
			zap.String("phase", string(phase)),
			zap.Duration("remaining", o.Budget.Remaining()))
		emit.EmitLog("budget tail reached before " + string(phase) + ", skipping ahead to synthesis")
		return true
	}
	return false
}

// opening fans out one Examine call per agent. Sequence numbers are reserved
// at call time so transcript ordering does not depend on completion order.
func (o *Orchestrator) opening(ctx context.Context, cfg Config, log *zap.Logger, emit Emitter, question string, fs facts.FactSet, out *Outcome) {
	if o.gate(log, emit, PhaseOpening, out) {
		return
	}
	o.Budget.StartPhase(string(PhaseOpening))
	emit.EmitPhase(PhaseOpening)

	seqs := make([]int, len(o.Agents))
	results := make([]capability.Result[finding.Finding], len(o.Agents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxParallel)
	for i, ag := range o.Agents {
		seqs[i] = out.Transcript.NextSeq()
		g.Go(func() error {
			callCtx, cancel := o.Budget.CallContext(gctx)
			defer cancel()
			results[i] = ag.Examine(callCtx, question, fs)
			return nil
		})
	}
	_ = g.Wait()

	for i, ag := range o.Agents {
		res := results[i]
		if !res.OK() {
			out.FailedAgents = append(out.FailedAgents, ag.ID())
			log.Warn("agent finding unavailable",
				zap.String("agent", ag.ID()),
				zap.String("status", res.Status.String()),
				zap.Error(res.Err))
			emit.Emit(Event{Type: EventTypeError, Phase: PhaseOpening, Message: "agent " + ag.ID() + " unavailable"})
			continue
		}
		out.Findings = append(out.Findings, res.Payload)
		turn := Turn{
			Seq:     seqs[i],
			Phase:   PhaseOpening,
			Speaker: ag.ID(),
			Content: res.Payload.Narrative,
			Elapsed: o.Budget.Elapsed(),
		}
		out.Transcript.Record(turn)
		emit.EmitTurn(turn)
	}
}

// challengeDefense runs bounded rebuttal rounds over the detected
// contradictions, capped by the tier's turn limit and cut short either by the
// budget or by convergence (no new dispute and near-identical consecutive
// turns).
func (o *Orchestrator) challengeDefense(ctx context.Context, cfg Config, log *zap.Logger, emit Emitter, out *Outcome) {
	if len(out.Contradictions) == 0 {
		return
	}
	if o.gate(log, emit, PhaseChallengeDefense, out) {
		return
	}
	o.Budget.StartPhase(string(PhaseChallengeDefense))
	emit.EmitPhase(PhaseChallengeDefense)

	turnCap := cfg.TurnCaps.For(out.Tier)
	turns := 0
	for round := 1; turns < turnCap; round++ {
		newDispute := false
		for _, c := range out.Contradictions {
			if turns >= turnCap {
				break
			}
			if o.Budget.TailReached() {
				out.Cut = true
				log.Warn("budget tail reached mid-round",
					zap.Int("round", round), zap.Int("turns", turns))
				emit.EmitLog("budget tail reached mid-round, skipping ahead to synthesis")
				return
			}
			callCtx, cancel := o.Budget.CallContext(ctx)
			res := o.Arbiter.Rebut(callCtx, c, round, out.Transcript.Excerpts(cfg.DebateWindow))
			cancel()
			turns++
			if !res.OK() {
				log.Warn("rebuttal unavailable",
					zap.String("metric", c.Metric),
					zap.String("status", res.Status.String()),
					zap.Error(res.Err))
				continue
			}
			turn := out.Transcript.Append(PhaseChallengeDefense, "arbiter", res.Payload.Content, o.Budget.Elapsed())
			emit.EmitTurn(turn)
			if len(res.Payload.NewMetrics) > 0 {
				newDispute = true
			}
		}
		last := out.Transcript.LastN(2)
		if !newDispute && len(last) == 2 &&
			Similarity(last[0].Content, last[1].Content) >= cfg.ConvergenceSimilarity {
			log.Info("challenge/defense converged",
				zap.Int("round", round), zap.Int("turns", turns))
			break
		}
	}
}

// explore runs one arbiter commentary call for the edge-case or risk phase.
func (o *Orchestrator) explore(ctx context.Context, cfg Config, log *zap.Logger, emit Emitter, phase Phase, kind capability.ExploreKind, question string, out *Outcome) {
	if o.gate(log, emit, phase, out) {
		return
	}
	o.Budget.StartPhase(string(phase))
	emit.EmitPhase(phase)

	positions := make([]string, 0, len(out.Findings))
	for _, f := range out.Findings {
		positions = append(positions, fmt.Sprintf("%s: %s", f.AgentID, f.Narrative))
	}
	callCtx, cancel := o.Budget.CallContext(ctx)
	res := o.Arbiter.Explore(callCtx, kind, question, positions)
	cancel()
	if !res.OK() {
		log.Warn("exploration unavailable",
			zap.String("phase", string(phase)),
			zap.String("status", res.Status.String()),
			zap.Error(res.Err))
		return
	}
	turn := out.Transcript.Append(phase, "arbiter", res.Payload.Content, o.Budget.Elapsed())
	emit.EmitTurn(turn)
}

// consensus issues exactly one arbitration call per contradiction. A failed
// or malformed ruling leaves the contradiction unresolved; synthesis will
// flag it for review.
func (o *Orchestrator) consensus(ctx context.Context, cfg Config, log *zap.Logger, emit Emitter, out *Outcome) {
	if len(out.Contradictions) == 0 {
		return
	}
	if o.gate(log, emit, PhaseConsensus, out) {
		return
	}
	o.Budget.StartPhase(string(PhaseConsensus))
	emit.EmitPhase(PhaseConsensus)

	byAgent := make(map[string]finding.Finding, len(out.Findings))
	for _, f := range out.Findings {
		byAgent[f.AgentID] = f
	}
	for _, c := range out.Contradictions {
		if o.Budget.TailReached() {
			out.Cut = true
			log.Warn("budget tail reached during consensus building")
			emit.EmitLog("budget tail reached during consensus building")
			return
		}
		callCtx, cancel := o.Budget.CallContext(ctx)
		res := o.Arbiter.Resolve(callCtx, c, byAgent[c.AgentA].Citations, byAgent[c.AgentB].Citations)
		cancel()
		if !res.OK() {
			log.Warn("arbitration unavailable, contradiction stays flagged",
				zap.String("metric", c.Metric),
				zap.String("status", res.Status.String()),
				zap.Error(res.Err))
			continue
		}
		out.Resolutions[c.Key()] = res.Payload
		turn := out.Transcript.Append(PhaseConsensus, "arbiter",
			fmt.Sprintf("[%s] %s: %s", res.Payload.Action, c.Metric, res.Payload.Explanation),
			o.Budget.Elapsed())
		emit.EmitTurn(turn)
	}
}
