package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"concord/internal/budget"
	"concord/internal/capability"
	"concord/internal/citation"
	"concord/internal/config"
	"concord/internal/critique"
	"concord/internal/debate"
	"concord/internal/facts"
	"concord/internal/finding"
	"concord/internal/synth"
)

// ErrInvalidRequest is the only condition Deliberate surfaces as a hard
// failure; every other failure mode degrades to a smaller report.
var ErrInvalidRequest = errors.New("invalid request")

// Request is one analytical question plus its wall-clock budget. Facts may be
// left empty when the engine has a facts provider to fetch them from.
type Request struct {
	Question string
	Facts    facts.FactSet
	Deadline time.Duration
}

// Engine wires the deliberation pipeline: opening fan-out, contradiction
// detection, phased debate, critique, citation verification, synthesis.
type Engine struct {
	Agents  []capability.Agent
	Arbiter capability.Arbiter
	Critic  capability.Critic
	Facts   facts.Provider
	Config  config.Config
	Log     *zap.Logger

	// BudgetOpts is a test seam for the budget clock.
	BudgetOpts []budget.Option
}

// Deliberate answers one question. The returned report is always usable:
// budget exhaustion routes to emergency synthesis and individual capability
// failures shrink the input rather than aborting.
func (e *Engine) Deliberate(ctx context.Context, req Request) (synth.Report, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return synth.Report{}, fmt.Errorf("%w: question is required", ErrInvalidRequest)
	}
	if req.Deadline <= 0 {
		return synth.Report{}, fmt.Errorf("%w: deadline must be positive", ErrInvalidRequest)
	}

	fs := req.Facts
	if fs.Empty() && e.Facts != nil {
		fetched, err := e.Facts.Fetch(ctx, question)
		if err != nil {
			return synth.Report{}, fmt.Errorf("fetch facts: %w", err)
		}
		fs = fetched
	}
	if fs.Empty() {
		return synth.Report{}, fmt.Errorf("%w: fact set is required", ErrInvalidRequest)
	}

	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("request_id", uuid.NewString()))
	log.Info("deliberation started",
		zap.String("question", question),
		zap.Int("facts", len(fs.Facts)),
		zap.Int("metrics", len(fs.ByMetric())),
		zap.Duration("deadline", req.Deadline))

	cfg := e.Config
	b := budget.New(req.Deadline, cfg.ReservedTail, cfg.PerCallTimeout, e.BudgetOpts...)

	orch := &debate.Orchestrator{
		Agents:  e.Agents,
		Arbiter: e.Arbiter,
		Detector: finding.Detector{
			Threshold: cfg.ContradictionThreshold,
			Epsilon:   cfg.Epsilon,
		},
		Budget: b,
		Config: debate.Config{
			TurnCaps:              cfg.TurnCaps,
			ConvergenceSimilarity: cfg.ConvergenceSimilarity,
			MaxParallel:           cfg.MaxParallel,
			DebateWindow:          cfg.DebateWindow,
		},
		Log: log,
	}
	out := orch.Run(ctx, question, fs)

	var critiques map[string]capability.CritiqueItem
	if e.Critic != nil && !b.TailReached() {
		b.StartPhase("critique")
		ce := &critique.Engine{
			Critic:      e.Critic,
			Budget:      b,
			MaxParallel: cfg.MaxParallel,
			Log:         log,
		}
		critiques = ce.Run(ctx, out.Findings, out.Transcript.Excerpts(cfg.DebateWindow))
	} else if e.Critic != nil {
		log.Warn("budget tail reached, skipping critique")
	}

	b.StartPhase(string(debate.PhaseSynthesis))
	syn := &synth.Synthesizer{Index: citation.BuildIndex(fs), Log: log}

	var rep synth.Report
	if b.Exceeded() {
		log.Warn("deadline exceeded at synthesis, using emergency path",
			zap.Duration("elapsed", b.Elapsed()))
		rep = syn.Emergency(question, out)
	} else {
		rep = syn.Synthesize(question, out, critiques)
	}

	log.Info("deliberation finished",
		zap.Bool("emergency", rep.Emergency),
		zap.Int("resolved", len(rep.Resolved)),
		zap.Int("flagged", len(rep.Flagged)),
		zap.Int("citation_violations", rep.CitationViolations),
		zap.Duration("elapsed", b.Elapsed()))
	return rep, nil
}
