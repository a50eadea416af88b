package capability

import (
	"context"
	"fmt"
	"time"

	"concord/internal/facts"
	"concord/internal/finding"
)

// Scripted capabilities return pre-seeded outputs for offline/deterministic
// tests; Delay simulates a slow provider and honors context cancellation.

type ScriptedAgent struct {
	AgentID string
	F       finding.Finding
	Err     error
	Delay   time.Duration
}

func (s *ScriptedAgent) ID() string { return s.AgentID }

func (s *ScriptedAgent) Examine(ctx context.Context, _ string, _ facts.FactSet) Result[finding.Finding] {
	if err := wait(ctx, s.Delay); err != nil {
		return Failure[finding.Finding](err)
	}
	if s.Err != nil {
		return Failure[finding.Finding](s.Err)
	}
	f := s.F
	f.AgentID = s.AgentID
	return Success(f)
}

type ScriptedArbiter struct {
	Action           Action
	Explanation      string
	RecommendedValue float64
	Confidence       float64
	RebutContent     string
	NewMetrics       []string
	Err              error
	Delay            time.Duration

	// Calls counts capability invocations by kind, for assertions.
	Calls map[string]int
}

func (s *ScriptedArbiter) count(kind string) {
	if s.Calls == nil {
		s.Calls = make(map[string]int)
	}
	s.Calls[kind]++
}

func (s *ScriptedArbiter) Rebut(ctx context.Context, c finding.Contradiction, round int, _ []string) Result[Rebuttal] {
	s.count("rebut")
	if err := wait(ctx, s.Delay); err != nil {
		return Failure[Rebuttal](err)
	}
	if s.Err != nil {
		return Failure[Rebuttal](s.Err)
	}
	content := s.RebutContent
	if content == "" {
		content = fmt.Sprintf("round %d rebuttal on %s", round, c.Metric)
	}
	return Success(Rebuttal{Content: content, NewMetrics: s.NewMetrics})
}

func (s *ScriptedArbiter) Explore(ctx context.Context, kind ExploreKind, _ string, _ []string) Result[Commentary] {
	s.count(string(kind))
	if err := wait(ctx, s.Delay); err != nil {
		return Failure[Commentary](err)
	}
	if s.Err != nil {
		return Failure[Commentary](s.Err)
	}
	return Success(Commentary{Content: string(kind) + " commentary"})
}

func (s *ScriptedArbiter) Resolve(ctx context.Context, c finding.Contradiction, _, _ []string) Result[Resolution] {
	s.count("resolve")
	if err := wait(ctx, s.Delay); err != nil {
		return Failure[Resolution](err)
	}
	if s.Err != nil {
		return Failure[Resolution](s.Err)
	}
	action := s.Action
	if action == "" {
		action = ActionPreferA
	}
	rec := s.RecommendedValue
	if rec == 0 {
		rec = c.ValueA
	}
	conf := s.Confidence
	if conf == 0 {
		conf = 0.8
	}
	expl := s.Explanation
	if expl == "" {
		expl = "scripted ruling on " + c.Metric
	}
	return Success(Resolution{
		ContradictionKey: c.Key(),
		Action:           action,
		Explanation:      expl,
		RecommendedValue: rec,
		Confidence:       conf,
	})
}

type ScriptedCritic struct {
	Adjustment *float64
	Err        error
	Delay      time.Duration
}

func (s *ScriptedCritic) Critique(ctx context.Context, f finding.Finding, _ []string) Result[CritiqueItem] {
	if err := wait(ctx, s.Delay); err != nil {
		return Failure[CritiqueItem](err)
	}
	if s.Err != nil {
		return Failure[CritiqueItem](s.Err)
	}
	return Success(CritiqueItem{
		AgentID:              f.AgentID,
		Weakness:             "scripted weakness for " + f.AgentID,
		CounterArgument:      "scripted counter-argument for " + f.AgentID,
		Severity:             SeverityMedium,
		RobustnessScore:      0.7,
		ConfidenceAdjustment: s.Adjustment,
	})
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
