package critique

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"concord/internal/budget"
	"concord/internal/capability"
	"concord/internal/finding"
)

// Engine drives the red-team pass: one critique call per surviving finding,
// fanned out concurrently. Critique is advisory, so any failed call simply
// leaves that finding without a critique entry.
type Engine struct {
	Critic      capability.Critic
	Budget      *budget.Budget
	MaxParallel int // 4 when 0
	Log         *zap.Logger
}

// Run returns critiques keyed by agent ID. Findings whose critique call
// failed or came back malformed are absent from the map.
func (e *Engine) Run(ctx context.Context, findings []finding.Finding, debate []string) map[string]capability.CritiqueItem {
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	parallel := e.MaxParallel
	if parallel <= 0 {
		parallel = 4
	}

	results := make([]capability.Result[capability.CritiqueItem], len(findings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, f := range findings {
		g.Go(func() error {
			callCtx, cancel := e.Budget.CallContext(gctx)
			defer cancel()
			results[i] = e.Critic.Critique(callCtx, f, debate)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]capability.CritiqueItem, len(findings))
	for i, f := range findings {
		res := results[i]
		if !res.OK() {
			log.Warn("critique unavailable",
				zap.String("agent", f.AgentID),
				zap.String("status", res.Status.String()),
				zap.Error(res.Err))
			continue
		}
		item := res.Payload
		item.AgentID = f.AgentID
		out[f.AgentID] = item
	}
	return out
}
