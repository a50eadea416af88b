package llm

import (
	"context"
	"strings"
)

// Capability roles carried on the context so providers, hooks, and the fake
// client can tell which kind of call is in flight.
const (
	RoleAgent          = "agent"
	RoleArbiterRebut   = "arbiter.rebut"
	RoleArbiterExplore = "arbiter.explore"
	RoleArbiterResolve = "arbiter.resolve"
	RoleCritic         = "critic"
)

type ctxKeyRole struct{}

// WithRole returns a context tagged with the capability role of the next call.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyRole{}, strings.TrimSpace(role))
}

// RoleFrom returns the role stored in the context, or "unknown".
func RoleFrom(ctx context.Context) string {
	if ctx != nil {
		if v := ctx.Value(ctxKeyRole{}); v != nil {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return "unknown"
}
