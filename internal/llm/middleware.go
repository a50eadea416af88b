package llm

import (
	"context"
	"encoding/json"

	"concord/internal/llmclient"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (rate limiting, retries, hooks, etc.).
type Middleware func(llmclient.LLMClient) llmclient.LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.LLMClient, mws ...Middleware) llmclient.LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit limits request rate using a token-bucket limiter.
// If rps <= 0, the limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		rl := newRPSLimiter(rps, burst) // nil when disabled
		return &rateLimited{next: next, rl: rl}
	}
}

type rateLimited struct {
	next llmclient.LLMClient
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}
func (c *rateLimited) CountTokens(s string) int { return c.next.CountTokens(s) }
func (c *rateLimited) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if c.rl != nil {
		if err := c.rl.Acquire(ctx); err != nil {
			return nil, err
		}
	}
	return c.next.GenerateJSON(ctx, prompt, input)
}

// -------- Hooks --------

// Hook observes every GenerateJSON call around the wrapped client.
type Hook interface {
	Before(ctx context.Context, role, prompt string, input any)
	After(ctx context.Context, role string, raw json.RawMessage, err error)
}

// WithHooks turns hooks into a middleware. Place it last in the Wrap chain
// so the hooks observe every attempt that reaches the provider, retries
// included.
func WithHooks(hooks ...Hook) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &hooked{base: next, hooks: hooks}
	}
}

type hooked struct {
	base  llmclient.LLMClient
	hooks []Hook
}

func (h *hooked) Name() string             { return h.base.Name() }
func (h *hooked) Close() error             { return h.base.Close() }
func (h *hooked) CountTokens(s string) int { return h.base.CountTokens(s) }
func (h *hooked) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	role := RoleFrom(ctx)
	for _, hk := range h.hooks {
		hk.Before(ctx, role, prompt, input)
	}
	raw, err := h.base.GenerateJSON(ctx, prompt, input)
	for i := len(h.hooks) - 1; i >= 0; i-- {
		h.hooks[i].After(ctx, role, raw, err)
	}
	return raw, err
}
