package llmclient

import (
	"context"
	"encoding/json"
)

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	Name() string
	Close() error
	CountTokens(text string) int
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
}
