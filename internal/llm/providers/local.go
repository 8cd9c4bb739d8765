// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Request describes one completion call. MaxTokens and Temperature are
// optional; zero values leave the provider defaults in place.
type Request struct {
	Messages    []Message
	MaxTokens   int64
	Temperature float64
}

// Provider is the injectable completion dependency shared by the chat and
// report pipelines.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// LocalProvider is the offline fallback used when no API key is configured.
// It echoes the last user message so pipelines stay exercisable in tests and
// local development.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1].Content
	return "[local-stub] " + strings.TrimSpace(last), nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
