// File path: internal/llm/llm.go
package llm

import (
	"strings"
	"time"

	"github.com/openai/openai-go/v2/option"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/llm/providers"
)

type Message = providers.Message

type Request = providers.Request

type Provider = providers.Provider

// completionRetries is the fixed retry budget for the completion client.
// Callers rely on it instead of retrying themselves.
const completionRetries = 1

// NewProvider selects the completion provider from the given credentials.
// With an API key the OpenAI-compatible provider is used; without one the
// deterministic local provider takes over so the rest of the pipeline keeps
// functioning.
func NewProvider(apiKey, endpoint, model string) Provider {
	logger := common.Logger()
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		logger.Warn("llm: no API key configured; falling back to local provider")
		return providers.NewLocalProvider()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(completionRetries),
		option.WithRequestTimeout(60 * time.Second),
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		logger.Info("llm: using custom completion endpoint", "endpoint", endpoint)
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	logger.Info("llm: OpenAI provider selected", "model", model)
	return providers.NewOpenAIProvider(model, opts...)
}
