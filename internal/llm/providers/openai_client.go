// File path: internal/llm/providers/openai_client.go
package providers

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/vibeworks/academy/internal/common"
)

// OpenAIProvider issues chat completions against the OpenAI-compatible API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

func NewOpenAIProvider(model string, opts ...option.RequestOption) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIProvider{client: openai.NewClient(opts...), model: model}
}

func (o *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	logger := common.Logger()
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	logger.Debug("llm: sending completion request", "model", o.model, "messages", len(req.Messages), "max_tokens", req.MaxTokens)
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("llm: completion request failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	logger.Debug("llm: completion succeeded")
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}
