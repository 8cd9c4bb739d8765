// File path: internal/api/chat_handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/llm"
)

const chatHistoryLimit = 8

const chatSystemPrompt = "You are the Academy assistant for an AI-assisted development education platform. " +
	"Answer questions about the curriculum, AI-assisted coding workflows, and the platform itself. " +
	"Use Markdown with short sections and bullet lists when helpful. " +
	"Ground answers in the provided documentation snippets when they exist, and say so when they do not cover the question."

const chatTimeoutReply = "I'm sorry, that answer is taking longer than expected. " +
	"Please try asking again, or rephrase the question more narrowly."

const chatFailureReply = "I'm sorry, I couldn't reach the assistant service just now. Please try again in a moment."

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: chat decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("message required"))
		return
	}
	logger.Info("api: chat request received", "message_length", len(req.Message), "history", len(req.Messages))

	messages := []llm.Message{{Role: "system", Content: chatSystemPrompt}}
	var snippetTitles []string
	if s.docsIndex != nil {
		if snippets := s.docsIndex.Search(req.Message, 3); len(snippets) > 0 {
			var block strings.Builder
			block.WriteString("Documentation snippets:\n")
			for i, snip := range snippets {
				block.WriteString(fmt.Sprintf("\n[Snippet %d] %s\n%s\n", i+1, snip.Title, snip.Content))
				snippetTitles = append(snippetTitles, snip.Title)
			}
			messages = append(messages, llm.Message{Role: "system", Content: block.String()})
		}
	}
	if trimmed := strings.TrimSpace(req.Context); trimmed != "" {
		messages = append(messages, llm.Message{Role: "system", Content: "Page context: " + trimmed})
	}
	history := req.Messages
	if len(history) > chatHistoryLimit {
		history = history[len(history)-chatHistoryLimit:]
	}
	for _, msg := range history {
		role := strings.ToLower(strings.TrimSpace(msg.Role))
		if role != "user" && role != "assistant" {
			continue
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: req.Message})

	// Timeout race: first of the completion response or the deadline. On
	// expiry the client still gets a normal-shaped reply.
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ChatTimeout)
	defer cancel()
	content, err := s.provider.Complete(ctx, llm.Request{Messages: messages, MaxTokens: 800, Temperature: 0.7})
	resp := chatResponse{
		Role:      "assistant",
		Timestamp: time.Now().UTC(),
		ID:        uuid.NewString(),
	}
	switch {
	case err == nil:
		resp.Content = content
		if len(snippetTitles) > 0 {
			resp.Metadata = map[string]interface{}{"sources": snippetTitles}
		}
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("api: chat completion timed out", "timeout", s.cfg.ChatTimeout)
		resp.Content = chatTimeoutReply
		resp.Metadata = map[string]interface{}{"error": "timeout"}
	default:
		logger.Error("api: chat completion failed", "error", err)
		resp.Content = chatFailureReply
		resp.Metadata = map[string]interface{}{"error": err.Error()}
	}
	writeJSON(w, http.StatusOK, resp)
}
