// File path: internal/report/synthesizer.go
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/llm"
)

const (
	reportTokens          = 1500
	reportTemperature     = 0.4
	summariesTruncation   = "\n\n[Additional document content truncated]"
	synthesisInstructions = "You write concise 4-box status reports for software projects. " +
		"Based on the document summaries provided, produce a status report with exactly these four numbered sections:\n" +
		"1. Accomplishments\n2. Insights\n3. Decisions\n4. Next Steps\n" +
		"Each section must contain bullet points starting with '*'. " +
		"Start the report with a 'Title:' line naming the project."
)

// Synthesizer combines per-document summaries into one free-text report via
// a single completion call. It returns raw text and knows nothing about the
// ReportState shape.
type Synthesizer struct {
	provider        llm.Provider
	maxSummariesLen int
}

func NewSynthesizer(provider llm.Provider, maxSummariesLen int) *Synthesizer {
	if maxSummariesLen <= 0 {
		maxSummariesLen = 10000
	}
	return &Synthesizer{provider: provider, maxSummariesLen: maxSummariesLen}
}

// Synthesize issues the report completion request. The combined summaries are
// bounded to the configured cap with a truncation notice when exceeded.
func (s *Synthesizer) Synthesize(ctx context.Context, summaries []string, projectContext string) (string, error) {
	logger := common.Logger()
	combined := strings.Join(summaries, "\n\n")
	if len(combined) > s.maxSummariesLen {
		logger.Info("report: truncating combined summaries", "length", len(combined), "cap", s.maxSummariesLen)
		combined = combined[:s.maxSummariesLen] + summariesTruncation
	}
	var prompt strings.Builder
	if trimmed := strings.TrimSpace(projectContext); trimmed != "" {
		prompt.WriteString("Project context: ")
		prompt.WriteString(trimmed)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("Document summaries:\n\n")
	prompt.WriteString(combined)
	req := llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: synthesisInstructions},
			{Role: "user", Content: prompt.String()},
		},
		MaxTokens:   reportTokens,
		Temperature: reportTemperature,
	}
	logger.Info("report: requesting synthesis", "summaries", len(summaries), "prompt_length", prompt.Len())
	raw, err := s.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("synthesize report: %w", err)
	}
	return raw, nil
}
