// File path: internal/report/summarizer.go
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/llm"
)

const (
	chunkSummaryTokens      = 300
	chunkSummaryTemperature = 0.3
)

const chunkSummaryInstructions = "You summarize project documents for a status report. " +
	"Summarize the key points of the provided document section as 2-3 short bullet points. " +
	"Prefer concrete accomplishments, insights, decisions, and planned next steps. " +
	"Respond with the bullet points only."

// Summarizer turns individual document chunks into short summaries via the
// completion provider.
type Summarizer struct {
	provider llm.Provider
}

func NewSummarizer(provider llm.Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

// SummarizeChunk returns a short summary of one chunk. It never fails: any
// provider error is swallowed into a placeholder string so one bad chunk
// cannot abort the rest of the document.
func (s *Summarizer) SummarizeChunk(ctx context.Context, chunk, docName string, index, total int) string {
	logger := common.Logger()
	req := llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: chunkSummaryInstructions},
			{Role: "user", Content: fmt.Sprintf("Document: %s (part %d of %d)\n\n%s", docName, index+1, total, chunk)},
		},
		MaxTokens:   chunkSummaryTokens,
		Temperature: chunkSummaryTemperature,
	}
	summary, err := s.provider.Complete(ctx, req)
	if err != nil {
		logger.Warn("report: chunk summarization failed", "document", docName, "part", index+1, "total", total, "error", err)
		return fmt.Sprintf("[Error summarizing part %d of %s: %v]", index+1, docName, err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		logger.Warn("report: chunk summarization returned empty content", "document", docName, "part", index+1)
		return fmt.Sprintf("[Error summarizing part %d of %s: empty response]", index+1, docName)
	}
	return summary
}
