// File path: internal/report/aggregator.go
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/llm"
)

const truncationMarker = "\n[Content truncated due to length]"

// Aggregator drives the chunker and summarizer across uploaded documents.
// Documents and chunks are processed strictly sequentially to bound latency
// and the completion API's concurrent load.
type Aggregator struct {
	summarizer *Summarizer
	maxDocLen  int
	maxChunk   int
}

func NewAggregator(provider llm.Provider, maxDocLen, maxChunkLen int) *Aggregator {
	if maxDocLen <= 0 {
		maxDocLen = 50000
	}
	if maxChunkLen <= 0 {
		maxChunkLen = DefaultMaxChunkLen
	}
	return &Aggregator{
		summarizer: NewSummarizer(provider),
		maxDocLen:  maxDocLen,
		maxChunk:   maxChunkLen,
	}
}

// Process summarizes each document with readable text content and returns one
// summary string per such document, prefixed with the document's name.
// Documents with empty text are skipped with a log line. A document whose
// every chunk fails still contributes an entry composed of error
// placeholders, keeping the 1:1 mapping between readable inputs and outputs.
func (a *Aggregator) Process(ctx context.Context, docs []UploadedDocument) []string {
	logger := common.Logger()
	summaries := make([]string, 0, len(docs))
	for _, doc := range docs {
		text := strings.TrimSpace(doc.TextContent)
		if text == "" {
			logger.Warn("report: skipping document without text content", "document", doc.Name, "id", doc.ID)
			continue
		}
		if len(text) > a.maxDocLen {
			logger.Info("report: truncating oversized document", "document", doc.Name, "length", len(text), "cap", a.maxDocLen)
			text = text[:a.maxDocLen] + truncationMarker
		}
		chunks := Chunk(text, a.maxChunk)
		logger.Info("report: summarizing document", "document", doc.Name, "chunks", len(chunks))
		chunkSummaries := make([]string, 0, len(chunks))
		for i, chunk := range chunks {
			chunkSummaries = append(chunkSummaries, a.summarizer.SummarizeChunk(ctx, chunk, doc.Name, i, len(chunks)))
		}
		summaries = append(summaries, fmt.Sprintf("Document: %s\n%s", doc.Name, strings.Join(chunkSummaries, "\n")))
	}
	return summaries
}
