// File path: internal/report/pipeline_test.go
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeworks/academy/internal/llm"
)

type fakeProvider struct {
	mu       sync.Mutex
	requests []llm.Request
	respond  func(req llm.Request) (string, error)
}

func (f *fakeProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.respond == nil {
		return "stub summary", nil
	}
	return f.respond(req)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) recorded() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llm.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

func TestAggregatorSkipsEmptyDocuments(t *testing.T) {
	provider := &fakeProvider{}
	agg := NewAggregator(provider, 0, 0)
	summaries := agg.Process(context.Background(), []UploadedDocument{{Name: "empty.md", TextContent: ""}})
	assert.Empty(t, summaries)
	assert.Empty(t, provider.recorded())
}

func TestAggregatorPrefixesDocumentName(t *testing.T) {
	provider := &fakeProvider{}
	agg := NewAggregator(provider, 0, 0)
	summaries := agg.Process(context.Background(), []UploadedDocument{
		{Name: "notes.md", TextContent: "The sprint went well. We shipped the grader."},
	})
	require.Len(t, summaries, 1)
	assert.True(t, strings.HasPrefix(summaries[0], "Document: notes.md\n"), "summary: %q", summaries[0])
	assert.Contains(t, summaries[0], "stub summary")
}

func TestAggregatorSurvivesChunkFailures(t *testing.T) {
	provider := &fakeProvider{
		respond: func(llm.Request) (string, error) {
			return "", errors.New("connection reset")
		},
	}
	agg := NewAggregator(provider, 0, 50)
	docs := []UploadedDocument{
		{Name: "a.md", TextContent: "First sentence here. Second sentence follows. Third sentence ends it."},
		{Name: "b.md", TextContent: "Another document with content."},
	}
	summaries := agg.Process(context.Background(), docs)
	require.Len(t, summaries, 2, "a failing document must still contribute a summary entry")
	for _, summary := range summaries {
		assert.Contains(t, summary, "Error")
		assert.Contains(t, summary, "connection reset")
	}
}

func TestAggregatorTruncatesOversizedDocuments(t *testing.T) {
	provider := &fakeProvider{}
	agg := NewAggregator(provider, 200, 100)
	long := strings.Repeat("Sentence with filler content. ", 30)
	agg.Process(context.Background(), []UploadedDocument{{Name: "big.md", TextContent: long}})
	requests := provider.recorded()
	require.NotEmpty(t, requests)
	var sawMarker bool
	for _, req := range requests {
		for _, msg := range req.Messages {
			if strings.Contains(msg.Content, "[Content truncated due to length]") {
				sawMarker = true
			}
		}
	}
	assert.True(t, sawMarker, "expected the truncation marker to reach the summarizer")
}

func TestSummarizerPlaceholderNamesChunk(t *testing.T) {
	provider := &fakeProvider{respond: func(llm.Request) (string, error) { return "", errors.New("timeout") }}
	s := NewSummarizer(provider)
	got := s.SummarizeChunk(context.Background(), "chunk text", "plan.md", 1, 3)
	assert.Equal(t, "[Error summarizing part 2 of plan.md: timeout]", got)
}

func TestSynthesizerNamesAllFourSections(t *testing.T) {
	provider := &fakeProvider{respond: func(llm.Request) (string, error) { return "raw report", nil }}
	synth := NewSynthesizer(provider, 0)
	raw, err := synth.Synthesize(context.Background(), []string{"Document: a.md\n* did things"}, "launch prep")
	require.NoError(t, err)
	assert.Equal(t, "raw report", raw)
	requests := provider.recorded()
	require.Len(t, requests, 1)
	system := requests[0].Messages[0].Content
	for _, heading := range []string{"1. Accomplishments", "2. Insights", "3. Decisions", "4. Next Steps"} {
		assert.Contains(t, system, heading)
	}
	user := requests[0].Messages[1].Content
	assert.Contains(t, user, "launch prep")
	assert.Contains(t, user, "Document: a.md")
}

func TestSynthesizerTruncatesCombinedSummaries(t *testing.T) {
	provider := &fakeProvider{respond: func(llm.Request) (string, error) { return "ok", nil }}
	synth := NewSynthesizer(provider, 300)
	summaries := make([]string, 10)
	for i := range summaries {
		summaries[i] = fmt.Sprintf("Document: doc-%d.md\n%s", i, strings.Repeat("summary line. ", 10))
	}
	_, err := synth.Synthesize(context.Background(), summaries, "")
	require.NoError(t, err)
	requests := provider.recorded()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0].Messages[1].Content, "[Additional document content truncated]")
}

func TestSynthesizerPropagatesProviderError(t *testing.T) {
	provider := &fakeProvider{respond: func(llm.Request) (string, error) { return "", errors.New("upstream 500") }}
	synth := NewSynthesizer(provider, 0)
	_, err := synth.Synthesize(context.Background(), []string{"Document: a.md"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream 500")
}
