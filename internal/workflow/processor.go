// File path: internal/workflow/processor.go
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/llm"
	"github.com/vibeworks/academy/internal/report"
	"github.com/vibeworks/academy/internal/state"
)

const streamingFallbackReport = "Title: Status Report\n" +
	"1. Accomplishments:\n* The synthesis response could not be read as a completed report body.\n" +
	"2. Insights:\n* Streaming responses are not supported at this call site.\n" +
	"3. Decisions:\n* The report was generated from document summaries without final synthesis.\n" +
	"4. Next Steps:\n* Retry report generation."

// Processor runs the document-to-report pipeline as a fire-and-forget
// background job, recording progress in the processing-state store for the
// client to poll.
type Processor struct {
	store       state.Store
	aggregator  *report.Aggregator
	synthesizer *report.Synthesizer
}

func NewProcessor(provider llm.Provider, store state.Store, maxDocLen, maxChunkLen, maxSummariesLen int) *Processor {
	return &Processor{
		store:       store,
		aggregator:  report.NewAggregator(provider, maxDocLen, maxChunkLen),
		synthesizer: report.NewSynthesizer(provider, maxSummariesLen),
	}
}

// Enqueue records a pending report job and starts processing it in the
// background. The returned report ID is immediately pollable. The spawned
// job deliberately detaches from the caller's context: the HTTP response
// returns while processing continues.
func (p *Processor) Enqueue(ctx context.Context, docs []report.UploadedDocument, projectContext string) (string, error) {
	reportID := uuid.NewString()
	now := time.Now().UTC()
	rec := state.Record{
		ReportID:       reportID,
		Status:         state.StatusPending,
		Documents:      docs,
		ProjectContext: projectContext,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := p.store.Set(ctx, rec); err != nil {
		return "", fmt.Errorf("record report job: %w", err)
	}
	common.Logger().Info("workflow: report job enqueued", "report", reportID, "documents", len(docs))
	go p.run(context.Background(), reportID)
	return reportID, nil
}

func (p *Processor) run(ctx context.Context, reportID string) {
	logger := common.Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workflow: report job panicked", "report", reportID, "panic", r)
			p.markError(ctx, reportID, fmt.Sprintf("internal error: %v", r))
		}
	}()
	rec, err := p.store.Get(ctx, reportID)
	if err != nil {
		logger.Error("workflow: report job lookup failed", "report", reportID, "error", err)
		return
	}
	rec.Status = state.StatusProcessing
	rec.UpdatedAt = time.Now().UTC()
	if err := p.store.Set(ctx, rec); err != nil {
		logger.Error("workflow: could not mark report processing", "report", reportID, "error", err)
		return
	}

	summaries := p.aggregator.Process(ctx, rec.Documents)
	if len(summaries) == 0 {
		p.markError(ctx, reportID, "no readable document content")
		return
	}
	raw, err := p.synthesizer.Synthesize(ctx, summaries, rec.ProjectContext)
	if err != nil {
		p.markError(ctx, reportID, err.Error())
		return
	}
	if strings.TrimSpace(raw) == "" {
		logger.Warn("workflow: synthesis returned no completed text body", "report", reportID)
		raw = streamingFallbackReport
	}

	extraction := report.Extract(raw, report.ExtractOptions{AllowEmpty: false})
	now := time.Now().UTC()
	result := report.ReportState{
		Title:    extraction.Title,
		Date:     report.FormatReportDate(now),
		Sections: extraction.Sections,
		Metadata: report.Metadata{
			LastUpdated:      now,
			RelatedDocuments: documentNames(rec.Documents),
			FullReport:       raw,
		},
	}
	rec.Status = state.StatusCompleted
	rec.Result = &result
	rec.UpdatedAt = now
	if err := p.store.Set(ctx, rec); err != nil {
		logger.Error("workflow: could not mark report completed", "report", reportID, "error", err)
		return
	}
	logger.Info("workflow: report job completed", "report", reportID, "title", result.Title)
}

func (p *Processor) markError(ctx context.Context, reportID, message string) {
	logger := common.Logger()
	rec, err := p.store.Get(ctx, reportID)
	if err != nil {
		logger.Error("workflow: cannot record job failure", "report", reportID, "error", err)
		return
	}
	rec.Status = state.StatusError
	rec.Error = message
	rec.UpdatedAt = time.Now().UTC()
	if err := p.store.Set(ctx, rec); err != nil {
		logger.Error("workflow: cannot persist job failure", "report", reportID, "error", err)
		return
	}
	logger.Warn("workflow: report job failed", "report", reportID, "error", message)
}

func documentNames(docs []report.UploadedDocument) []string {
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Name) != "" {
			names = append(names, doc.Name)
		}
	}
	return names
}
