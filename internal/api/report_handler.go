// File path: internal/api/report_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/llm"
	"github.com/vibeworks/academy/internal/report"
	"github.com/vibeworks/academy/internal/state"
)

const reportChatSystemPrompt = "You help a user build a 4-box status report with the sections " +
	"Accomplishments, Insights, Decisions, and Next Steps. " +
	"Answer the user's message conversationally, and when it contains report-worthy content, " +
	"restate that content as bullet points under the matching numbered section heading " +
	"(for example '1. Accomplishments:'). Only emit sections that gained content."

const reportChatFailureReply = "I'm sorry, I couldn't update the report just now. " +
	"Your report is unchanged; please try again."

// handleReportChat drives the incremental report-building conversation.
// Handled failures still answer 200 with a normal-shaped body so the client
// never renders a hard error state; only a missing API key is a 500.
func (s *Server) handleReportChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if !s.cfg.APIKeyConfigured {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("completion API key not configured"))
		return
	}
	var req reportChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: report chat decode failed", "error", err)
		writeJSON(w, http.StatusOK, reportChatResponse{Reply: reportChatFailureReply, Error: "invalid request: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusOK, reportChatResponse{Reply: "Tell me what happened and I'll add it to the report."})
		return
	}
	currentState, err := json.Marshal(req.ReportState)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	messages := []llm.Message{
		{Role: "system", Content: reportChatSystemPrompt},
		{Role: "system", Content: "Current report state (JSON):\n" + string(currentState)},
		{Role: "user", Content: req.Message},
	}
	answer, err := s.provider.Complete(r.Context(), llm.Request{Messages: messages, MaxTokens: 800, Temperature: 0.5})
	if err != nil {
		logger.Error("api: report chat completion failed", "error", err)
		writeJSON(w, http.StatusOK, reportChatResponse{Reply: reportChatFailureReply, Error: err.Error()})
		return
	}

	extraction := report.Extract(answer, report.ExtractOptions{AllowEmpty: true})
	updated := req.ReportState
	updated.Sections = report.MergeSections(req.ReportState.Sections, extraction.Sections)
	if strings.TrimSpace(updated.Title) == "" {
		updated.Title = extraction.Title
	}
	now := time.Now().UTC()
	if strings.TrimSpace(updated.Date) == "" {
		updated.Date = report.FormatReportDate(now)
	}
	updated.Metadata.LastUpdated = now
	for _, id := range req.DocumentIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" && !containsString(updated.Metadata.RelatedDocuments, trimmed) {
			updated.Metadata.RelatedDocuments = append(updated.Metadata.RelatedDocuments, trimmed)
		}
	}
	logger.Info("api: report chat updated report", "title", updated.Title)
	writeJSON(w, http.StatusOK, reportChatResponse{Reply: answer, UpdatedReport: &updated})
}

// handleReportGenerate starts the background document-to-report pipeline and
// returns the pollable report ID immediately.
func (s *Server) handleReportGenerate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: generate decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("at least one document required"))
		return
	}
	reportID, err := s.processor.Enqueue(r.Context(), req.Documents, req.ProjectContext)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{ReportID: reportID, Status: state.StatusPending})
}

// handleReportStatus is the polling endpoint for a background report job.
func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	rec, err := s.store.Get(r.Context(), reportID)
	if errors.Is(err, state.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("report %s not found", reportID))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		IsComplete:  rec.Status == state.StatusCompleted,
		Status:      rec.Status,
		ReportState: rec.Result,
		Error:       rec.Error,
	})
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
