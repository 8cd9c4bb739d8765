// File path: internal/api/types.go
package api

import (
	"time"

	"github.com/vibeworks/academy/internal/docs"
	"github.com/vibeworks/academy/internal/report"
	"github.com/vibeworks/academy/internal/state"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message  string        `json:"message"`
	Messages []chatMessage `json:"messages"`
	Context  string        `json:"context,omitempty"`
}

type chatResponse struct {
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type reportChatRequest struct {
	Message     string             `json:"message"`
	ReportState report.ReportState `json:"reportState"`
	DocumentIDs []string           `json:"documentIds"`
}

type reportChatResponse struct {
	Reply         string              `json:"reply"`
	UpdatedReport *report.ReportState `json:"updatedReport,omitempty"`
	Error         string              `json:"error,omitempty"`
}

type generateRequest struct {
	Documents      []report.UploadedDocument `json:"documents"`
	ProjectContext string                    `json:"projectContext,omitempty"`
}

type generateResponse struct {
	ReportID string       `json:"reportId"`
	Status   state.Status `json:"status"`
}

type statusResponse struct {
	IsComplete  bool                `json:"isComplete"`
	Status      state.Status        `json:"status"`
	ReportState *report.ReportState `json:"reportState,omitempty"`
	Error       string              `json:"error,omitempty"`
}

type docsSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type docsSearchResponse struct {
	Results []docs.Snippet `json:"results"`
}
