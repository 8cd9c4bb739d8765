// File path: internal/report/types.go
package report

import (
	"fmt"
	"time"
)

// UploadedDocument is the ingestion collaborator's output consumed by the
// pipeline. Immutable once created; only TextContent is read.
type UploadedDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	TextContent string `json:"textContent"`
}

// Sections holds the four fixed categories of a status report. All four keys
// are always present; an unset section is the empty string.
type Sections struct {
	Accomplishments string `json:"accomplishments"`
	Insights        string `json:"insights"`
	Decisions       string `json:"decisions"`
	NextSteps       string `json:"nextSteps"`
}

// Metadata carries bookkeeping alongside the four sections.
type Metadata struct {
	LastUpdated      time.Time `json:"lastUpdated"`
	RelatedDocuments []string  `json:"relatedDocuments,omitempty"`
	FullReport       string    `json:"fullReport,omitempty"`
	Error            string    `json:"error,omitempty"`
}

// ReportState is the structured 4-box status report exchanged with clients.
type ReportState struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Sections Sections `json:"sections"`
	Metadata Metadata `json:"metadata"`
}

// FormatReportDate renders t in the report's display form, e.g. "Jun 3rd 2025".
func FormatReportDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s %d", t.Format("Jan"), t.Day(), ordinalSuffix(t.Day()), t.Year())
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
