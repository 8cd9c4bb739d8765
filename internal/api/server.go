// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/docs"
	"github.com/vibeworks/academy/internal/llm"
	"github.com/vibeworks/academy/internal/state"
	"github.com/vibeworks/academy/internal/workflow"
)

// Config controls request handling behavior.
type Config struct {
	// ChatTimeout bounds the chat completion call; on expiry the handler
	// replies with a fallback message instead of an error status.
	ChatTimeout time.Duration
	// APIKeyConfigured gates the report-builder chat endpoint, which
	// returns 500 when no completion credentials exist.
	APIKeyConfigured bool
}

// DefaultConfig returns the standard server configuration.
func DefaultConfig() Config {
	return Config{ChatTimeout: 15 * time.Second}
}

type Server struct {
	router    chi.Router
	provider  llm.Provider
	docsIndex *docs.Index
	store     state.Store
	processor *workflow.Processor
	cfg       Config
}

func NewServer(provider llm.Provider, docsIndex *docs.Index, store state.Store, processor *workflow.Processor, cfg Config) (*Server, error) {
	logger := common.Logger()
	if provider == nil {
		return nil, fmt.Errorf("completion provider required")
	}
	if store == nil {
		return nil, fmt.Errorf("state store required")
	}
	if processor == nil {
		return nil, fmt.Errorf("report processor required")
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = DefaultConfig().ChatTimeout
	}
	srv := &Server{
		router:    chi.NewRouter(),
		provider:  provider,
		docsIndex: docsIndex,
		store:     store,
		processor: processor,
		cfg:       cfg,
	}
	srv.routes()
	logger.Info("api: server ready", "provider", provider.Name(), "chat_timeout", cfg.ChatTimeout)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/api/report-builder/chat", s.handleReportChat)
	s.router.Post("/api/report-builder/generate", s.handleReportGenerate)
	s.router.Get("/api/report-builder/status/{reportID}", s.handleReportStatus)
	s.router.Post("/api/docs/search", s.handleDocsSearch)
	s.router.Get("/api/logs", s.handleLogs)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": common.LogEntries()})
}

func (s *Server) handleDocsSearch(w http.ResponseWriter, r *http.Request) {
	var req docsSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query required"))
		return
	}
	var results []docs.Snippet
	if s.docsIndex != nil {
		results = s.docsIndex.Search(req.Query, req.Limit)
	}
	if results == nil {
		results = []docs.Snippet{}
	}
	writeJSON(w, http.StatusOK, docsSearchResponse{Results: results})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
