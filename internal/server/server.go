// Package server exposes audits over HTTP using a JSON envelope:
// {"success": true, "data": ...} or {"success": false, "error": {"code", "message"}}.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dshills/seoaudit/internal/auditor"
	"github.com/dshills/seoaudit/internal/fix"
	"github.com/dshills/seoaudit/internal/llm"
	"github.com/dshills/seoaudit/internal/store"
)

// Error codes carried in the envelope.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeLLMUnavailable = "LLM_UNAVAILABLE"
	CodeLLMInvalid     = "LLM_INVALID_OUTPUT"
	CodeInternal       = "INTERNAL_ERROR"
)

const maxBodyBytes = 1 << 20

// Server routes audit and fix requests.
type Server struct {
	auditor *auditor.Auditor
	drafter *fix.Drafter
	logger  *slog.Logger
	handler http.Handler
}

// New builds a server. drafter may be nil, in which case fix requests
// answer 503.
func New(a *auditor.Auditor, drafter *fix.Drafter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{auditor: a, drafter: drafter, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/seo/audit", s.handleAuditPost)
	mux.HandleFunc("GET /api/seo/audit", s.handleAuditGet)
	mux.HandleFunc("GET /api/seo/audit/latest", s.handleLatest)
	mux.HandleFunc("POST /api/seo/fixes", s.handleFixes)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]string{"status": "ok"}})
	})

	s.handler = s.logRequests(s.recoverPanics(mux))
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", "component", "server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	s.logger.Info("server stopped", "component", "server")
	return nil
}

type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleAuditPost(w http.ResponseWriter, r *http.Request) {
	var req auditor.Request
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, http.StatusBadRequest, CodeValidation, err)
		return
	}
	s.runAudit(w, r, req)
}

func (s *Server) handleAuditGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.runAudit(w, r, auditor.Request{ProjectID: q.Get("projectId"), Scope: q.Get("scope")})
}

func (s *Server) runAudit(w http.ResponseWriter, r *http.Request, req auditor.Request) {
	res, err := s.auditor.Run(r.Context(), req)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: res})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	res, err := s.auditor.Latest(r.Context(), r.URL.Query().Get("projectId"))
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: res})
}

type fixRequest struct {
	ProjectID string   `json:"projectId"`
	IssueIDs  []string `json:"issueIds,omitempty"`
}

type fixResponse struct {
	ProjectID string    `json:"projectId"`
	AuditID   string    `json:"auditId"`
	Fixes     []fix.Fix `json:"fixes"`
}

func (s *Server) handleFixes(w http.ResponseWriter, r *http.Request) {
	var req fixRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, http.StatusBadRequest, CodeValidation, err)
		return
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		s.failErr(w, r, auditor.ErrMissingProjectID)
		return
	}
	if s.drafter == nil {
		s.failErr(w, r, llm.ErrNoProvider)
		return
	}

	ctx := r.Context()
	res, err := s.auditor.Latest(ctx, req.ProjectID)
	if errors.Is(err, store.ErrNotFound) {
		res, err = s.auditor.Run(ctx, auditor.Request{ProjectID: req.ProjectID})
	}
	if err != nil {
		s.failErr(w, r, err)
		return
	}

	targets := fix.AutoFixable(res.Issues, req.IssueIDs)
	fixes, err := s.drafter.Draft(ctx, s.auditor.Project(res.ProjectID), targets)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	if fixes == nil {
		fixes = []fix.Fix{}
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: fixResponse{
		ProjectID: res.ProjectID,
		AuditID:   res.ID,
		Fixes:     fixes,
	}})
}

// failErr maps an error to its status and code.
func (s *Server) failErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auditor.ErrMissingProjectID):
		s.fail(w, r, http.StatusBadRequest, CodeValidation, err)
	case errors.Is(err, store.ErrNotFound):
		s.fail(w, r, http.StatusNotFound, CodeNotFound, err)
	case errors.Is(err, llm.ErrNoProvider):
		s.fail(w, r, http.StatusServiceUnavailable, CodeLLMUnavailable, err)
	case errors.Is(err, fix.ErrInvalidOutput):
		s.fail(w, r, http.StatusBadGateway, CodeLLMInvalid, err)
	default:
		s.fail(w, r, http.StatusInternalServerError, CodeInternal, err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", requestID(r.Context()), "code", code, "error", err)
	}
	writeJSON(w, status, envelope{Error: &apiError{Code: code, Message: err.Error()}})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}
