package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/report"
	"shellenv/internal/resolver"
)

// Backend is what the web handlers need from the application.
type Backend interface {
	Snapshot(ctx context.Context, refresh bool) report.Snapshot
	Which(ctx context.Context, name string) (string, bool)
	GitBash(ctx context.Context) model.GitBashPathInfo
}

// Server exposes the environment over a small JSON API.
type Server struct {
	backend Backend
}

func NewServer(b Backend) *Server {
	return &Server{backend: b}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/env", s.handleEnv)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/which", s.handleWhich)
	mux.HandleFunc("GET /api/gitbash", s.handleGitBash)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/version", s.handleVersion)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logutil.Error("web server shutdown", "err", err)
		}
	}()

	logutil.Info("web server listening", "addr", "http://"+srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleEnv(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Snapshot(r.Context(), false))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	verbose := r.URL.Query().Get("verbose") == "1"
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(report.GenerateReport(s.backend.Snapshot(r.Context(), false), verbose)))
}

type whichResponse struct {
	Query string `json:"query"`
	Path  string `json:"path,omitempty"`
	Found bool   `json:"found"`
}

func (s *Server) handleWhich(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}
	if !resolver.ValidCommandName(query) {
		http.Error(w, "invalid command name", http.StatusBadRequest)
		return
	}
	p, ok := s.backend.Which(r.Context(), query)
	writeJSON(w, http.StatusOK, whichResponse{Query: query, Path: p, Found: ok})
}

func (s *Server) handleGitBash(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.GitBash(r.Context()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Snapshot(r.Context(), true))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": model.Version})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logutil.Warn("encode response", "err", err)
	}
}
