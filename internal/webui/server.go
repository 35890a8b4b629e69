// Package webui serves the chat page and its JSON API: an embedded
// single-page UI with a canned-question dropdown, a free-text input, and a
// conversation-reset control, each user message forwarded to the agent.
package webui

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:embed index.html
var indexHTML []byte

// chatTimeout bounds one agent turn, tool calls included.
const chatTimeout = 2 * time.Minute

// Invoker runs one conversation turn on a thread.
type Invoker interface {
	Invoke(ctx context.Context, threadID, message string) (string, error)
}

// Server holds the UI's session bookkeeping: a monotonic counter backing the
// "Start New Conversation" control, mirroring thread-1, thread-2, ...
type Server struct {
	agent   Invoker
	queries []string

	mu        sync.Mutex
	threadSeq int
}

// NewServer returns a server forwarding chat turns to agent and offering the
// given canned queries in the dropdown.
func NewServer(agent Invoker, queries []string) *Server {
	return &Server{agent: agent, queries: queries, threadSeq: 1}
}

// Handler builds the chi router for the UI and its API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/queries", s.handleQueries)
	r.With(middleware.Timeout(chatTimeout)).Post("/api/chat", s.handleChat)
	r.Post("/api/reset", s.handleReset)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQueries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"queries": s.queries})
}

type chatRequest struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

type chatResponse struct {
	ThreadID string `json:"thread_id"`
	Reply    string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}
	// Anonymous callers get their own thread rather than sharing one.
	if req.ThreadID == "" {
		req.ThreadID = "thread-" + uuid.NewString()
	}

	reply, err := s.agent.Invoke(r.Context(), req.ThreadID, req.Message)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{ThreadID: req.ThreadID, Reply: reply})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.threadSeq++
	id := fmt.Sprintf("thread-%d", s.threadSeq)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"thread_id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
