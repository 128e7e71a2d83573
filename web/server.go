// Package web exposes career mentor sessions over HTTP. Replies are streamed
// as server-sent events.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/boat-builder/careermentor"
)

type Server struct {
	// ctx bounds session lifetimes; request contexts only bound turns.
	ctx    context.Context
	pod    *careermentor.Pod
	logger *slog.Logger
}

func NewServer(ctx context.Context, pod *careermentor.Pod, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{ctx: ctx, pod: pod, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /sessions/{id}/messages", s.handleSendMessage)

	return chainMiddlewares(mux, withCORS, withLogging(logger))
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

type messageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type getSessionResponse struct {
	SessionID string            `json:"session_id"`
	State     string            `json:"state"`
	Agent     string            `json:"agent"`
	Messages  []messageResponse `json:"messages"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.pod.NewSession(s.ctx)

	greeting := &greetingUI{}
	if err := sess.Start(r.Context(), greeting); err != nil {
		internalError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sess.ID(),
		Greeting:  greeting.content,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	history := sess.History()
	messages := make([]messageResponse, 0, len(history))
	for _, m := range history {
		messages = append(messages, messageResponse{Role: string(m.Role), Content: m.Content})
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		SessionID: sess.ID(),
		State:     sess.State().String(),
		Agent:     sess.ActiveAgent().Name(),
		Messages:  messages,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.pod.EndSession(r.PathValue("id")); err != nil {
		if errors.Is(err, careermentor.ErrSessionNotFound) {
			notFound(w)
			return
		}
		internalError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}
	if sess.State() == careermentor.StateClosed {
		writeJSON(w, http.StatusGone, map[string]string{"error": careermentor.ErrSessionClosed.Error()})
		return
	}

	ui := newSSEUI(w)
	w.WriteHeader(http.StatusOK)

	result := sess.HandleMessage(r.Context(), req.Text, ui)
	if err := ui.done(r.Context(), result); err != nil {
		s.logger.Warn("Error writing done event", "sessionID", sess.ID(), "error", err)
	}
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*careermentor.Session, bool) {
	sess, err := s.pod.Session(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, careermentor.ErrSessionNotFound) {
			notFound(w)
			return nil, false
		}
		internalError(w, s.logger, err)
		return nil, false
	}
	return sess, true
}

// greetingUI captures the greeting a session sends on start.
type greetingUI struct {
	content string
}

func (g *greetingUI) Send(ctx context.Context, content string) error {
	g.content = content
	return nil
}

func (g *greetingUI) StreamToken(ctx context.Context, token string) error {
	g.content += token
	return nil
}

func (g *greetingUI) Update(ctx context.Context, content string) error {
	g.content = content
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": careermentor.ErrSessionNotFound.Error()})
}

func internalError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("Internal server error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
