// Package api exposes the consultation engine over HTTP: session lifecycle,
// chat turns and research task listing.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/growthdesk/consultor-cli/internal/consult"
	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/store"
)

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	store  store.Store
	engine *consult.Engine
}

// NewServer builds the API server.
func NewServer(st store.Store, engine *consult.Engine) *Server {
	return &Server{store: st, engine: engine}
}

// Router assembles the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/chat", s.handleChat)
			r.Get("/tasks", s.handleListTasks)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateSession creates a session and runs the greeting turn so the
// client gets the opening message in the same call.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.store.CreateSession(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := s.engine.Run(ctx, consult.TurnInput{SessionID: sess.ID, State: sess.State})
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Messages = append(sess.Messages, model.Message{Role: model.RoleAssistant, Content: out.Reply})
	sess.State = out.State
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.ID,
		"reply":      out.Reply,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
		return
	}

	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := s.engine.Run(ctx, consult.TurnInput{
		SessionID:   sess.ID,
		Messages:    sess.Messages,
		UserMessage: req.Message,
		State:       sess.State,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	sess.Messages = append(sess.Messages,
		model.Message{Role: model.RoleUser, Content: req.Message},
		model.Message{Role: model.RoleAssistant, Content: out.Reply},
	)
	sess.State = out.State
	sess.Ready = out.ReadyForAnalysis
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":                 sess.ID,
		"messages":           sess.Messages,
		"profile":            sess.State.View(),
		"ready_for_analysis": sess.Ready,
		"created_at":         sess.CreatedAt,
		"updated_at":         sess.UpdatedAt,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	sessions, err := s.store.ListSessions(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	type item struct {
		ID        string    `json:"id"`
		Ready     bool      `json:"ready_for_analysis"`
		Messages  int       `json:"message_count"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	out := make([]item, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, item{
			ID:        sess.ID,
			Ready:     sess.Ready,
			Messages:  len(sess.Messages),
			UpdatedAt: sess.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
		return
	}
	zap.L().Error("api: request failed", zap.Error(err))
	http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
}
