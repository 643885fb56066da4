// Package http exposes the chat, resolution and knowledge-base admin API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
	"github.com/gls-pallavi/Wellbot/internal/domain/usecases"
)

const maxBodyBytes = 1 << 20

// Config holds HTTP server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AdminToken      string
	CORSOrigins     []string
}

// Server is the HTTP server for the chat and admin API.
type Server struct {
	chat    *usecases.ChatUseCase
	resolve *usecases.ResolveUseCase
	admin   *usecases.AdminUseCase
	cfg     Config
	logger  zerolog.Logger
}

// NewServer creates a new HTTP server.
func NewServer(
	chat *usecases.ChatUseCase,
	resolve *usecases.ResolveUseCase,
	admin *usecases.AdminUseCase,
	cfg Config,
	logger zerolog.Logger,
) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		chat:    chat,
		resolve: resolve,
		admin:   admin,
		cfg:     cfg,
		logger:  logger.With().Str("component", "http").Logger(),
	}
	if cfg.AdminToken == "" {
		s.logger.Warn().Msg("admin token not set; knowledge base edits are unauthenticated")
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(corsMiddleware(s.cfg.CORSOrigins, true))
			r.Options("/*", preflight)
			r.Get("/health", s.handleHealth)
			r.Post("/chat", s.handleChat)
			r.Post("/resolve", s.handleResolve)
			r.Get("/kb", s.handleListIntents)
			r.Get("/kb/{intent}", s.handleGetKB)
		})

		// KB edits never get the wildcard origin.
		r.Group(func(r chi.Router) {
			r.Use(corsMiddleware(s.cfg.CORSOrigins, false))
			r.Use(adminAuth(s.cfg.AdminToken))
			r.Options("/kb/{intent}/entries", preflight)
			r.Options("/kb/{intent}/entries/{id}", preflight)
			r.Post("/kb/{intent}/entries", s.handleAddEntry)
			r.Put("/kb/{intent}/entries/{id}", s.handleUpdateEntry)
			r.Delete("/kb/{intent}/entries/{id}", s.handleDeleteEntry)
		})
	})

	return r
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	s.logger.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			server.Close()
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string   `json:"session_id"`
	Answer    string   `json:"answer"`
	Language  string   `json:"language"`
	Intent    string   `json:"intent"`
	Entities  []string `json:"entities"`
}

type resolveRequest struct {
	Intent          string   `json:"intent"`
	Entities        []string `json:"entities"`
	Text            string   `json:"text"`
	UserID          string   `json:"user_id"`
	SessionLanguage string   `json:"session_language"`
}

type resolveResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Persist  bool   `json:"persist"`
}

type searchResponse struct {
	Intent  string           `json:"intent"`
	Query   string           `json:"query"`
	Entries []entities.Entry `json:"entries"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	resp, err := s.chat.Chat(r.Context(), &entities.ChatRequest{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Message:   req.Message,
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	entityValues := resp.Entities
	if entityValues == nil {
		entityValues = []string{}
	}
	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: req.SessionID,
		Answer:    resp.Answer,
		Language:  resp.Language,
		Intent:    resp.Intent,
		Entities:  entityValues,
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	answer := s.resolve.Resolve(r.Context(), entities.ResolveRequest{
		Intent:          req.Intent,
		Entities:        req.Entities,
		Text:            req.Text,
		UserID:          req.UserID,
		SessionLanguage: req.SessionLanguage,
	})
	writeJSON(w, http.StatusOK, resolveResponse{
		Text:     answer.Text,
		Language: answer.Language,
		Persist:  answer.Persist,
	})
}

func (s *Server) handleListIntents(w http.ResponseWriter, r *http.Request) {
	intents, err := s.admin.ListIntents(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if intents == nil {
		intents = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"intents": intents})
}

func (s *Server) handleGetKB(w http.ResponseWriter, r *http.Request) {
	intent := pathParam(r, "intent")

	if q := r.URL.Query().Get("q"); q != "" {
		found, err := s.admin.Search(r.Context(), intent, q)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if found == nil {
			found = []entities.Entry{}
		}
		writeJSON(w, http.StatusOK, searchResponse{Intent: intent, Query: q, Entries: found})
		return
	}

	kb, err := s.admin.Get(r.Context(), intent)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kb)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	intent := pathParam(r, "intent")
	var e entities.Entry
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := s.admin.AddEntry(r.Context(), intent, e)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	intent := pathParam(r, "intent")
	id := pathParam(r, "id")
	var e entities.Entry
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := s.admin.UpdateEntry(r.Context(), intent, id, e)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.DeleteEntry(r.Context(), pathParam(r, "intent"), pathParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathParam returns the decoded route parameter; chi matches on the raw
// path when the client escaped it.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the entities sentinels to status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrDuplicateID):
		status = http.StatusConflict
	case errors.Is(err, entities.ErrEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidEntry), errors.Is(err, entities.ErrInvalidIntent):
		status = http.StatusBadRequest
	case errors.Is(err, entities.ErrInvalidKB):
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, err.Error())
}
