package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/siherrmann/provenance/model"
)

// Service is what the HTTP endpoints are served from.
type Service interface {
	Suggest(ctx context.Context, req *model.SuggestRequest, baseURL string) (*model.SuggestResult, error)
	Answer(ctx context.Context, req *model.AnswerRequest, baseURL string) (*model.AnswerResult, error)
	RenderPage(ctx context.Context, docName string, docVersion string, page int) ([]byte, error)
	RenderHighlight(ctx context.Context, docName string, docVersion string, page int, paraID string, crop bool) ([]byte, error)
}

// Server exposes a Service over HTTP.
type Server struct {
	service        Service
	allowedOrigins []string
	mux            *http.ServeMux
	log            *slog.Logger
}

// NewServer creates the HTTP handler.
// Requests from allowedOrigins get CORS headers.
func NewServer(service Service, allowedOrigins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		service:        service,
		allowedOrigins: allowedOrigins,
		mux:            http.NewServeMux(),
		log:            logger,
	}

	s.mux.HandleFunc("GET /{$}", s.health)
	s.mux.HandleFunc("POST /suggest", s.suggest)
	s.mux.HandleFunc("POST /answer", s.answer)
	s.mux.HandleFunc("GET /source/page", s.sourcePage)
	s.mux.HandleFunc("GET /source/highlight", s.sourceHighlight)

	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); origin != "" && slices.Contains(s.allowedOrigins, origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Vary", "Origin")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	req := model.NewSuggestRequest()
	if err := decodeJSON(r, req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.service.Suggest(r.Context(), req, BaseURL(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	req := model.NewAnswerRequest()
	if err := decodeJSON(r, req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.service.Answer(r.Context(), req, BaseURL(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) sourcePage(w http.ResponseWriter, r *http.Request) {
	q, err := parseSourceQuery(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := s.service.RenderPage(r.Context(), q.docName, q.docVersion, q.page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, data)
}

func (s *Server) sourceHighlight(w http.ResponseWriter, r *http.Request) {
	q, err := parseSourceQuery(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := s.service.RenderHighlight(r.Context(), q.docName, q.docVersion, q.page, q.paraID, q.crop)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, data)
}

type sourceQuery struct {
	docName    string
	docVersion string
	page       int
	paraID     string
	crop       bool
}

func parseSourceQuery(r *http.Request, highlight bool) (*sourceQuery, error) {
	values := r.URL.Query()
	q := &sourceQuery{
		docName:    values.Get("doc_name"),
		docVersion: values.Get("doc_version"),
		paraID:     values.Get("para_id"),
	}

	if q.docName == "" {
		return nil, fmt.Errorf("%w: doc_name is required", model.ErrInvalidInput)
	}

	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		return nil, fmt.Errorf("%w: page must be an integer >= 1", model.ErrInvalidInput)
	}
	q.page = page

	if !highlight {
		return q, nil
	}

	if q.paraID == "" {
		return nil, fmt.Errorf("%w: para_id is required", model.ErrInvalidInput)
	}
	if crop := values.Get("crop"); crop != "" {
		q.crop, err = strconv.ParseBool(crop)
		if err != nil {
			return nil, fmt.Errorf("%w: crop must be a boolean", model.ErrInvalidInput)
		}
	}

	return q, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return nil
}

// BaseURL returns scheme and host the request was addressed to.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + r.Host
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", slog.String("path", r.URL.Path), slog.Int("status", status), slog.String("error", err.Error()))
	} else {
		s.log.Warn("Request rejected", slog.String("path", r.URL.Path), slog.Int("status", status), slog.String("error", err.Error()))
	}
	s.writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Error encoding response", slog.String("error", err.Error()))
	}
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
