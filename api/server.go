// Package api - thin HTTP layer over the quote engine
// The API only ingests input, invokes the engine and serializes the
// result; it never performs pricing logic itself.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/S-COULIBALY/express-quote-sub008/core/engine"
	"github.com/S-COULIBALY/express-quote-sub008/core/money"
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
	"github.com/S-COULIBALY/express-quote-sub008/internal/logging"
)

// Server is the HTTP API server
type Server struct {
	engine  *engine.Engine
	router  chi.Router
	version string
	log     *zap.Logger
}

// NewServer creates an API server over an engine
func NewServer(eng *engine.Engine, version string) *Server {
	s := &Server{
		engine:  eng,
		version: version,
		log:     logging.Named("api"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Post("/v1/quotes", s.handleQuote)
	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	s.router = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleQuote handles POST /v1/quotes
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	currency := money.Currency(req.Currency)
	if currency == "" {
		currency = money.CurrencyEUR
	}
	basePrice := money.NewFromFloat(req.BasePrice, currency)

	result, err := s.engine.Execute(&req.Quote, basePrice)
	if err != nil {
		if errors.IsType(err, errors.TypeInput) {
			s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		s.log.Error("quote computation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "ENGINE_ERROR", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encoding failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
