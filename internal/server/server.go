// Package server exposes the backend operations over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/riftrewind/internal/backend"
	"github.com/riftrewind/internal/config"
	"github.com/riftrewind/internal/domain"
	"github.com/riftrewind/pkg/healthcheck"
)

// maxBodyBytes bounds request bodies; every request is a tiny JSON object.
const maxBodyBytes = 64 << 10

// Backend is implemented by backend.Service.
type Backend interface {
	Lookup(ctx context.Context, req domain.LookupRequest) (*domain.LookupResult, error)
	Process(ctx context.Context, req domain.ProcessRequest) (*domain.AggregateResult, error)
	Ask(ctx context.Context, req domain.AskRequest) (*domain.QAExchange, error)
	Ping(ctx context.Context) error
}

// Server is the HTTP front of the backend.
type Server struct {
	backend Backend
	shape   string
	logger  *log.Logger
	server  *http.Server
}

// New creates a server listening on cfg.ServerAddr.
func New(cfg *config.Config, b Backend, logger *log.Logger) *Server {
	s := &Server{
		backend: b,
		shape:   cfg.ResponseShape,
		logger:  logger,
	}
	s.server = &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           s.Handler(),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      150 * time.Second, // AI answers can be slow
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 14,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	health := healthcheck.Handler(map[string]healthcheck.Check{
		"storage": s.backend.Ping,
	})
	mux.Handle("GET /{$}", health)
	mux.Handle("GET /health", health)

	mux.HandleFunc("POST /lookup", s.handleLookup)
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("POST /ask", s.handleAsk)

	return s.withRequestID(withCORS(mux))
}

// Start starts the server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Printf("🚀 Listening on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// lookupBody accepts both playerName and the older summonerName field.
type lookupBody struct {
	PlayerName   string `json:"playerName"`
	SummonerName string `json:"summonerName"`
	Region       string `json:"region"`
}

// idBody accepts both stableId and the older puuid field.
type idBody struct {
	StableID string `json:"stableId"`
	PUUID    string `json:"puuid"`
	Question string `json:"question"`
}

func (b idBody) id() string {
	if b.StableID != "" {
		return b.StableID
	}
	return b.PUUID
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var body lookupBody
	if !s.decode(w, r, &body) {
		return
	}

	name := body.PlayerName
	if name == "" {
		name = body.SummonerName
	}

	res, err := s.backend.Lookup(r.Context(), domain.LookupRequest{PlayerName: name, Region: domain.Region(body.Region)})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, res)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var body idBody
	if !s.decode(w, r, &body) {
		return
	}

	res, err := s.backend.Process(r.Context(), domain.ProcessRequest{StableID: body.id()})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, res)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var body idBody
	if !s.decode(w, r, &body) {
		return
	}

	res, err := s.backend.Ask(r.Context(), domain.AskRequest{StableID: body.id(), Question: body.Question})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, res)
}

// decode reads a JSON body into v and answers 400 when it cannot.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respond(w, http.StatusBadRequest, backend.ErrorBody{Error: "Invalid request body", Detail: err.Error()})
		return false
	}
	return true
}
