package server

import (
	"encoding/json"
	"net/http"

	"github.com/riftrewind/internal/backend"
	"github.com/riftrewind/internal/config"
)

// Envelope wraps a status and a JSON-encoded body, the way serverless
// HTTP gateways return function results.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respond writes payload in the configured response shape.
func (s *Server) respond(w http.ResponseWriter, status int, payload interface{}) {
	if s.shape == config.ShapeDirect {
		WriteJSON(w, status, payload)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Printf("❌ Failed to encode response: %v", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}
	WriteJSON(w, http.StatusOK, Envelope{StatusCode: status, Body: string(body)})
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := backend.StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Printf("❌ Error: %v", err)
	}
	s.respond(w, status, backend.BodyFor(err))
}
