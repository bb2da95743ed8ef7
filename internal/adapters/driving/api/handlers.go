package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// embeddingsResponse reports how many chunks an ingestion indexed.
type embeddingsResponse struct {
	DocumentsProcessed int `json:"documentsProcessed"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	var req domain.RecommendationRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		logger.Warn("api: %s: decoding recommendation request: %v", RequestIDFrom(r.Context()), err)
		respondError(w, http.StatusBadRequest, domain.MessageBadPayload)
		return
	}

	result := s.deps.Recommendation.Recommend(r.Context(), req)
	if rec, ok := result.Recommendation(); ok {
		respondJSON(w, http.StatusOK, rec)
		return
	}
	respondError(w, statusFor(result.Kind()), result.Message())
}

func (s *Server) embeddings(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ingest == nil || s.deps.Corpus == nil {
		respondError(w, http.StatusServiceUnavailable, "Ingestion is not configured.")
		return
	}

	id := RequestIDFrom(r.Context())
	corpus, err := s.deps.Corpus.Load(r.Context())
	if err != nil {
		logger.Error("api: %s: loading corpus from %s: %v", id, s.deps.Corpus.Describe(), err)
		respondError(w, http.StatusInternalServerError, "Failed to load movies data")
		return
	}

	report, err := s.deps.Ingest.Ingest(r.Context(), corpus)
	if err != nil {
		logger.Error("api: %s: ingesting corpus: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to create embeddings")
		return
	}

	logger.Info("api: %s: indexed %d chunks from %d records", id, report.Chunks, report.Records)
	respondJSON(w, http.StatusOK, embeddingsResponse{DocumentsProcessed: report.Chunks})
}

// statusFor maps a recommendation error kind to its HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrorKindBadRequest:
		return http.StatusBadRequest
	case domain.ErrorKindNoCandidates:
		return http.StatusNotFound
	case domain.ErrorKindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("api: marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Warn("api: write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
