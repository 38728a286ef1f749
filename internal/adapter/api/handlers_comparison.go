package api

import (
	"net/http"

	"github.com/google/uuid"
)

// handleGetComparison handles GET /api/comparison
func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	s.respondComparison(w, r, http.StatusOK)
}

// handleAddToComparison handles POST /api/comparison with {"valuationId": "..."}
func (s *Server) handleAddToComparison(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ValuationID string `json:"valuationId"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return
	}

	id, err := uuid.Parse(req.ValuationID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid valuation ID")
		return
	}

	if err := s.comparisonService.Add(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	s.respondComparison(w, r, http.StatusCreated)
}

// handleRemoveFromComparison handles DELETE /api/comparison/{id}
func (s *Server) handleRemoveFromComparison(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.comparisonService.Remove(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	s.respondComparison(w, r, http.StatusOK)
}

// handleClearComparison handles DELETE /api/comparison
func (s *Server) handleClearComparison(w http.ResponseWriter, r *http.Request) {
	if err := s.comparisonService.Clear(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondComparison(w http.ResponseWriter, r *http.Request, statusCode int) {
	summary, err := s.comparisonService.Summary(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, statusCode, summary)
}
