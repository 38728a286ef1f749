package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/valuation"
)

// ListValuationsResponse is a page of the valuation history
type ListValuationsResponse struct {
	Valuations []*domain.ValuationResult `json:"valuations"`
	TotalCount int                       `json:"totalCount"`
	Limit      int                       `json:"limit"`
	Offset     int                       `json:"offset"`
}

// handleCreateValuation handles POST /api/valuations - evaluate and record an asset
func (s *Server) handleCreateValuation(w http.ResponseWriter, r *http.Request) {
	asset, ok := parseAsset(w, r)
	if !ok {
		return
	}

	result, err := s.valuationService.Calculate(r.Context(), asset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// handlePreviewValuation handles POST /api/valuations/preview - evaluate without recording
func (s *Server) handlePreviewValuation(w http.ResponseWriter, r *http.Request) {
	asset, ok := parseAsset(w, r)
	if !ok {
		return
	}

	result, err := s.valuationService.Preview(r.Context(), asset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleListValuations handles GET /api/valuations?limit=&offset=
func (s *Server) handleListValuations(w http.ResponseWriter, r *http.Request) {
	// Invalid values fall back to the defaults
	limit := queryInt(r, "limit", valuation.DefaultHistoryLimit)
	if limit <= 0 {
		limit = valuation.DefaultHistoryLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	total, err := s.valuationService.Count(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	valuations, err := s.valuationService.History(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ListValuationsResponse{
		Valuations: valuations,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	})
}

// handleGetValuation handles GET /api/valuations/{id}
func (s *Server) handleGetValuation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := s.valuationService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleDeleteValuation handles DELETE /api/valuations/{id}
func (s *Server) handleDeleteValuation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.valuationService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseAsset decodes and validates an asset from the request body
func parseAsset(w http.ResponseWriter, r *http.Request) (domain.AssetDescription, bool) {
	var req domain.AssetInput
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return domain.AssetDescription{}, false
	}

	asset, err := req.Parse()
	if err != nil {
		respondServiceError(w, err)
		return domain.AssetDescription{}, false
	}
	return asset, true
}

// pathID parses the {id} route variable
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid valuation ID")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return defaultValue
	}
	return value
}
