package api

import (
	"fmt"
	"net/http"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/report"
)

// ListReportsResponse lists the generated reports
type ListReportsResponse struct {
	Reports    []*domain.Report `json:"reports"`
	TotalCount int              `json:"totalCount"`
}

// handleValuationReport handles POST /api/reports/valuation/{id}?format=
// The document is returned as an attachment.
func (s *Server) handleValuationReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	doc, err := s.reportService.ValuationReport(r.Context(), id, reportFormat(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondDocument(w, doc)
}

// handleComparisonReport handles POST /api/reports/comparison?format=
func (s *Server) handleComparisonReport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.reportService.ComparisonReport(r.Context(), reportFormat(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondDocument(w, doc)
}

// handleListReports handles GET /api/reports
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reportService.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ListReportsResponse{
		Reports:    reports,
		TotalCount: len(reports),
	})
}

// handleDashboard handles GET /api/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboardService.GetSummary(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// reportFormat reads ?format=, markdown when absent
func reportFormat(r *http.Request) domain.ReportFormat {
	if format := r.URL.Query().Get("format"); format != "" {
		return domain.ReportFormat(format)
	}
	return domain.FormatMarkdown
}

func contentType(format domain.ReportFormat) string {
	switch format {
	case domain.FormatHTML:
		return "text/html; charset=utf-8"
	case domain.FormatTerminal:
		return "text/plain; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

func respondDocument(w http.ResponseWriter, doc *report.Document) {
	w.Header().Set("Content-Type", contentType(doc.Report.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Report.Filename))
	w.Header().Set("X-Report-ID", doc.Report.ID.String())
	w.WriteHeader(http.StatusCreated)
	w.Write(doc.Content)
}
