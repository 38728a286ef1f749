package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/comparison"
	"github.com/simaogato/assetval-backend/internal/usecase/dashboard"
	"github.com/simaogato/assetval-backend/internal/usecase/report"
	"github.com/simaogato/assetval-backend/internal/usecase/valuation"
)

// Server implements the ValuationService gRPC server
type Server struct {
	ValuationService  *valuation.ValuationService
	ComparisonService *comparison.ComparisonService
	ReportService     *report.ReportService
	DashboardService  *dashboard.DashboardService
}

var _ ValuationServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	valuationService *valuation.ValuationService,
	comparisonService *comparison.ComparisonService,
	reportService *report.ReportService,
	dashboardService *dashboard.DashboardService,
) *Server {
	return &Server{
		ValuationService:  valuationService,
		ComparisonService: comparisonService,
		ReportService:     reportService,
		DashboardService:  dashboardService,
	}
}

// Evaluate handles the Evaluate RPC
func (s *Server) Evaluate(ctx context.Context, req *EvaluateRequest) (*ValuationResponse, error) {
	asset, err := req.Asset.Parse()
	if err != nil {
		return nil, mapError(err)
	}

	var result *domain.ValuationResult
	if req.Preview {
		result, err = s.ValuationService.Preview(ctx, asset)
	} else {
		result, err = s.ValuationService.Calculate(ctx, asset)
	}
	if err != nil {
		return nil, mapError(err)
	}

	return &ValuationResponse{Valuation: result}, nil
}

// GetValuation handles the GetValuation RPC
func (s *Server) GetValuation(ctx context.Context, req *ValuationRequest) (*ValuationResponse, error) {
	id, err := parseValuationID(req.ValuationID)
	if err != nil {
		return nil, err
	}

	result, err := s.ValuationService.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return &ValuationResponse{Valuation: result}, nil
}

// ListValuations handles the ListValuations RPC
func (s *Server) ListValuations(ctx context.Context, req *ListValuationsRequest) (*ListValuationsResponse, error) {
	if req.Limit < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "limit must not be negative")
	}
	if req.Offset < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "offset must be non-negative")
	}

	// Total count for accurate pagination
	totalCount, err := s.ValuationService.Count(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	valuations, err := s.ValuationService.History(ctx, int(req.Limit), int(req.Offset))
	if err != nil {
		return nil, mapError(err)
	}

	return &ListValuationsResponse{
		Valuations: valuations,
		TotalCount: int32(totalCount),
	}, nil
}

// DeleteValuation handles the DeleteValuation RPC
func (s *Server) DeleteValuation(ctx context.Context, req *ValuationRequest) (*Empty, error) {
	id, err := parseValuationID(req.ValuationID)
	if err != nil {
		return nil, err
	}

	if err := s.ValuationService.Delete(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return &Empty{}, nil
}

// AddToComparison handles the AddToComparison RPC and returns the updated comparison
func (s *Server) AddToComparison(ctx context.Context, req *ValuationRequest) (*ComparisonResponse, error) {
	id, err := parseValuationID(req.ValuationID)
	if err != nil {
		return nil, err
	}

	if err := s.ComparisonService.Add(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return s.GetComparison(ctx, &Empty{})
}

// RemoveFromComparison handles the RemoveFromComparison RPC and returns the updated comparison
func (s *Server) RemoveFromComparison(ctx context.Context, req *ValuationRequest) (*ComparisonResponse, error) {
	id, err := parseValuationID(req.ValuationID)
	if err != nil {
		return nil, err
	}

	if err := s.ComparisonService.Remove(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return s.GetComparison(ctx, &Empty{})
}

// ClearComparison handles the ClearComparison RPC
func (s *Server) ClearComparison(ctx context.Context, _ *Empty) (*Empty, error) {
	if err := s.ComparisonService.Clear(ctx); err != nil {
		return nil, mapError(err)
	}
	return &Empty{}, nil
}

// GetComparison handles the GetComparison RPC
func (s *Server) GetComparison(ctx context.Context, _ *Empty) (*ComparisonResponse, error) {
	summary, err := s.ComparisonService.Summary(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &ComparisonResponse{Summary: summary}, nil
}

// GenerateReport handles the GenerateReport RPC
func (s *Server) GenerateReport(ctx context.Context, req *GenerateReportRequest) (*GenerateReportResponse, error) {
	format := req.Format
	if format == "" {
		format = domain.FormatMarkdown
	}

	var (
		doc *report.Document
		err error
	)
	switch req.Kind {
	case domain.ReportKindValuation:
		id, parseErr := parseValuationID(req.ValuationID)
		if parseErr != nil {
			return nil, parseErr
		}
		doc, err = s.ReportService.ValuationReport(ctx, id, format)
	case domain.ReportKindComparison:
		doc, err = s.ReportService.ComparisonReport(ctx, format)
	default:
		return nil, status.Errorf(codes.InvalidArgument, "invalid report kind %q", req.Kind)
	}
	if err != nil {
		return nil, mapError(err)
	}

	return &GenerateReportResponse{
		Report:  doc.Report,
		Content: string(doc.Content),
	}, nil
}

// ListReports handles the ListReports RPC
func (s *Server) ListReports(ctx context.Context, _ *Empty) (*ListReportsResponse, error) {
	reports, err := s.ReportService.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &ListReportsResponse{Reports: reports}, nil
}

// GetDashboard handles the GetDashboard RPC
func (s *Server) GetDashboard(ctx context.Context, _ *Empty) (*DashboardResponse, error) {
	summary, err := s.DashboardService.GetSummary(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &DashboardResponse{Summary: summary}, nil
}

func parseValuationID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid valuation_id format: %v", err)
	}
	return id, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDivision),
		errors.Is(err, domain.ErrUnsupportedFormat):
		return status.Error(codes.InvalidArgument, msg)
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, msg)
	case errors.Is(err, domain.ErrAlreadyInComparison),
		errors.Is(err, domain.ErrComparisonFull),
		errors.Is(err, domain.ErrComparisonEmpty):
		return status.Error(codes.FailedPrecondition, msg)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, msg)
	default:
		return status.Error(codes.Internal, fmt.Sprintf("internal error: %s", msg))
	}
}
