package grpc

import (
	"context"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/dashboard"
	"google.golang.org/grpc"
)

// ServiceName is the fully qualified name of the valuation service
const ServiceName = "assetval.v1.ValuationService"

// Empty is used by calls without arguments or results
type Empty struct{}

type EvaluateRequest struct {
	Asset   domain.AssetInput `json:"asset"`
	Preview bool              `json:"preview"` // evaluate without recording
}

type ValuationRequest struct {
	ValuationID string `json:"valuationId"`
}

type ValuationResponse struct {
	Valuation *domain.ValuationResult `json:"valuation"`
}

type ListValuationsRequest struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

type ListValuationsResponse struct {
	Valuations []*domain.ValuationResult `json:"valuations"`
	TotalCount int32                     `json:"totalCount"`
}

type ComparisonResponse struct {
	Summary *domain.ComparisonSummary `json:"summary"`
}

type GenerateReportRequest struct {
	Kind        domain.ReportKind   `json:"kind"`
	ValuationID string              `json:"valuationId,omitempty"` // valuation reports only
	Format      domain.ReportFormat `json:"format"`
}

type GenerateReportResponse struct {
	Report  *domain.Report `json:"report"`
	Content string         `json:"content"`
}

type ListReportsResponse struct {
	Reports []*domain.Report `json:"reports"`
}

type DashboardResponse struct {
	Summary *dashboard.Summary `json:"summary"`
}

// ValuationServiceServer is the server API for the valuation service
type ValuationServiceServer interface {
	Evaluate(context.Context, *EvaluateRequest) (*ValuationResponse, error)
	GetValuation(context.Context, *ValuationRequest) (*ValuationResponse, error)
	ListValuations(context.Context, *ListValuationsRequest) (*ListValuationsResponse, error)
	DeleteValuation(context.Context, *ValuationRequest) (*Empty, error)
	AddToComparison(context.Context, *ValuationRequest) (*ComparisonResponse, error)
	RemoveFromComparison(context.Context, *ValuationRequest) (*ComparisonResponse, error)
	ClearComparison(context.Context, *Empty) (*Empty, error)
	GetComparison(context.Context, *Empty) (*ComparisonResponse, error)
	GenerateReport(context.Context, *GenerateReportRequest) (*GenerateReportResponse, error)
	ListReports(context.Context, *Empty) (*ListReportsResponse, error)
	GetDashboard(context.Context, *Empty) (*DashboardResponse, error)
}

// RegisterValuationServiceServer registers srv on s
func RegisterValuationServiceServer(s grpc.ServiceRegistrar, srv ValuationServiceServer) {
	s.RegisterService(&ValuationServiceDesc, srv)
}

// ValuationServiceDesc describes the valuation service to the gRPC runtime
var ValuationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ValuationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Evaluate", ValuationServiceServer.Evaluate),
		unaryMethod("GetValuation", ValuationServiceServer.GetValuation),
		unaryMethod("ListValuations", ValuationServiceServer.ListValuations),
		unaryMethod("DeleteValuation", ValuationServiceServer.DeleteValuation),
		unaryMethod("AddToComparison", ValuationServiceServer.AddToComparison),
		unaryMethod("RemoveFromComparison", ValuationServiceServer.RemoveFromComparison),
		unaryMethod("ClearComparison", ValuationServiceServer.ClearComparison),
		unaryMethod("GetComparison", ValuationServiceServer.GetComparison),
		unaryMethod("GenerateReport", ValuationServiceServer.GenerateReport),
		unaryMethod("ListReports", ValuationServiceServer.ListReports),
		unaryMethod("GetDashboard", ValuationServiceServer.GetDashboard),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "assetval/v1/valuation",
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryMethod builds the handler gRPC calls for one unary method:
// decode the request, then run call behind the server's interceptor chain
func unaryMethod[Req, Resp any](
	method string,
	call func(ValuationServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ValuationServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ValuationServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client calls the valuation service using the JSON codec
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client over an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Evaluate(ctx context.Context, in *EvaluateRequest, opts ...grpc.CallOption) (*ValuationResponse, error) {
	return invoke[ValuationResponse](ctx, c, "Evaluate", in, opts)
}

func (c *Client) GetValuation(ctx context.Context, in *ValuationRequest, opts ...grpc.CallOption) (*ValuationResponse, error) {
	return invoke[ValuationResponse](ctx, c, "GetValuation", in, opts)
}

func (c *Client) ListValuations(ctx context.Context, in *ListValuationsRequest, opts ...grpc.CallOption) (*ListValuationsResponse, error) {
	return invoke[ListValuationsResponse](ctx, c, "ListValuations", in, opts)
}

func (c *Client) DeleteValuation(ctx context.Context, in *ValuationRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "DeleteValuation", in, opts)
}

func (c *Client) AddToComparison(ctx context.Context, in *ValuationRequest, opts ...grpc.CallOption) (*ComparisonResponse, error) {
	return invoke[ComparisonResponse](ctx, c, "AddToComparison", in, opts)
}

func (c *Client) RemoveFromComparison(ctx context.Context, in *ValuationRequest, opts ...grpc.CallOption) (*ComparisonResponse, error) {
	return invoke[ComparisonResponse](ctx, c, "RemoveFromComparison", in, opts)
}

func (c *Client) ClearComparison(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "ClearComparison", in, opts)
}

func (c *Client) GetComparison(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ComparisonResponse, error) {
	return invoke[ComparisonResponse](ctx, c, "GetComparison", in, opts)
}

func (c *Client) GenerateReport(ctx context.Context, in *GenerateReportRequest, opts ...grpc.CallOption) (*GenerateReportResponse, error) {
	return invoke[GenerateReportResponse](ctx, c, "GenerateReport", in, opts)
}

func (c *Client) ListReports(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListReportsResponse, error) {
	return invoke[ListReportsResponse](ctx, c, "ListReports", in, opts)
}

func (c *Client) GetDashboard(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*DashboardResponse, error) {
	return invoke[DashboardResponse](ctx, c, "GetDashboard", in, opts)
}
