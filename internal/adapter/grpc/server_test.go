package grpc

import (
	"context"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/assetval-backend/internal/adapter/repository/redis"
	reportformat "github.com/simaogato/assetval-backend/internal/adapter/report"
	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/comparison"
	"github.com/simaogato/assetval-backend/internal/usecase/dashboard"
	"github.com/simaogato/assetval-backend/internal/usecase/report"
	"github.com/simaogato/assetval-backend/internal/usecase/valuation"
)

const testToken = "test-token"

// Acquired exactly five years (of 365.25 days) before the test clock
var (
	testAcquired = time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)
	testNow      = testAcquired.Add(5 * 8766 * time.Hour)
)

// setupTestServer serves the valuation service over an in-memory listener,
// backed by the Redis store on miniredis
func setupTestServer(t *testing.T) *Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	logger := log.New(io.Discard, "", 0)
	valuationRepo := redis.NewValuationRepository(rdb)
	comparisonRepo := redis.NewComparisonRepository(rdb)
	reportRepo := redis.NewReportRepository(rdb)

	formatter, err := reportformat.NewFormatter("USD", 0)
	require.NoError(t, err)

	valuationService := valuation.NewValuationService(valuationRepo, comparisonRepo, logger)
	valuationService.Now = func() time.Time { return testNow }
	comparisonService := comparison.NewComparisonService(valuationRepo, comparisonRepo, 2, logger)
	reportService := report.NewReportService(valuationRepo, reportRepo, comparisonService, formatter, logger)
	reportService.Now = func() time.Time { return testNow }
	dashboardService := dashboard.NewDashboardService(valuationRepo, reportRepo)

	lis := bufconn.Listen(1 << 20)
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(LoggingInterceptor(logger), AuthInterceptor(testToken)),
	)
	RegisterValuationServiceServer(grpcServer, NewServer(valuationService, comparisonService, reportService, dashboardService))
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn)
}

func authContext() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func latheInput() domain.AssetInput {
	return domain.AssetInput{
		AssetName:          "CNC Lathe",
		Category:           "machinery",
		AcquisitionDate:    testAcquired.Format(domain.DateLayout),
		AcquisitionCost:    "10000",
		Condition:          "good",
		UsefulLife:         10,
		LiquidationPercent: "50",
		MarketDemand:       "normal",
		EconomicCondition:  "stable",
	}
}

func TestServer_RequiresToken(t *testing.T) {
	client := setupTestServer(t)

	_, err := client.GetDashboard(context.Background(), &Empty{})

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_EvaluateAndHistory(t *testing.T) {
	// Setup
	client := setupTestServer(t)
	ctx := authContext()

	// Execute
	resp, err := client.Evaluate(ctx, &EvaluateRequest{Asset: latheInput()})

	// Assert
	require.NoError(t, err)
	v := resp.Valuation
	assert.True(t, v.MarketValue.Equal(decimal.NewFromInt(4000)), "market value: %s", v.MarketValue)
	assert.True(t, v.LiquidationValue.Equal(decimal.NewFromInt(2000)), "liquidation value: %s", v.LiquidationValue)
	assert.Len(t, v.Breakdown, 4)
	assert.True(t, testNow.Equal(v.CalculatedAt))

	got, err := client.GetValuation(ctx, &ValuationRequest{ValuationID: v.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.Valuation.ID)

	list, err := client.ListValuations(ctx, &ListValuationsRequest{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int32(1), list.TotalCount)
	require.Len(t, list.Valuations, 1)
	assert.Equal(t, v.ID, list.Valuations[0].ID)
}

func TestServer_PreviewIsNotRecorded(t *testing.T) {
	client := setupTestServer(t)
	ctx := authContext()

	resp, err := client.Evaluate(ctx, &EvaluateRequest{Asset: latheInput(), Preview: true})
	require.NoError(t, err)

	_, err = client.GetValuation(ctx, &ValuationRequest{ValuationID: resp.Valuation.ID.String()})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_EvaluateErrors(t *testing.T) {
	client := setupTestServer(t)
	ctx := authContext()

	invalid := latheInput()
	invalid.AcquisitionCost = "-5"
	_, err := client.Evaluate(ctx, &EvaluateRequest{Asset: invalid})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	noLife := latheInput()
	noLife.UsefulLife = 0
	_, err = client.Evaluate(ctx, &EvaluateRequest{Asset: noLife})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "useful life must be positive")
}

func TestServer_GetValuationErrors(t *testing.T) {
	client := setupTestServer(t)
	ctx := authContext()

	_, err := client.GetValuation(ctx, &ValuationRequest{ValuationID: "not-a-uuid"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetValuation(ctx, &ValuationRequest{ValuationID: uuid.NewString()})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.ListValuations(ctx, &ListValuationsRequest{Limit: 10, Offset: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_ComparisonAndReports(t *testing.T) {
	// Setup
	client := setupTestServer(t)
	ctx := authContext()

	first, err := client.Evaluate(ctx, &EvaluateRequest{Asset: latheInput()})
	require.NoError(t, err)
	van := latheInput()
	van.AssetName = "Delivery Van"
	van.Category = "vehicle"
	second, err := client.Evaluate(ctx, &EvaluateRequest{Asset: van})
	require.NoError(t, err)
	third := latheInput()
	third.AssetName = "Forklift"
	extra, err := client.Evaluate(ctx, &EvaluateRequest{Asset: third})
	require.NoError(t, err)

	// Execute / Assert: comparison set
	_, err = client.AddToComparison(ctx, &ValuationRequest{ValuationID: first.Valuation.ID.String()})
	require.NoError(t, err)
	_, err = client.AddToComparison(ctx, &ValuationRequest{ValuationID: first.Valuation.ID.String()})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	cmp, err := client.AddToComparison(ctx, &ValuationRequest{ValuationID: second.Valuation.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 2, cmp.Summary.TotalAssets)
	assert.Equal(t, "CNC Lathe", cmp.Summary.Rows[0].AssetName)
	assert.Equal(t, "Delivery Van", cmp.Summary.Rows[1].AssetName)

	_, err = client.AddToComparison(ctx, &ValuationRequest{ValuationID: extra.Valuation.ID.String()})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	// Reports
	single, err := client.GenerateReport(ctx, &GenerateReportRequest{
		Kind:        domain.ReportKindValuation,
		ValuationID: first.Valuation.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatMarkdown, single.Report.Format)
	assert.Equal(t, report.ValuationFilename("CNC Lathe", testNow, domain.FormatMarkdown), single.Report.Filename)
	assert.Contains(t, single.Content, "# Asset Valuation Report")
	assert.Contains(t, single.Content, "CNC Lathe")

	combined, err := client.GenerateReport(ctx, &GenerateReportRequest{
		Kind:   domain.ReportKindComparison,
		Format: domain.FormatHTML,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"CNC Lathe", "Delivery Van"}, combined.Report.AssetNames)
	assert.Contains(t, combined.Content, "<table>")

	_, err = client.GenerateReport(ctx, &GenerateReportRequest{Kind: "pdf"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = client.GenerateReport(ctx, &GenerateReportRequest{Kind: domain.ReportKindComparison, Format: "pdf"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	reports, err := client.ListReports(ctx, &Empty{})
	require.NoError(t, err)
	require.Len(t, reports.Reports, 2)
	assert.Equal(t, domain.ReportKindComparison, reports.Reports[0].Kind)

	dash, err := client.GetDashboard(ctx, &Empty{})
	require.NoError(t, err)
	assert.Equal(t, 3, dash.Summary.TotalValuations)
	assert.Equal(t, 2, dash.Summary.ReportsGenerated)
}

func TestServer_DeleteLeavesComparison(t *testing.T) {
	client := setupTestServer(t)
	ctx := authContext()

	resp, err := client.Evaluate(ctx, &EvaluateRequest{Asset: latheInput()})
	require.NoError(t, err)
	id := resp.Valuation.ID.String()
	_, err = client.AddToComparison(ctx, &ValuationRequest{ValuationID: id})
	require.NoError(t, err)

	_, err = client.DeleteValuation(ctx, &ValuationRequest{ValuationID: id})
	require.NoError(t, err)

	_, err = client.GetValuation(ctx, &ValuationRequest{ValuationID: id})
	assert.Equal(t, codes.NotFound, status.Code(err))

	cmp, err := client.GetComparison(ctx, &Empty{})
	require.NoError(t, err)
	assert.Equal(t, 0, cmp.Summary.TotalAssets)

	_, err = client.GenerateReport(ctx, &GenerateReportRequest{Kind: domain.ReportKindComparison})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.DeleteValuation(ctx, &ValuationRequest{ValuationID: id})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.ClearComparison(ctx, &Empty{})
	assert.NoError(t, err)
}
