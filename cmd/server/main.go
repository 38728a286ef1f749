package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"

	"github.com/simaogato/assetval-backend/internal/adapter/api"
	grpcadapter "github.com/simaogato/assetval-backend/internal/adapter/grpc"
	"github.com/simaogato/assetval-backend/internal/app"
	"github.com/simaogato/assetval-backend/internal/config"
)

func main() {
	logger := log.Default()

	// 1. Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Store and services
	services, err := openWithRetry(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Backend, err)
	}
	defer services.Close()

	if cfg.SeedSample {
		seeded, err := services.Seeder.Seed(context.Background())
		if err != nil {
			log.Fatalf("Failed to seed sample valuations: %v", err)
		}
		log.Printf("Sample valuations seeded: %d new", seeded)
	}

	// 3. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)
	grpcadapter.RegisterValuationServiceServer(grpcServer, grpcadapter.NewServer(
		services.Valuation,
		services.Comparison,
		services.Report,
		services.Dashboard,
	))

	grpcAddr := net.JoinHostPort("", cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", grpcAddr, err)
	}

	go func() {
		log.Printf("gRPC server listening on %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// 4. HTTP server
	httpServer := api.NewServer(&api.ServerConfig{
		Port:           cfg.Server.HTTPPort,
		APIToken:       cfg.Server.APIToken,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		RequestsPerSec: cfg.RateLimit.RequestsPerSecond,
		Burst:          cfg.RateLimit.Burst,
	}, services.Valuation, services.Comparison, services.Report, services.Dashboard, logger)

	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer, httpServer, cfg.Server.ShutdownTimeout)
}

// openWithRetry gives the store a few attempts to come up, as it may start
// alongside the server
func openWithRetry(cfg *config.Config, logger *log.Logger) (*app.Services, error) {
	const attempts = 5

	var err error
	for i := 1; i <= attempts; i++ {
		var services *app.Services
		services, err = app.Open(cfg, logger)
		if err == nil {
			return services, nil
		}
		log.Printf("Store not ready (attempt %d/%d): %v", i, attempts, err)
		time.Sleep(time.Duration(i) * time.Second)
	}
	return nil, err
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(grpcServer *grpclib.Server, httpServer *api.Server, timeout time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		grpcServer.Stop()
	}
	log.Println("Servers stopped")
}
