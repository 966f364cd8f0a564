package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "github.com/vorrawut/poon-sub000/internal/adapter/grpc"
	"github.com/vorrawut/poon-sub000/internal/adapter/mockapi"
	"github.com/vorrawut/poon-sub000/internal/config"
	"github.com/vorrawut/poon-sub000/internal/logger"
)

// shutdownTimeout bounds the graceful HTTP shutdown
const shutdownTimeout = 15 * time.Second

func newServeCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mock banking API and the dashboard gRPC service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, logger.New(cfg.Log.Level))
		},
	}
	return cmd
}

// runServe starts both listeners and blocks until SIGINT/SIGTERM or ctx is done.
// Once the mock API is listening it is shut down on every return path.
func runServe(ctx context.Context, cfg *config.Config, log zerolog.Logger) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}

	// 1. Mock banking API (listening before the stores load, so a base URL may point at it)
	if cfg.MockAPI.Enabled {
		httpServer := &http.Server{
			Addr:         cfg.Server.HTTPAddr,
			Handler:      mockapi.NewServer(a.backend, cfg.MockAPI.Latency, log),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		httpLis, listenErr := net.Listen("tcp", cfg.Server.HTTPAddr)
		if listenErr != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Server.HTTPAddr, listenErr)
		}
		go func() {
			log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("Starting mock API server")
			if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Mock API server failed")
				stop()
			}
		}()
		defer func() {
			if shutdownErr := shutdownHTTP(httpServer, log); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
		}()
	}

	// 2. Stores
	if err := a.initialize(ctx); err != nil {
		return err
	}

	// 3. gRPC service
	grpcServer, healthServer := grpcadapter.NewGRPCServer(
		grpcadapter.NewServer(a.workspace, log),
		cfg.Server.APIToken,
		log,
	)
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddr, err)
	}
	go func() {
		log.Info().Str("addr", cfg.Server.GRPCAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("Failed to serve gRPC server")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down gracefully...")

	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")

	return nil
}

// shutdownHTTP drains in-flight mock API requests within shutdownTimeout
func shutdownHTTP(server *http.Server, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("mock API server forced to shutdown: %w", err)
	}
	log.Info().Msg("Mock API server stopped")
	return nil
}
