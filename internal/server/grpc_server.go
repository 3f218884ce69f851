package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/mysticmatch/internal/config"
	"github.com/oggyb/mysticmatch/internal/logger"
)

// StartGRPCServer boots the admin gRPC server, registers all provided
// services and serves until ctx is done, then stops gracefully.
func StartGRPCServer(ctx context.Context, cfg *config.Config, registrars ...Registrar) error {
	addr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ServeGRPC(ctx, lis, registrars...)
}

// ServeGRPC serves on an existing listener. Split out so tests can use a
// bufconn or an ephemeral port.
func ServeGRPC(ctx context.Context, lis net.Listener, registrars ...Registrar) error {
	grpcServer := grpc.NewServer()

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	go func() {
		<-ctx.Done()
		healthSrv.Shutdown()
		grpcServer.GracefulStop()
	}()

	logger.Info("gRPC server listening", "addr", lis.Addr().String())
	if err := grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}
