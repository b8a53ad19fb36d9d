package grpc_server

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"kbcportal/internal/infrastructure/logger"
)

// ServiceName is the health service name probes ask for. The empty name
// reports the same status.
const ServiceName = "kbcportal"

const DefaultCheckInterval = 15 * time.Second

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// HealthServer exposes the gRPC health protocol for load balancers and
// orchestrators. Status follows check, polled every interval.
type HealthServer struct {
	srv      *grpc.Server
	health   *health.Server
	check    Checker
	interval time.Duration
	log      *logger.Logger
}

func NewHealthServer(check Checker, interval time.Duration, log *logger.Logger) *HealthServer {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	s := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	return &HealthServer{srv: s, health: h, check: check, interval: interval, log: log}
}

// Serve blocks until lis fails or Stop is called. The dependency check
// runs until ctx is done.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	s.probe(ctx)
	go s.watch(ctx)
	return s.srv.Serve(lis)
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *HealthServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.check != nil {
		cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := s.check(cctx)
		cancel()
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			s.log.Warn("health check failed", "error", err)
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Stop marks every service NOT_SERVING and drains open RPCs.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
