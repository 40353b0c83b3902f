// Package grpc serves the standard gRPC health service. Its status follows
// a periodic probe of the server's dependencies; the admin client uses it
// to decide whether it is online.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = common.HealthServiceName

// Probe is one dependency check, e.g. a database ping.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type GRPCServer struct {
	address  string
	interval time.Duration
	probes   []Probe
	health   *health.Server
	logger   logging.Logger
}

func NewGRPCServer(a string, interval time.Duration, l logging.Logger, probes ...Probe) *GRPCServer {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &GRPCServer{
		address:  a,
		interval: interval,
		probes:   probes,
		health:   hs,
		logger:   l.With("module", "grpc_server"),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	return srv.Serve(lis)
}

// watch runs the probes immediately and then on every tick.
func (s *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	serving := s.probe(ctx, false)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			serving = s.probe(ctx, serving)
		}
	}
}

// probe runs every check and updates the health status. Transitions are
// logged; steady state is not.
func (s *GRPCServer) probe(ctx context.Context, wasServing bool) bool {
	var failed string
	var failure error
	for _, p := range s.probes {
		if err := p.Check(ctx); err != nil {
			failed, failure = p.Name, err
			break
		}
	}

	if ctx.Err() != nil {
		return wasServing
	}

	status := healthpb.HealthCheckResponse_SERVING
	if failure != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)

	serving := failure == nil
	switch {
	case serving && !wasServing:
		s.logger.Info(ctx, "dependencies healthy")
	case !serving:
		s.logger.Warn(ctx, "dependency check failed", "probe", failed, "error", failure)
	}
	return serving
}
