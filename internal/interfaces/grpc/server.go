// Package grpc exposes the standard gRPC health service so orchestrators that
// probe over gRPC see the same readiness as /readyz.
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// ServiceName is the health service key reported for the intake pipeline.
const ServiceName = "claims.intake.v1.Intake"

const (
	defaultGracefulTimeout = 10 * time.Second
	defaultProbeInterval   = 15 * time.Second
)

var defaultKeepaliveParams = keepalive.ServerParameters{
	MaxConnectionIdle: 15 * time.Minute,
	Time:              5 * time.Minute,
	Timeout:           1 * time.Second,
}

// Checker is a dependency whose failure makes the pipeline NOT_SERVING.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Option configures the gRPC Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger          logging.Logger
	checkers        []Checker
	probeInterval   time.Duration
	gracefulTimeout time.Duration
}

func WithLogger(l logging.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCheckers sets the dependencies probed for the serving status.
func WithCheckers(c ...Checker) Option {
	return func(o *serverOptions) { o.checkers = append(o.checkers, c...) }
}

func WithProbeInterval(d time.Duration) Option {
	return func(o *serverOptions) {
		if d > 0 {
			o.probeInterval = d
		}
	}
}

func WithGracefulTimeout(d time.Duration) Option {
	return func(o *serverOptions) {
		if d > 0 {
			o.gracefulTimeout = d
		}
	}
}

// Server wraps a grpc.Server carrying only the health service.
type Server struct {
	grpcServer   *grpc.Server
	listener     net.Listener
	opts         *serverOptions
	healthServer *health.Server

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	probeWG sync.WaitGroup
}

// NewServer binds addr and registers the health service.
func NewServer(addr string, opts ...Option) (*Server, error) {
	sopts := &serverOptions{
		logger:          logging.NewNopLogger(),
		probeInterval:   defaultProbeInterval,
		gracefulTimeout: defaultGracefulTimeout,
	}
	for _, o := range opts {
		o(sopts)
	}
	sopts.logger = sopts.logger.Named("grpc")

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to listen").WithDetail(addr)
	}

	gs := grpc.NewServer(
		grpc.KeepaliveParams(defaultKeepaliveParams),
		grpc.ChainUnaryInterceptor(
			recoveryUnaryInterceptor(sopts.logger),
			loggingUnaryInterceptor(sopts.logger),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		grpcServer:   gs,
		listener:     lis,
		opts:         sopts,
		healthServer: hs,
		stopCh:       make(chan struct{}),
	}, nil
}

// Start runs an initial probe, starts the probe loop and serves. It blocks
// until the server is stopped. Start after Stop returns nil without serving.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	if s.started {
		s.mu.Unlock()
		return errors.New(errors.CodeInternal, "grpc server already started")
	}
	s.started = true
	s.mu.Unlock()

	s.Probe(context.Background())
	s.probeWG.Add(1)
	go s.probeLoop()

	s.opts.logger.Info("grpc server starting", logging.String("address", s.Addr()))
	if err := s.grpcServer.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
		if s.isStopped() {
			return nil
		}
		return errors.Wrap(err, errors.CodeInternal, "grpc server failed")
	}
	return nil
}

func (s *Server) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Probe runs every checker once and updates the pipeline serving status.
func (s *Server) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	for _, c := range s.opts.checkers {
		if err := c.Check(ctx); err != nil {
			s.opts.logger.Warn("dependency unhealthy", logging.String("component", c.Name()), logging.Err(err))
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.healthServer.SetServingStatus(ServiceName, st)
	return st
}

func (s *Server) probeLoop() {
	defer s.probeWG.Done()
	ticker := time.NewTicker(s.opts.probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.opts.probeInterval)
			s.Probe(ctx)
			cancel()
		}
	}
}

// Stop drains connections gracefully, forcing a stop once ctx or the
// graceful timeout expires.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	if !s.started {
		s.mu.Unlock()
		_ = s.listener.Close()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	s.opts.logger.Info("grpc server stopping")
	close(s.stopCh)
	s.probeWG.Wait()
	s.healthServer.Shutdown()

	gracefulCtx, cancel := context.WithTimeout(ctx, s.opts.gracefulTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.opts.logger.Info("grpc server stopped gracefully")
	case <-gracefulCtx.Done():
		s.opts.logger.Warn("grpc graceful stop timed out, forcing stop")
		s.grpcServer.Stop()
	}
	return nil
}

// Addr returns the bound address; useful with port 0.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// ---------------------------------------------------------------------------
// Interceptors
// ---------------------------------------------------------------------------

func recoveryUnaryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc panic recovered",
					logging.String("method", info.FullMethod),
					logging.String("panic", fmt.Sprintf("%v", r)),
					logging.String("stack", string(debug.Stack())),
				)
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

func isHealthCheck(method string) bool {
	return strings.HasPrefix(method, "/grpc.health.v1.Health/")
}

func loggingUnaryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []logging.Field{
			logging.String("method", info.FullMethod),
			logging.Duration("duration", time.Since(start)),
			logging.String("code", status.Code(err).String()),
		}
		if isHealthCheck(info.FullMethod) {
			logger.Debug("grpc request", fields...)
		} else {
			logger.Info("grpc request", fields...)
		}
		return resp, err
	}
}

//Personal.AI order the ending
