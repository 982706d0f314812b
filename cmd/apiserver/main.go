// API server entry point for the claims intake service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/claims-intake/internal/app"
	"github.com/turtacn/claims-intake/internal/config"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	grpcserver "github.com/turtacn/claims-intake/internal/interfaces/grpc"
	httpserver "github.com/turtacn/claims-intake/internal/interfaces/http"
	"github.com/turtacn/claims-intake/internal/interfaces/http/handlers"
	"github.com/turtacn/claims-intake/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: CLAIMS_* environment)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	grpcPort := flag.Int("grpc-port", 0, "gRPC health port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}
	if *grpcPort > 0 {
		cfg.GRPC.Port = *grpcPort
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	logger.Info("starting claims intake API server",
		logging.String("version", version),
		logging.Int("http_port", cfg.Server.Port),
		logging.Bool("grpc_enabled", cfg.GRPC.Enabled))

	built, err := app.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer built.Close()

	routerCfg := httpserver.RouterConfig{
		ClaimHandler:  handlers.NewClaimHandler(built.Pipeline, cfg.Server.MaxUploadBytes, cfg.Pipeline.Timeout, logger),
		HealthHandler: handlers.NewHealthHandler(version, httpCheckers(built.Checkers)...),
		Logger:        logger,
		Logging:       middleware.DefaultLoggingConfig(),
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.Server.RateLimitRPS,
			Burst: cfg.Server.RateLimitBurst,
		},
	}
	if built.Metrics != nil {
		routerCfg.Recorder = built.Metrics
		routerCfg.MetricsHandler = built.MetricsHandler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	httpSrv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, httpserver.NewRouter(routerCfg), logger)

	var grpcSrv *grpcserver.Server
	if cfg.GRPC.Enabled {
		grpcSrv, err = grpcserver.NewServer(
			net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.GRPC.Port)),
			grpcserver.WithLogger(logger),
			grpcserver.WithCheckers(grpcCheckers(built.Checkers)...),
			grpcserver.WithGracefulTimeout(cfg.Server.ShutdownTimeout),
		)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Start)
	if grpcSrv != nil {
		g.Go(grpcSrv.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		shutdownCtx := context.Background()
		err := httpSrv.Shutdown(shutdownCtx)
		if grpcSrv != nil {
			if gerr := grpcSrv.Stop(shutdownCtx); gerr != nil && err == nil {
				err = gerr
			}
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("servers stopped")
	return nil
}

//Personal.AI order the ending
