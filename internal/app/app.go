// Package app assembles the intake pipeline and its infrastructure from
// configuration. Both the API server and the CLI build through it.
package app

import (
	"context"
	"net/http"
	"os/exec"

	"github.com/turtacn/claims-intake/internal/application/intake"
	"github.com/turtacn/claims-intake/internal/config"
	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/internal/infrastructure/database/redis"
	"github.com/turtacn/claims-intake/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/claims-intake/internal/intelligence/ner"
	"github.com/turtacn/claims-intake/internal/intelligence/ocr"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// Checker is a named readiness probe.
type Checker struct {
	ComponentName string
	Fn            func(ctx context.Context) error
}

func (c Checker) Name() string                    { return c.ComponentName }
func (c Checker) Check(ctx context.Context) error { return c.Fn(ctx) }

// App holds the assembled pipeline and everything that must be closed.
type App struct {
	Pipeline *intake.Pipeline
	Metrics  *prometheus.ClaimMetrics // nil when metrics are disabled
	Checkers []Checker

	metricsHandler http.Handler
	closers        []func() error
	logger         logging.Logger
}

// Option tweaks assembly.
type Option func(*buildOptions)

type buildOptions struct {
	recognizer claim.EntityRecognizer
	engine     ocr.Engine
	rasterizer ocr.Rasterizer
	queue      claim.ReviewQueue
	publisher  claim.EventPublisher
}

// WithRecognizer replaces the configured NER backend.
func WithRecognizer(r claim.EntityRecognizer) Option {
	return func(o *buildOptions) { o.recognizer = r }
}

// WithOCR replaces the tesseract engine and poppler rasterizer.
func WithOCR(e ocr.Engine, r ocr.Rasterizer) Option {
	return func(o *buildOptions) { o.engine, o.rasterizer = e, r }
}

// WithQueue replaces the configured review queue backend.
func WithQueue(q claim.ReviewQueue) Option {
	return func(o *buildOptions) { o.queue = q }
}

// WithPublisher replaces the configured event publisher.
func WithPublisher(p claim.EventPublisher) Option {
	return func(o *buildOptions) { o.publisher = p }
}

// Build wires the pipeline described by cfg. On error, anything already
// opened is closed.
func Build(cfg *config.Config, logger logging.Logger, opts ...Option) (_ *App, err error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	o := &buildOptions{}
	for _, fn := range opts {
		fn(o)
	}

	a := &App{logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// ── OCR ──────────────────────────────────────────────────────────────────
	engine, rasterizer := o.engine, o.rasterizer
	if engine == nil || rasterizer == nil {
		runner := ocr.NewExecRunner(logger)
		engine = ocr.NewTesseractEngine(ocr.TesseractConfig{
			Binary:   cfg.OCR.TesseractPath,
			Language: cfg.OCR.Language,
			WorkDir:  cfg.OCR.WorkDir,
		}, runner, logger)
		rasterizer = ocr.NewPopplerRasterizer(ocr.PopplerConfig{
			Binary:   cfg.OCR.PdftoppmPath,
			DPI:      cfg.OCR.DPI,
			MaxPages: cfg.OCR.MaxPages,
			WorkDir:  cfg.OCR.WorkDir,
		}, runner, logger)
		a.Checkers = append(a.Checkers,
			binaryChecker("tesseract", cfg.OCR.TesseractPath),
			binaryChecker("pdftoppm", cfg.OCR.PdftoppmPath))
	}

	// ── NER ──────────────────────────────────────────────────────────────────
	recognizer := o.recognizer
	if recognizer == nil {
		switch cfg.NER.Backend {
		case config.NERBackendRemote:
			recognizer = ner.NewRemoteRecognizer(cfg.NER.Endpoint, cfg.NER.Timeout, logger)
		default:
			recognizer = ner.NewRuleRecognizer()
		}
	}

	// ── Review queue ─────────────────────────────────────────────────────────
	queue := o.queue
	if queue == nil {
		queue, err = a.buildQueue(cfg)
		if err != nil {
			return nil, err
		}
	}

	// ── Events ───────────────────────────────────────────────────────────────
	publisher := o.publisher
	if publisher == nil {
		publisher, err = a.buildPublisher(cfg)
		if err != nil {
			return nil, err
		}
	}

	// ── Metrics ──────────────────────────────────────────────────────────────
	pipelineOpts := []intake.Option{intake.WithLogger(logger), intake.WithPublisher(publisher)}
	if cfg.Metrics.Enabled {
		collector, cerr := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if cerr != nil {
			return nil, errors.Wrap(cerr, errors.CodeInternal, "failed to build metrics collector")
		}
		a.Metrics = prometheus.NewClaimMetrics(collector)
		a.metricsHandler = collector.Handler()
		pipelineOpts = append(pipelineOpts, intake.WithMetrics(a.Metrics))
	}

	extractor := intake.NewTextExtractor(
		intake.DefaultStrategies(engine, rasterizer, cfg.Pipeline.OCRConcurrency, logger), logger)
	a.Pipeline = intake.NewPipeline(
		extractor,
		intake.NewFieldExtractor(recognizer),
		claim.NewClassifier(logger),
		claim.NewRouter(queue, logger),
		pipelineOpts...,
	)

	logger.Info("intake pipeline assembled",
		logging.String("ner_backend", cfg.NER.Backend),
		logging.String("queue_backend", cfg.Queue.Backend),
		logging.Bool("events", cfg.Kafka.Enabled),
		logging.Bool("metrics", cfg.Metrics.Enabled))
	return a, nil
}

func (a *App) buildQueue(cfg *config.Config) (claim.ReviewQueue, error) {
	if cfg.Queue.Backend != config.QueueBackendRedis {
		return claim.NewMemoryQueue(), nil
	}
	client, err := redis.NewClient(&redis.Config{
		Mode:         cfg.Redis.Mode,
		Addr:         cfg.Redis.Addr,
		Addrs:        cfg.Redis.Addrs,
		MasterName:   cfg.Redis.MasterName,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	a.Checkers = append(a.Checkers, Checker{ComponentName: "redis", Fn: client.Ping})
	return redis.NewReviewQueue(client, cfg.Queue.Key, a.logger), nil
}

func (a *App) buildPublisher(cfg *config.Config) (claim.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return claim.NopPublisher{}, nil
	}
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		RequiredAcks: cfg.Kafka.RequiredAcks,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, producer.Close)
	return kafka.NewClaimEventPublisher(producer, a.logger), nil
}

// MetricsHandler serves the Prometheus registry; nil when disabled.
func (a *App) MetricsHandler() http.Handler { return a.metricsHandler }

// Close releases infrastructure in reverse order of creation.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close component", logging.Err(err))
			if first == nil {
				first = err
			}
		}
	}
	a.closers = nil
	return first
}

func binaryChecker(name, path string) Checker {
	if path == "" {
		path = name
	}
	return Checker{ComponentName: name, Fn: func(context.Context) error {
		if _, err := exec.LookPath(path); err != nil {
			return errors.Wrap(err, errors.ErrCodeOCRUnavailable, name+" not found").WithDetail(path)
		}
		return nil
	}}
}

//Personal.AI order the ending
