// Package config defines the configuration structures for the claims intake
// service. No I/O lives in this file, only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`

	// RateLimitRPS caps intake requests per client address; 0 disables.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// GRPCConfig controls the gRPC health endpoint.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// PipelineConfig bounds a single intake run.
type PipelineConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	OCRConcurrency int           `mapstructure:"ocr_concurrency"`
}

// OCRConfig locates the OCR and page rendering binaries.
type OCRConfig struct {
	TesseractPath string `mapstructure:"tesseract_path"`
	PdftoppmPath  string `mapstructure:"pdftoppm_path"`
	Language      string `mapstructure:"language"`
	DPI           int    `mapstructure:"dpi"`
	MaxPages      int    `mapstructure:"max_pages"`
	WorkDir       string `mapstructure:"work_dir"`
}

// NERConfig selects the entity recognizer backend.
type NERConfig struct {
	Backend  string        `mapstructure:"backend"` // "rules" | "remote"
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// QueueConfig selects where the human review queue lives.
type QueueConfig struct {
	Backend string `mapstructure:"backend"` // "memory" | "redis"
	Key     string `mapstructure:"key"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Mode         string        `mapstructure:"mode"` // "standalone" | "sentinel" | "cluster"
	Addr         string        `mapstructure:"addr"`
	Addrs        []string      `mapstructure:"addrs"`
	MasterName   string        `mapstructure:"master_name"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig holds routing event producer parameters.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"`
}

// MetricsConfig controls the Prometheus registry.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	NER      NERConfig      `mapstructure:"ner"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("config: server.max_upload_bytes must be >= 1, got %d", c.Server.MaxUploadBytes)
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("config: server.rate_limit_rps and server.rate_limit_burst must not be negative")
	}
	if c.GRPC.Enabled && (c.GRPC.Port < 1 || c.GRPC.Port > 65535) {
		return fmt.Errorf("config: grpc.port %d is out of range [1, 65535]", c.GRPC.Port)
	}
	if c.GRPC.Enabled && c.GRPC.Port == c.Server.Port {
		return fmt.Errorf("config: grpc.port must differ from server.port")
	}

	if c.Pipeline.Timeout <= 0 {
		return fmt.Errorf("config: pipeline.timeout must be positive")
	}
	// The error response for a timed-out claim must still fit in the write deadline.
	if c.Server.WriteTimeout > 0 && c.Pipeline.Timeout >= c.Server.WriteTimeout {
		return fmt.Errorf("config: pipeline.timeout %s must be shorter than server.write_timeout %s",
			c.Pipeline.Timeout, c.Server.WriteTimeout)
	}
	if c.Pipeline.OCRConcurrency < 1 {
		return fmt.Errorf("config: pipeline.ocr_concurrency must be >= 1, got %d", c.Pipeline.OCRConcurrency)
	}

	if c.OCR.DPI < 72 || c.OCR.DPI > 1200 {
		return fmt.Errorf("config: ocr.dpi %d is out of range [72, 1200]", c.OCR.DPI)
	}
	if c.OCR.MaxPages < 0 {
		return fmt.Errorf("config: ocr.max_pages must be >= 0, got %d", c.OCR.MaxPages)
	}

	switch c.NER.Backend {
	case NERBackendRules:
	case NERBackendRemote:
		if c.NER.Endpoint == "" {
			return fmt.Errorf("config: ner.endpoint is required when ner.backend is %q", NERBackendRemote)
		}
	default:
		return fmt.Errorf("config: ner.backend %q is invalid; expected rules|remote", c.NER.Backend)
	}

	switch c.Queue.Backend {
	case QueueBackendMemory:
	case QueueBackendRedis:
		if c.Redis.Addr == "" && len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("config: redis.addr or redis.addrs is required when queue.backend is %q", QueueBackendRedis)
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
	default:
		return fmt.Errorf("config: queue.backend %q is invalid; expected memory|redis", c.Queue.Backend)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
