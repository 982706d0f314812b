package config

import (
	"time"

	"github.com/spf13/viper"
)

// Backend selectors.
const (
	NERBackendRules  = "rules"
	NERBackendRemote = "remote"

	QueueBackendMemory = "memory"
	QueueBackendRedis  = "redis"
)

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultMaxUploadBytes  = 32 << 20
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultGRPCPort = 9090

	DefaultPipelineTimeout = 90 * time.Second
	DefaultOCRConcurrency  = 4

	DefaultTesseractPath = "tesseract"
	DefaultPdftoppmPath  = "pdftoppm"
	DefaultOCRLanguage   = "eng"
	DefaultOCRDPI        = 300

	DefaultNERTimeout = 10 * time.Second

	DefaultQueueKey = "claims:review_queue"

	DefaultRedisMode = "standalone"
	DefaultRedisAddr = "localhost:6379"

	DefaultKafkaBroker = "localhost:9092"

	DefaultMetricsNamespace = "claims"
	DefaultMetricsPath      = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Explicitly set fields are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.GRPC.Port == 0 {
		cfg.GRPC.Port = DefaultGRPCPort
	}

	// ── Pipeline / OCR / NER ──────────────────────────────────────────────────
	if cfg.Pipeline.Timeout == 0 {
		cfg.Pipeline.Timeout = DefaultPipelineTimeout
	}
	if cfg.Pipeline.OCRConcurrency == 0 {
		cfg.Pipeline.OCRConcurrency = DefaultOCRConcurrency
	}
	if cfg.OCR.TesseractPath == "" {
		cfg.OCR.TesseractPath = DefaultTesseractPath
	}
	if cfg.OCR.PdftoppmPath == "" {
		cfg.OCR.PdftoppmPath = DefaultPdftoppmPath
	}
	if cfg.OCR.Language == "" {
		cfg.OCR.Language = DefaultOCRLanguage
	}
	if cfg.OCR.DPI == 0 {
		cfg.OCR.DPI = DefaultOCRDPI
	}
	if cfg.NER.Backend == "" {
		cfg.NER.Backend = NERBackendRules
	}
	if cfg.NER.Timeout == 0 {
		cfg.NER.Timeout = DefaultNERTimeout
	}

	// ── Queue / Redis ─────────────────────────────────────────────────────────
	if cfg.Queue.Backend == "" {
		cfg.Queue.Backend = QueueBackendMemory
	}
	if cfg.Queue.Key == "" {
		cfg.Queue.Key = DefaultQueueKey
	}
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = DefaultRedisMode
	}
	if cfg.Redis.Addr == "" && len(cfg.Redis.Addrs) == 0 {
		cfg.Redis.Addr = DefaultRedisAddr
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}

	// ── Metrics / Log ─────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// registerKeys declares every key on v so that AutomaticEnv can resolve
// CLAIMS_* variables during Unmarshal even when no file mentions the key.
// Values left zero here are filled by ApplyDefaults afterwards.
func registerKeys(v *viper.Viper) {
	defaults := map[string]interface{}{
		"server.host":              "",
		"server.port":              0,
		"server.read_timeout":      time.Duration(0),
		"server.write_timeout":     time.Duration(0),
		"server.shutdown_timeout":  time.Duration(0),
		"server.max_upload_bytes":  int64(0),
		"server.rate_limit_rps":    float64(0),
		"server.rate_limit_burst":  0,
		"grpc.enabled":             false,
		"grpc.port":                0,
		"pipeline.timeout":         time.Duration(0),
		"pipeline.ocr_concurrency": 0,
		"ocr.tesseract_path":       "",
		"ocr.pdftoppm_path":        "",
		"ocr.language":             "",
		"ocr.dpi":                  0,
		"ocr.max_pages":            0,
		"ocr.work_dir":             "",
		"ner.backend":              "",
		"ner.endpoint":             "",
		"ner.timeout":              time.Duration(0),
		"queue.backend":            "",
		"queue.key":                "",
		"redis.mode":               "",
		"redis.addr":               "",
		"redis.addrs":              []string{},
		"redis.master_name":        "",
		"redis.password":           "",
		"redis.db":                 0,
		"redis.pool_size":          0,
		"redis.dial_timeout":       time.Duration(0),
		"redis.read_timeout":       time.Duration(0),
		"redis.write_timeout":      time.Duration(0),
		"kafka.enabled":            false,
		"kafka.brokers":            []string{},
		"kafka.batch_timeout":      time.Duration(0),
		"kafka.write_timeout":      time.Duration(0),
		"kafka.required_acks":      0,
		"metrics.enabled":          true,
		"metrics.namespace":        "",
		"metrics.path":             "",
		"log.level":                "",
		"log.format":               "",
		"log.output_paths":         []string{},
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

//Personal.AI order the ending
