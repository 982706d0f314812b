package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8081
  max_upload_bytes: 1048576
pipeline:
  timeout: 45s
  ocr_concurrency: 2
ocr:
  language: deu
  dpi: 200
ner:
  backend: remote
  endpoint: http://ner:8000/entities
queue:
  backend: redis
  key: test:queue
redis:
  addr: redis:6379
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
log:
  level: debug
  format: console
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, int64(1048576), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.Timeout)
	assert.Equal(t, 2, cfg.Pipeline.OCRConcurrency)
	assert.Equal(t, "deu", cfg.OCR.Language)
	assert.Equal(t, 200, cfg.OCR.DPI)
	assert.Equal(t, NERBackendRemote, cfg.NER.Backend)
	assert.Equal(t, QueueBackendRedis, cfg.Queue.Backend)
	assert.Equal(t, "test:queue", cfg.Queue.Key)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "console", cfg.Log.Format)
	// untouched sections fall back to defaults
	assert.Equal(t, DefaultTesseractPath, cfg.OCR.TesseractPath)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server: ["))
	assert.Error(t, err)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "queue:\n  backend: sqlite\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue.backend")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("CLAIMS_SERVER_PORT", "9999")
	t.Setenv("CLAIMS_QUEUE_KEY", "env:queue")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "env:queue", cfg.Queue.Key)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CLAIMS_PIPELINE_TIMEOUT", "30s")
	t.Setenv("CLAIMS_OCR_DPI", "150")
	t.Setenv("CLAIMS_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.Timeout)
	assert.Equal(t, 150, cfg.OCR.DPI)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, QueueBackendMemory, cfg.Queue.Backend)
}

func TestLoad_EmptyPathUsesEnv(t *testing.T) {
	t.Setenv("CLAIMS_SERVER_PORT", "8181")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yaml")) })
}

//Personal.AI order the ending
