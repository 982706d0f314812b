package main

import (
	"context"
	"image"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/claims-intake/internal/app"
	"github.com/turtacn/claims-intake/internal/config"
	httpserver "github.com/turtacn/claims-intake/internal/interfaces/http"
	"github.com/turtacn/claims-intake/internal/interfaces/http/handlers"
	"github.com/turtacn/claims-intake/pkg/client"
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

type noOCR struct{}

func (noOCR) Recognize(context.Context, image.Image) (string, error) { return "", nil }
func (noOCR) Rasterize(context.Context, []byte) ([]image.Image, error) { return nil, nil }

// newStack serves the fully assembled API in-process.
func newStack(t *testing.T) *client.Client {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Metrics.Enabled = true
	cfg.Server.MaxUploadBytes = 4 << 10

	built, err := app.Build(cfg, nil, app.WithOCR(noOCR{}, noOCR{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = built.Close() })

	router := httpserver.NewRouter(httpserver.RouterConfig{
		ClaimHandler:   handlers.NewClaimHandler(built.Pipeline, cfg.Server.MaxUploadBytes, cfg.Pipeline.Timeout, nil),
		HealthHandler:  handlers.NewHealthHandler(version, httpCheckers(built.Checkers)...),
		Recorder:       built.Metrics,
		MetricsHandler: built.MetricsHandler(),
		MetricsPath:    cfg.Metrics.Path,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c, err := client.NewClient(srv.URL, client.WithTimeout(10*time.Second))
	require.NoError(t, err)
	return c
}

func TestEndToEnd_QueueOrdering(t *testing.T) {
	c := newStack(t)
	ctx := context.Background()

	docs := []struct {
		name, contentType, body string
		wantType                claimtypes.ClaimType
		wantPriority            int
	}{
		{"simple.txt", "text/plain", "Claimant: Jane Roe\nDate: 2023-01-01\nAmount: $500\n", claimtypes.TypeSimple, 0},
		{"big.txt", "text/plain", "Claimant: John Doe\nDate: 2023-01-01\nAmount: $12,000\n", claimtypes.TypeComplex, 62},
		{"partial.json", "application/json", `{"note":"Claimant: Ann Lee","amount":"$30,000"}`, claimtypes.TypeComplex, 0},
	}

	for _, d := range docs {
		res, err := c.ProcessClaim(ctx, d.name, d.contentType, strings.NewReader(d.body))
		require.NoError(t, err, d.name)
		assert.Equal(t, d.wantType, res.ClaimType, d.name)
		if d.wantPriority > 0 {
			assert.Equal(t, d.wantPriority, res.PriorityScore, d.name)
		}
	}

	q, err := c.ReviewQueue(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, q.Total)
	assert.GreaterOrEqual(t, q.Entries[0].PriorityScore, q.Entries[1].PriorityScore)
}

func TestEndToEnd_ClientErrors(t *testing.T) {
	c := newStack(t)
	ctx := context.Background()

	tests := []struct {
		name, filename, contentType, body, message string
	}{
		{"unsupported", "a.zip", "application/zip", "PK", "Unsupported file type: application/zip (.zip)"},
		{"malformed json", "a.json", "application/json", "{not json", "Error processing document: Invalid JSON file."},
		{"blank text", "a.txt", "text/plain", "   \n ", "No text could be extracted from the document."},
		{"too large", "a.txt", "text/plain", strings.Repeat("a", 5<<10), "Uploaded file is too large."},
	}
	for _, tc := range tests {
		_, err := c.ProcessClaim(ctx, tc.filename, tc.contentType, strings.NewReader(tc.body))
		apiErr, ok := client.AsAPIError(err)
		require.True(t, ok, tc.name)
		assert.Equal(t, 400, apiErr.StatusCode, tc.name)
		assert.Equal(t, tc.message, apiErr.Message, tc.name)
	}
}

//Personal.AI order the ending
