package intake

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/claims-intake/internal/domain/claim"
)

// stubEngine returns the red channel of pixel (0,0) as "page-<r>" so tests
// can tell pages apart.
type stubEngine struct {
	err      error
	delay    func(r uint8) time.Duration
	inFlight int32
	maxSeen  int32
}

func (s *stubEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		m := atomic.LoadInt32(&s.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&s.maxSeen, m, n) {
			break
		}
	}
	if s.err != nil {
		return "", s.err
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	if s.delay != nil {
		select {
		case <-time.After(s.delay(uint8(r >> 8))):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return fmt.Sprintf("page-%d", r>>8), nil
}

type stubRasterizer struct {
	pages []image.Image
	err   error
}

func (s stubRasterizer) Rasterize(context.Context, []byte) ([]image.Image, error) {
	return s.pages, s.err
}

func tagged(r uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: r, A: 255})
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// scriptedRecognizer returns fixed entities and counts calls.
type scriptedRecognizer struct {
	entities []claim.Entity
	err      error
	calls    int32
}

func (s *scriptedRecognizer) Recognize(context.Context, string) ([]claim.Entity, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.entities, s.err
}

type panickingRecognizer struct{}

func (panickingRecognizer) Recognize(context.Context, string) ([]claim.Entity, error) {
	panic("model crashed")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*claim.ClaimRoutedEvent
	err    error
}

func (p *recordingPublisher) PublishClaimRouted(_ context.Context, ev *claim.ClaimRoutedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type recordingMetrics struct {
	mu         sync.Mutex
	stages     map[string]int
	processed  []string
	failed     []string
	priorities []int
	depth      int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{stages: map[string]int{}}
}

func (m *recordingMetrics) ObserveStage(stage string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[stage]++
}

func (m *recordingMetrics) ClaimProcessed(claimType, format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed = append(m.processed, claimType+"/"+format)
}

func (m *recordingMetrics) ClaimFailed(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, code)
}

func (m *recordingMetrics) ObservePriority(score int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priorities = append(m.priorities, score)
}

func (m *recordingMetrics) SetQueueDepth(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth = n
}

var errBackend = stderrors.New("backend down")

//Personal.AI order the ending
