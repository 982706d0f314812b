package intake

import (
	"context"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/internal/intelligence/ner"
	"github.com/turtacn/claims-intake/pkg/errors"
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

type pipelineFixture struct {
	pipeline  *Pipeline
	queue     *claim.MemoryQueue
	publisher *recordingPublisher
	metrics   *recordingMetrics
	logs      *observer.ObservedLogs
}

func newFixture(t *testing.T, recognizer claim.EntityRecognizer) *pipelineFixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewLoggerFromCore(core)

	queue := claim.NewMemoryQueue()
	pub := &recordingPublisher{}
	m := newRecordingMetrics()
	seq := 0
	var mu sync.Mutex

	p := NewPipeline(
		newTestExtractor(),
		NewFieldExtractor(recognizer),
		claim.NewClassifier(logger),
		claim.NewRouter(queue, logger),
		WithPublisher(pub),
		WithMetrics(m),
		WithLogger(logger),
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("claim-%d", seq)
		}),
	)
	return &pipelineFixture{pipeline: p, queue: queue, publisher: pub, metrics: m, logs: logs}
}

func textDoc(s string) Document {
	return Document{Content: []byte(s), ContentType: "text/plain", Filename: "claim.txt"}
}

func moneyClaim(amount string) []claim.Entity {
	return []claim.Entity{
		{Text: "Jane Doe", Label: claim.LabelPerson},
		{Text: "2023-01-01", Label: claim.LabelDate},
		{Text: amount, Label: claim.LabelMoney},
	}
}

func TestPipeline_ComplexClaimIsQueued(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, ner.NewRuleRecognizer())
	ctx := context.Background()

	res, err := fx.pipeline.Process(ctx, textDoc("Claimant: John Doe\nDate: 2023-01-01\nAmount: $12,000\n"))
	require.NoError(t, err)

	assert.Equal(t, claimtypes.TypeComplex, res.ClaimType)
	assert.Equal(t, 62, res.PriorityScore)
	assert.Equal(t, "queued for human review (priority 62)", res.RoutingStatus)
	assert.False(t, res.AutoProcessed)
	assert.Empty(t, res.Message)
	assert.Equal(t, "John Doe", claimtypes.Value(res.ExtractedData.ClaimantName))
	assert.Equal(t, "2023-01-01", claimtypes.Value(res.ExtractedData.ClaimDate))
	assert.Equal(t, "$12,000", claimtypes.Value(res.ExtractedData.ClaimAmount))

	entries, err := fx.pipeline.ReviewQueue(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "claim-1", entries[0].ClaimID)
	assert.Equal(t, 62, entries[0].PriorityScore)
	assert.Equal(t, res.ExtractedData, entries[0].ClaimData)

	assert.Equal(t, []int{62}, fx.metrics.priorities)
	assert.Equal(t, 1, fx.metrics.depth)
}

func TestPipeline_SimpleClaimIsAutoProcessed(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, ner.NewRuleRecognizer())
	ctx := context.Background()

	res, err := fx.pipeline.Process(ctx, textDoc("Claimant: Jane Doe\nDate: 2023-01-01\nAmount: $500\n"))
	require.NoError(t, err)

	assert.Equal(t, claimtypes.TypeSimple, res.ClaimType)
	assert.Zero(t, res.PriorityScore)
	assert.Equal(t, "auto-processed", res.RoutingStatus)
	assert.True(t, res.AutoProcessed)
	assert.Equal(t, "Claim processed automatically.", res.Message)

	n, err := fx.queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"simple/text"}, fx.metrics.processed)
}

func TestPipeline_NoFieldsFound(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, ner.NewRuleRecognizer())

	res, err := fx.pipeline.Process(context.Background(), textDoc("the quick brown fox"))
	require.NoError(t, err)

	assert.Equal(t, claimtypes.TypeComplex, res.ClaimType)
	assert.Equal(t, 80, res.PriorityScore)
	assert.Nil(t, res.ExtractedData.ClaimantName)
	assert.Nil(t, res.ExtractedData.ClaimDate)
	assert.Nil(t, res.ExtractedData.ClaimAmount)
}

func TestPipeline_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount   string
		typ      claimtypes.ClaimType
		priority int
	}{
		{"$10,000", claimtypes.TypeSimple, 0},
		{"$10,000.01", claimtypes.TypeComplex, 60},
		{"$999.99", claimtypes.TypeSimple, 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.amount, func(t *testing.T) {
			t.Parallel()
			fx := newFixture(t, &scriptedRecognizer{entities: moneyClaim(tc.amount)})
			res, err := fx.pipeline.Process(context.Background(), textDoc("anything"))
			require.NoError(t, err)
			assert.Equal(t, tc.typ, res.ClaimType)
			assert.Equal(t, tc.priority, res.PriorityScore)
		})
	}
}

func TestPipeline_MalformedJSONStopsBeforeFields(t *testing.T) {
	t.Parallel()
	rec := &scriptedRecognizer{}
	fx := newFixture(t, rec)

	_, err := fx.pipeline.Process(context.Background(),
		Document{Content: []byte(`{"claimant": "Jane"`), ContentType: "application/json", Filename: "c.json"})
	require.Error(t, err)

	assert.True(t, errors.IsClientError(err))
	assert.Equal(t, "Error processing document: Invalid JSON file.", errors.PublicMessage(err))
	assert.Zero(t, rec.calls)
	assert.Empty(t, fx.publisher.events)
	assert.Equal(t, []string{"CLAIM_003"}, fx.metrics.failed)
}

func TestPipeline_ClientErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  Document
		code errors.ErrorCode
		msg  string
	}{
		{"empty upload", Document{ContentType: "text/plain"}, errors.ErrCodeEmptyInput, "Uploaded file is empty."},
		{"unsupported", Document{Content: []byte("x"), ContentType: "application/zip", Filename: "a.zip"},
			errors.ErrCodeUnsupportedFormat, "Unsupported file type: application/zip (.zip)"},
		{"whitespace only", textDoc("  \n\t "), errors.ErrCodeNoTextExtracted, "No text could be extracted from the document."},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := &scriptedRecognizer{}
			fx := newFixture(t, rec)
			_, err := fx.pipeline.Process(context.Background(), tc.doc)
			require.Error(t, err)
			assert.Equal(t, tc.code, errors.GetCode(err))
			assert.Equal(t, tc.msg, errors.PublicMessage(err))
			assert.Equal(t, 400, errors.HTTPStatus(err))
			assert.Zero(t, rec.calls)

			warned := fx.logs.FilterMessage("claim rejected").Len()
			assert.Equal(t, 1, warned)
		})
	}
}

func TestPipeline_RecognizerFailureIsInternal(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, &scriptedRecognizer{err: errBackend})

	_, err := fx.pipeline.Process(context.Background(), textDoc("Claimant: Jane Doe"))
	require.Error(t, err)
	assert.False(t, errors.IsClientError(err))
	assert.Equal(t, 500, errors.HTTPStatus(err))
	assert.Equal(t, "Internal server error.", errors.PublicMessage(err))
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, 1, fx.logs.FilterMessage("claim processing failed").Len())
}

func TestPipeline_PanicIsRecovered(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, panickingRecognizer{})

	res, err := fx.pipeline.Process(context.Background(), textDoc("Claimant: Jane Doe"))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternal, errors.GetCode(err))
	assert.Contains(t, err.Error(), "model crashed")
	assert.Contains(t, err.Error(), string(StateExtracted))
}

func TestPipeline_PublishFailureDoesNotFailClaim(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, &scriptedRecognizer{entities: moneyClaim("$20,000")})
	fx.publisher.err = errBackend

	res, err := fx.pipeline.Process(context.Background(), textDoc("x"))
	require.NoError(t, err)
	assert.Equal(t, 70, res.PriorityScore)

	require.Len(t, fx.publisher.events, 1)
	ev := fx.publisher.events[0]
	assert.Equal(t, "claim-1", ev.AggregateID())
	assert.Equal(t, res.RoutingStatus, ev.RoutingStatus)
	assert.Equal(t, 1, fx.logs.FilterMessage("failed to publish claim routed event").Len())
}

func TestPipeline_StagesAreMeasured(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, &scriptedRecognizer{entities: moneyClaim("$1")})

	_, err := fx.pipeline.Process(context.Background(), textDoc("x"))
	require.NoError(t, err)
	for _, s := range []string{StageExtract, StageFields, StageClassify, StageRoute, StageAuto} {
		assert.Equal(t, 1, fx.metrics.stages[s], s)
	}
}

func TestPipeline_TimeoutIsInternal(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, &scriptedRecognizer{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	// The rasterizer stub ignores ctx, the slow engine does not.
	slow := &stubEngine{delay: func(uint8) time.Duration { return time.Second }}
	r := stubRasterizer{pages: []image.Image{tagged(1)}}
	fx.pipeline.extractor = NewTextExtractor(map[Format]Strategy{FormatPDF: PDFStrategy(r, slow, 1, nil)}, nil)

	_, err := fx.pipeline.Process(ctx, Document{Content: []byte("%PDF"), ContentType: "application/pdf"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.GetCode(err))
	assert.False(t, errors.IsClientError(err))
}

func TestPipeline_QueueOrderingAcrossClaims(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, ner.NewRuleRecognizer())
	ctx := context.Background()

	docs := []string{
		"Claimant: John Doe\nDate: 2023-01-01\nAmount: $12,000\n", // 62
		"nothing useful here",                                     // 80
		"Claimant: Ann Lee\nAmount: $15,000\n",                    // 75
	}
	for _, d := range docs {
		_, err := fx.pipeline.Process(ctx, textDoc(d))
		require.NoError(t, err)
	}

	entries, err := fx.pipeline.ReviewQueue(ctx)
	require.NoError(t, err)
	got := make([]int, len(entries))
	for i, e := range entries {
		got[i] = e.PriorityScore
	}
	assert.Equal(t, []int{80, 75, 62}, got)
}

func TestPipeline_ConcurrentProcessing(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, &scriptedRecognizer{entities: moneyClaim("$50,000")})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.pipeline.Process(ctx, textDoc("x"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := fx.queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

//Personal.AI order the ending
