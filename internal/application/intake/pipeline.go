package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
	"github.com/turtacn/claims-intake/pkg/types/common"
)

// State is a step of a single pipeline run.
type State string

const (
	StateReceived     State = "received"
	StateExtracted    State = "extracted"
	StateFieldsParsed State = "fields_parsed"
	StateClassified   State = "classified"
	StateRouted       State = "routed"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// Service is the intake use case exposed to transports.
type Service interface {
	// Process runs one document through the whole pipeline. Errors are
	// AppErrors; errors.IsClientError separates uploader mistakes from
	// internal failures.
	Process(ctx context.Context, doc Document) (*claimtypes.PipelineResult, error)

	// ReviewQueue returns the human review queue, highest priority first.
	ReviewQueue(ctx context.Context) ([]claim.QueueEntry, error)
}

// Pipeline sequences extraction, field parsing, classification, routing and
// auto-processing for one document at a time. It is safe for concurrent use
// when its collaborators are.
type Pipeline struct {
	extractor  *TextExtractor
	fields     *FieldExtractor
	classifier *claim.Classifier
	router     *claim.Router
	auto       *AutoProcessor
	publisher  claim.EventPublisher
	metrics    Metrics
	logger     logging.Logger
	newID      func() string
}

var _ Service = (*Pipeline)(nil)

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithPublisher sets the routing event sink.
func WithPublisher(p claim.EventPublisher) Option {
	return func(pl *Pipeline) {
		if p != nil {
			pl.publisher = p
		}
	}
}

// WithMetrics sets the measurement sink.
func WithMetrics(m Metrics) Option {
	return func(pl *Pipeline) {
		if m != nil {
			pl.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(pl *Pipeline) {
		if l != nil {
			pl.logger = l
		}
	}
}

// WithIDGenerator overrides claim ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(pl *Pipeline) { pl.newID = fn }
}

// NewPipeline assembles a Pipeline.
func NewPipeline(extractor *TextExtractor, fields *FieldExtractor, classifier *claim.Classifier, router *claim.Router, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:  extractor,
		fields:     fields,
		classifier: classifier,
		router:     router,
		publisher:  claim.NopPublisher{},
		metrics:    nopMetrics{},
		logger:     logging.NewNopLogger(),
		newID:      func() string { return common.NewID().String() },
	}
	for _, o := range opts {
		o(p)
	}
	if p.auto == nil {
		p.auto = NewAutoProcessor(p.logger)
	}
	return p
}

// Process implements Service.
func (p *Pipeline) Process(ctx context.Context, doc Document) (result *claimtypes.PipelineResult, err error) {
	claimID := p.newID()
	log := logging.FromContext(ctx, p.logger).With(logging.ClaimID(claimID))
	state := StateReceived

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.Internal("unexpected failure while processing claim").
				WithDetail(fmt.Sprintf("state=%s panic=%v", state, r))
		}
		if err != nil {
			err = p.classify(ctx, err)
			p.metrics.ClaimFailed(errors.GetCode(err).String())
			fields := []logging.Field{logging.String("state", string(state)), logging.Err(err)}
			if errors.IsClientError(err) {
				log.Warn("claim rejected", fields...)
			} else {
				log.Error("claim processing failed", fields...)
			}
		}
	}()

	log.Info("claim received",
		logging.String("filename", doc.Filename),
		logging.String("content_type", doc.ContentType),
		logging.Int("bytes", doc.Size()))

	// Received → Extracted
	start := time.Now()
	text, format, err := p.extractor.Extract(ctx, doc)
	p.metrics.ObserveStage(StageExtract, time.Since(start))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeNoTextExtracted, "No text could be extracted from the document.")
	}
	state = StateExtracted
	log.Debug("text extracted", logging.String("format", string(format)), logging.Int("chars", len(text)))

	// Extracted → FieldsParsed
	start = time.Now()
	fields, err := p.fields.Extract(ctx, text)
	p.metrics.ObserveStage(StageFields, time.Since(start))
	if err != nil {
		return nil, err
	}
	state = StateFieldsParsed

	// FieldsParsed → Classified
	start = time.Now()
	c := p.classifier.Classify(fields)
	p.metrics.ObserveStage(StageClassify, time.Since(start))
	state = StateClassified
	log.Info("claim classified",
		logging.String("claim_type", string(c.Type)),
		logging.Int("priority", c.PriorityScore),
		logging.Float64("amount", c.Amount),
		logging.Any("missing_fields", c.MissingFields))

	// Classified → Routed
	start = time.Now()
	status, err := p.router.Route(ctx, claimID, fields, c)
	p.metrics.ObserveStage(StageRoute, time.Since(start))
	if err != nil {
		return nil, err
	}
	state = StateRouted

	auto := AutoResult{AutoProcessed: false}
	if !c.IsComplex() {
		start = time.Now()
		auto = p.auto.Process(ctx, claimID, fields, c)
		p.metrics.ObserveStage(StageAuto, time.Since(start))
	}

	result = &claimtypes.PipelineResult{
		ExtractedData: fields,
		ClaimType:     c.Type,
		PriorityScore: c.PriorityScore,
		RoutingStatus: status,
		AutoProcessed: auto.AutoProcessed,
		Message:       auto.Message,
	}

	p.publish(ctx, log, claim.NewClaimRoutedEvent(claimID, fields, c, status, string(format)))
	p.metrics.ClaimProcessed(string(c.Type), string(format))
	if c.IsComplex() {
		p.metrics.ObservePriority(c.PriorityScore)
		if n, qerr := p.router.Queue().Len(ctx); qerr == nil {
			p.metrics.SetQueueDepth(n)
		}
	}

	state = StateCompleted
	log.Info("claim completed", logging.String("routing_status", status))
	return result, nil
}

// ReviewQueue implements Service.
func (p *Pipeline) ReviewQueue(ctx context.Context) ([]claim.QueueEntry, error) {
	entries, err := p.router.Queue().List(ctx)
	if err != nil {
		return nil, p.classify(ctx, err)
	}
	p.metrics.SetQueueDepth(len(entries))
	return entries, nil
}

// publish is best effort; a broken event bus never fails a claim.
func (p *Pipeline) publish(ctx context.Context, log logging.Logger, ev *claim.ClaimRoutedEvent) {
	if err := p.publisher.PublishClaimRouted(ctx, ev); err != nil {
		log.Warn("failed to publish claim routed event", logging.String("event_id", ev.EventID()), logging.Err(err))
	}
}

// classify guarantees every returned error is an AppError: client errors
// pass through, an expired context becomes a timeout, anything else is
// internal.
func (p *Pipeline) classify(ctx context.Context, err error) error {
	if errors.IsClientError(err) {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.IsCode(err, errors.ErrCodeExtractionFailure) {
			return errors.Wrap(ctxErr, errors.ErrCodeTimeout, "claim processing timed out")
		}
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(err, errors.ErrCodeTimeout, "claim processing timed out")
	}
	if errors.GetCode(err) == errors.CodeUnknown {
		return errors.Wrap(err, errors.CodeInternal, "internal error")
	}
	return err
}

//Personal.AI order the ending
