package claim

import (
	"context"
	"time"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// Router sends complex claims to the review queue and lets simple claims
// through untouched.
type Router struct {
	queue  ReviewQueue
	logger logging.Logger
	now    func() time.Time
}

// RouterOption customises a Router.
type RouterOption func(*Router)

// WithClock overrides the enqueue timestamp source.
func WithClock(now func() time.Time) RouterOption {
	return func(r *Router) { r.now = now }
}

// NewRouter builds a Router over queue.
func NewRouter(queue ReviewQueue, logger logging.Logger, opts ...RouterOption) *Router {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	r := &Router{
		queue:  queue,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Route returns the routing status for the claim. Complex claims are
// enqueued with their priority first. Only a failing queue backend produces
// an error.
func (r *Router) Route(ctx context.Context, claimID string, fields Fields, c Classification) (string, error) {
	if !c.IsComplex() {
		return StatusFor(c), nil
	}

	entry := QueueEntry{
		ClaimID:       claimID,
		PriorityScore: c.PriorityScore,
		ClaimData:     fields,
		EnqueuedAt:    r.now(),
	}
	if err := r.queue.Enqueue(ctx, entry); err != nil {
		return "", errors.Wrap(err, errors.CodeUnknown, "failed to enqueue claim for review")
	}

	r.logger.Info("claim queued for human review",
		logging.ClaimID(claimID),
		logging.Int("priority", c.PriorityScore),
		logging.Int("missing_fields", len(c.MissingFields)))
	return StatusFor(c), nil
}

// Queue exposes the underlying review queue for read access.
func (r *Router) Queue() ReviewQueue { return r.queue }

//Personal.AI order the ending
