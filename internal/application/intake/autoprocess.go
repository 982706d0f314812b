package intake

import (
	"context"

	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

// AutoResult reports what the auto-processor did with a claim.
type AutoResult struct {
	AutoProcessed bool
	Message       string
}

// AutoProcessor settles simple claims without human involvement. Settlement
// is a confirmation only; no payment system is called.
type AutoProcessor struct {
	logger logging.Logger
}

// NewAutoProcessor returns an AutoProcessor.
func NewAutoProcessor(logger logging.Logger) *AutoProcessor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AutoProcessor{logger: logger.Named("auto")}
}

// Process confirms a simple claim. Complex claims are reported as not
// auto-processed and get no message.
func (a *AutoProcessor) Process(ctx context.Context, claimID string, fields claim.Fields, c claim.Classification) AutoResult {
	if c.IsComplex() {
		return AutoResult{AutoProcessed: false}
	}
	logging.FromContext(ctx, a.logger).Info("claim processed automatically",
		logging.ClaimID(claimID),
		logging.String("claimant", claimtypes.Value(fields.ClaimantName)))
	return AutoResult{AutoProcessed: true, Message: claimtypes.AutoProcessedMessage}
}

//Personal.AI order the ending
