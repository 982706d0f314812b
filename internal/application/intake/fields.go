package intake

import (
	"context"

	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// FieldExtractor maps recognizer output onto claim fields.
type FieldExtractor struct {
	recognizer claim.EntityRecognizer
}

// NewFieldExtractor wraps recognizer.
func NewFieldExtractor(recognizer claim.EntityRecognizer) *FieldExtractor {
	return &FieldExtractor{recognizer: recognizer}
}

// Extract returns the first PERSON, DATE and MONEY entity texts as claimant
// name, claim date and claim amount. Absent categories stay nil. The only
// error source is the recognizer backend itself.
func (f *FieldExtractor) Extract(ctx context.Context, text string) (claim.Fields, error) {
	entities, err := f.recognizer.Recognize(ctx, text)
	if err != nil {
		return claim.Fields{}, errors.Wrap(err, errors.CodeUnknown, "entity recognition failed")
	}
	return claim.FieldsFromEntities(entities), nil
}

//Personal.AI order the ending
