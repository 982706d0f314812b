package claim

import (
	"math"
	"strconv"
	"strings"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

const (
	// ComplexAmountThreshold is the amount above which a complete claim is
	// still complex. Exactly 10000 is simple.
	ComplexAmountThreshold = 10000.0

	basePriority          = 50
	missingFieldWeight    = 10
	amountPriorityDivisor = 1000.0

	// maxAmountPriority caps the amount contribution so absurd amounts
	// cannot overflow the score.
	maxAmountPriority = math.MaxInt32
)

// Classification is the result of Classify.
type Classification struct {
	Type          Type
	PriorityScore int
	Amount        float64
	MissingFields []string
}

// IsComplex reports whether the claim needs human review.
func (c Classification) IsComplex() bool { return c.Type == TypeComplex }

// Classifier decides complexity and priority. It never fails; unparseable
// amounts are logged and treated as zero.
type Classifier struct {
	logger logging.Logger
}

// NewClassifier returns a Classifier that reports amount parse problems to
// logger.
func NewClassifier(logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Classifier{logger: logger}
}

// Classify applies the complexity rules:
//
//	complex  iff  any field missing  or  amount > 10000
//	score    =    50 + 10*missing + floor(amount/1000)   (complex)
//	score    =    0                                      (simple)
func (c *Classifier) Classify(f Fields) Classification {
	amount := 0.0
	if f.ClaimAmount != nil {
		v, err := ParseAmount(*f.ClaimAmount)
		if err != nil {
			c.logger.Warn("could not parse claim amount, treating as 0",
				logging.String("raw_amount", *f.ClaimAmount), logging.Err(err))
		} else {
			amount = v
		}
	}

	missing := MissingFields(f)
	result := Classification{
		Type:          TypeSimple,
		Amount:        amount,
		MissingFields: missing,
	}
	if len(missing) > 0 || amount > ComplexAmountThreshold {
		result.Type = TypeComplex
		result.PriorityScore = PriorityScore(amount, len(missing))
	}
	return result
}

// PriorityScore computes the review priority of a complex claim.
func PriorityScore(amount float64, missing int) int {
	amountPart := math.Floor(amount / amountPriorityDivisor)
	if amountPart < 0 || math.IsNaN(amountPart) {
		amountPart = 0
	}
	if amountPart > maxAmountPriority {
		amountPart = maxAmountPriority
	}
	return basePriority + missingFieldWeight*missing + int(amountPart)
}

// ParseAmount keeps only digits and '.' from raw and parses the remainder as
// a float. "$12,000.50" parses to 12000.5. Empty remainders and malformed
// numbers such as "1.2.3" are errors. Amounts too large for float64 parse to
// +Inf without error.
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, nil
		}
		return 0, err
	}
	return v, nil
}

// StatusFor renders the routing status for a classification.
func StatusFor(c Classification) string {
	if c.IsComplex() {
		return claimtypes.QueuedStatus(c.PriorityScore)
	}
	return claimtypes.StatusAutoProcessed
}

//Personal.AI order the ending
