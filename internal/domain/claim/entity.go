// Package claim holds the intake domain: extracted fields, complexity
// classification, priority scoring, the human review queue and routing.
package claim

import (
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

// Fields is the structured data pulled from a claim document.
type Fields = claimtypes.Fields

// Type is the complexity class of a claim.
type Type = claimtypes.ClaimType

const (
	TypeSimple  = claimtypes.TypeSimple
	TypeComplex = claimtypes.TypeComplex
)

// Field keys, in the order they are reported.
const (
	FieldClaimantName = "claimant_name"
	FieldClaimDate    = "claim_date"
	FieldClaimAmount  = "claim_amount"
)

// EntityLabel is the category a recognizer assigns to a span of text.
type EntityLabel string

const (
	LabelPerson EntityLabel = "PERSON"
	LabelDate   EntityLabel = "DATE"
	LabelMoney  EntityLabel = "MONEY"
)

// Entity is one labelled span. Start and End are byte offsets into the
// source text; recognizers return entities ordered by Start.
type Entity struct {
	Text  string      `json:"text"`
	Label EntityLabel `json:"label"`
	Start int         `json:"start_char"`
	End   int         `json:"end_char"`
}

// FieldsFromEntities maps recognized entities onto claim fields. The first
// entity of each relevant label wins; its text is kept verbatim. Labels other
// than PERSON, DATE and MONEY are ignored.
func FieldsFromEntities(entities []Entity) Fields {
	var f Fields
	for _, e := range entities {
		text := e.Text
		switch e.Label {
		case LabelPerson:
			if f.ClaimantName == nil {
				f.ClaimantName = &text
			}
		case LabelDate:
			if f.ClaimDate == nil {
				f.ClaimDate = &text
			}
		case LabelMoney:
			if f.ClaimAmount == nil {
				f.ClaimAmount = &text
			}
		}
	}
	return f
}

// MissingFields returns the keys of fields that are absent or empty, in
// report order.
func MissingFields(f Fields) []string {
	var missing []string
	if isMissing(f.ClaimantName) {
		missing = append(missing, FieldClaimantName)
	}
	if isMissing(f.ClaimDate) {
		missing = append(missing, FieldClaimDate)
	}
	if isMissing(f.ClaimAmount) {
		missing = append(missing, FieldClaimAmount)
	}
	return missing
}

func isMissing(p *string) bool {
	return p == nil || *p == ""
}

//Personal.AI order the ending
