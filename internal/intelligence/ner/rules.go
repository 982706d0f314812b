// Package ner provides the entity recognizers used to pull claimant names,
// dates and amounts out of claim text: a built-in pattern recognizer and a
// client for an external NER service.
package ner

import (
	"context"
	"regexp"
	"sort"

	"github.com/turtacn/claims-intake/internal/domain/claim"
)

// ---------------------------------------------------------------------------
// Rule-based recognizer
// ---------------------------------------------------------------------------

const (
	namePart = `[A-Z][A-Za-z'\-]+`
	fullName = namePart + `(?:[ \t]+` + namePart + `){0,3}`
	months   = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`
	number   = `(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?`
)

// pattern is one rule. When group > 0 the entity is that capture group,
// otherwise the whole match.
type pattern struct {
	label claim.EntityLabel
	re    *regexp.Regexp
	group int
}

var defaultPatterns = []pattern{
	// Labelled claimant lines: "Claimant: John Doe", "Policyholder - Jane Roe".
	{claim.LabelPerson, regexp.MustCompile(
		`(?i:\b(?:claimant(?:'s)?(?:[ \t]+name)?|insured(?:[ \t]+name)?|policy[ \t]?holder|name(?:[ \t]+of[ \t]+claimant)?|submitted[ \t]+by|patient))[ \t]*[:\-][ \t]*(` + fullName + `)`), 1},
	// Honorifics: "Mr. John Smith".
	{claim.LabelPerson, regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Miss|Dr)\.?[ \t]+(` + namePart + `(?:[ \t]+` + namePart + `)?)`), 1},

	{claim.LabelDate, regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`), 0},
	{claim.LabelDate, regexp.MustCompile(`\b\d{1,2}[/.]\d{1,2}[/.]\d{2,4}\b`), 0},
	{claim.LabelDate, regexp.MustCompile(`\b` + months + `\.?[ \t]+\d{1,2}(?:st|nd|rd|th)?,?[ \t]+\d{4}\b`), 0},
	{claim.LabelDate, regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)?[ \t]+` + months + `,?[ \t]+\d{4}\b`), 0},

	{claim.LabelMoney, regexp.MustCompile(`[$€£][ \t]?` + number), 0},
	{claim.LabelMoney, regexp.MustCompile(`\b(?:USD|EUR|GBP)[ \t]?` + number), 0},
	{claim.LabelMoney, regexp.MustCompile(`\b` + number + `[ \t]?(?:dollars|USD)\b`), 0},
	// Bare labelled amounts: "Amount: 12,000".
	{claim.LabelMoney, regexp.MustCompile(`(?i:\b(?:claim[ \t]+)?amount)[ \t]*[:\-][ \t]*(` + number + `)`), 1},
}

// RuleRecognizer finds PERSON, DATE and MONEY entities with regular
// expressions. It needs no model files and is deterministic.
type RuleRecognizer struct {
	patterns []pattern
}

// NewRuleRecognizer returns a recognizer with the built-in rules.
func NewRuleRecognizer() *RuleRecognizer {
	return &RuleRecognizer{patterns: defaultPatterns}
}

// Recognize returns non-overlapping entities ordered by start offset. When
// two matches overlap, the one starting first wins; at equal starts the
// longer wins.
func (r *RuleRecognizer) Recognize(ctx context.Context, text string) ([]claim.Entity, error) {
	var found []claim.Entity
	for _, p := range r.patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2*p.group], m[2*p.group+1]
			if start < 0 {
				continue
			}
			found = append(found, claim.Entity{Text: text[start:end], Label: p.label, Start: start, End: end})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Start != found[j].Start {
			return found[i].Start < found[j].Start
		}
		return found[i].End > found[j].End
	})

	out := found[:0]
	lastEnd := -1
	for _, e := range found {
		if e.Start < lastEnd {
			continue
		}
		out = append(out, e)
		lastEnd = e.End
	}
	return out, nil
}

//Personal.AI order the ending
