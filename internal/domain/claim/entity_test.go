package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsFromEntities_FirstEntityWins(t *testing.T) {
	entities := []Entity{
		{Text: "Claim Form", Label: "ORG", Start: 0, End: 10},
		{Text: "John Doe", Label: LabelPerson, Start: 20, End: 28},
		{Text: "2023-01-01", Label: LabelDate, Start: 40, End: 50},
		{Text: "Jane Roe", Label: LabelPerson, Start: 60, End: 68},
		{Text: "$12,000", Label: LabelMoney, Start: 80, End: 87},
		{Text: "$5", Label: LabelMoney, Start: 90, End: 92},
	}

	f := FieldsFromEntities(entities)

	require.NotNil(t, f.ClaimantName)
	require.NotNil(t, f.ClaimDate)
	require.NotNil(t, f.ClaimAmount)
	assert.Equal(t, "John Doe", *f.ClaimantName)
	assert.Equal(t, "2023-01-01", *f.ClaimDate)
	assert.Equal(t, "$12,000", *f.ClaimAmount)
}

func TestFieldsFromEntities_AbsentWhenNoEntity(t *testing.T) {
	f := FieldsFromEntities([]Entity{{Text: "ACME", Label: "ORG"}})
	assert.Nil(t, f.ClaimantName)
	assert.Nil(t, f.ClaimDate)
	assert.Nil(t, f.ClaimAmount)

	assert.Equal(t, Fields{}, FieldsFromEntities(nil))
}

func TestFieldsFromEntities_Idempotent(t *testing.T) {
	entities := []Entity{{Text: "Jane", Label: LabelPerson}, {Text: "$500", Label: LabelMoney}}
	assert.Equal(t, FieldsFromEntities(entities), FieldsFromEntities(entities))
}

func TestMissingFields(t *testing.T) {
	name, empty := "Jane", ""

	assert.Equal(t, []string{FieldClaimantName, FieldClaimDate, FieldClaimAmount}, MissingFields(Fields{}))
	assert.Equal(t, []string{FieldClaimDate, FieldClaimAmount},
		MissingFields(Fields{ClaimantName: &name, ClaimDate: &empty}))
	assert.Empty(t, MissingFields(Fields{ClaimantName: &name, ClaimDate: &name, ClaimAmount: &name}))
}

//Personal.AI order the ending
