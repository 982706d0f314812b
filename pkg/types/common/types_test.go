package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Unique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a.String(), 36)
	assert.NotEqual(t, a, b)
}

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	e := NewBaseEvent("claim-1")

	var _ DomainEvent = e
	assert.NotEmpty(t, e.EventID())
	assert.Equal(t, "claim-1", e.AggregateID())
	assert.False(t, e.OccurredAt().Before(before))
}

//Personal.AI order the ending
