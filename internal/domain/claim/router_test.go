package claim

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/claims-intake/pkg/errors"
)

type failingQueue struct{ MemoryQueue }

func (*failingQueue) Enqueue(context.Context, QueueEntry) error {
	return stderrors.New("connection refused")
}

func TestRouter_SimpleBypassesQueue(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()
	r := NewRouter(q, nil)

	status, err := r.Route(ctx, "c-1", fields(ptr("Jane"), ptr("2023-01-01"), ptr("$500")),
		Classification{Type: TypeSimple})
	require.NoError(t, err)
	assert.Equal(t, "auto-processed", status)

	n, _ := q.Len(ctx)
	assert.Zero(t, n)
}

func TestRouter_ComplexIsQueued(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	q := NewMemoryQueue()
	r := NewRouter(q, nil, WithClock(func() time.Time { return at }))
	f := fields(ptr("John Doe"), ptr("2023-01-01"), ptr("$12,000"))

	status, err := r.Route(ctx, "c-2", f, Classification{Type: TypeComplex, PriorityScore: 62})
	require.NoError(t, err)
	assert.Equal(t, "queued for human review (priority 62)", status)

	got, _ := r.Queue().List(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, QueueEntry{ClaimID: "c-2", PriorityScore: 62, ClaimData: f, EnqueuedAt: at}, got[0])
}

func TestRouter_QueueFailureIsInternal(t *testing.T) {
	r := NewRouter(&failingQueue{}, nil)

	_, err := r.Route(context.Background(), "c-3", Fields{}, Classification{Type: TypeComplex, PriorityScore: 80})
	require.Error(t, err)
	assert.False(t, errors.IsClientError(err))
	assert.Contains(t, err.Error(), "enqueue")
}

func TestRouter_QueueStaysOrderedAcrossRoutes(t *testing.T) {
	ctx := context.Background()
	c := NewClassifier(nil)
	r := NewRouter(NewMemoryQueue(), nil)

	inputs := []Fields{
		fields(ptr("A"), ptr("B"), ptr("$12,000")),
		fields(nil, nil, nil),
		fields(ptr("A"), ptr("B"), ptr("$500")),
		fields(ptr("A"), nil, ptr("$90,000")),
	}
	for i, in := range inputs {
		_, err := r.Route(ctx, string(rune('a'+i)), in, c.Classify(in))
		require.NoError(t, err)
	}

	got, _ := r.Queue().List(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, []int{150, 80, 62}, []int{got[0].PriorityScore, got[1].PriorityScore, got[2].PriorityScore})
}

func TestNewClaimRoutedEvent(t *testing.T) {
	f := fields(ptr("Jane"), ptr("2023-01-01"), ptr("$500"))
	ev := NewClaimRoutedEvent("c-9", f, Classification{Type: TypeSimple}, "auto-processed", "text")

	assert.Equal(t, "c-9", ev.AggregateID())
	assert.NotEmpty(t, ev.EventID())
	assert.True(t, ev.AutoProcessed)
	assert.Equal(t, TypeSimple, ev.ClaimType)
	assert.Equal(t, "text", ev.SourceFormat)
	assert.NoError(t, NopPublisher{}.PublishClaimRouted(context.Background(), ev))
}

//Personal.AI order the ending
