package claim

import (
	"context"
	"sort"
	"sync"

	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

// QueueEntry is one complex claim awaiting human review.
type QueueEntry = claimtypes.ReviewQueueEntry

// ReviewQueue is the shared, priority-ordered list of complex claims. Reads
// return entries in non-increasing PriorityScore; entries with equal scores
// keep their insertion order. Entries are never removed by the intake
// pipeline. Implementations must be safe for concurrent use.
type ReviewQueue interface {
	Enqueue(ctx context.Context, entry QueueEntry) error
	List(ctx context.Context) ([]QueueEntry, error)
	Len(ctx context.Context) (int, error)
}

// MemoryQueue is the in-process ReviewQueue. The zero value is ready to use.
type MemoryQueue struct {
	mu      sync.RWMutex
	entries []QueueEntry
}

// NewMemoryQueue returns an empty in-process queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue appends entry and restores the ordering. It never fails.
func (q *MemoryQueue) Enqueue(_ context.Context, entry QueueEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.entries = append(q.entries, entry)
	sort.SliceStable(q.entries, func(i, j int) bool {
		return q.entries[i].PriorityScore > q.entries[j].PriorityScore
	})
	return nil
}

// List returns a copy of the queue, highest priority first.
func (q *MemoryQueue) List(_ context.Context) ([]QueueEntry, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]QueueEntry, len(q.entries))
	copy(out, q.entries)
	return out, nil
}

// Len returns the number of queued claims.
func (q *MemoryQueue) Len(_ context.Context) (int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries), nil
}

//Personal.AI order the ending
