package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/pkg/errors"
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

const testKey = "test:review_queue"

func entry(id string, priority int) claim.QueueEntry {
	return claim.QueueEntry{
		ClaimID:       id,
		PriorityScore: priority,
		ClaimData:     claim.Fields{ClaimantName: claimtypes.Ptr("John " + id)},
		EnqueuedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func ids(entries []claim.QueueEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ClaimID
	}
	return out
}

// ReviewQueueTestSuite runs the queue against an in-process miniredis.
type ReviewQueueTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *Client
	queue  *ReviewQueue
	ctx    context.Context
}

func (s *ReviewQueueTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client, err = NewClient(&Config{Addr: mr.Addr()}, nil)
	s.Require().NoError(err)
	s.queue = NewReviewQueue(s.client, testKey, nil)
	s.ctx = context.Background()
}

func (s *ReviewQueueTestSuite) TearDownTest() {
	_ = s.client.Close()
	s.mr.Close()
}

func (s *ReviewQueueTestSuite) TestOrderingAndTies() {
	for _, e := range []claim.QueueEntry{
		entry("a", 62), entry("b", 80), entry("c", 62), entry("d", 75), entry("e", 80),
	} {
		s.Require().NoError(s.queue.Enqueue(s.ctx, e))
	}

	got, err := s.queue.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"b", "e", "d", "a", "c"}, ids(got))

	n, err := s.queue.Len(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, n)
}

func (s *ReviewQueueTestSuite) TestRoundTripsEntry() {
	in := entry("x", 70)
	in.ClaimData.ClaimAmount = claimtypes.Ptr("$20,000")
	s.Require().NoError(s.queue.Enqueue(s.ctx, in))

	got, err := s.queue.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(in.ClaimID, got[0].ClaimID)
	s.Equal(in.ClaimData, got[0].ClaimData)
	s.True(in.EnqueuedAt.Equal(got[0].EnqueuedAt))
	s.Nil(got[0].ClaimData.ClaimDate)
}

func (s *ReviewQueueTestSuite) TestIdenticalEntriesAreKept() {
	s.Require().NoError(s.queue.Enqueue(s.ctx, entry("same", 60)))
	s.Require().NoError(s.queue.Enqueue(s.ctx, entry("same", 60)))

	n, err := s.queue.Len(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *ReviewQueueTestSuite) TestEmpty() {
	got, err := s.queue.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *ReviewQueueTestSuite) TestConcurrentEnqueue() {
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.NoError(s.queue.Enqueue(s.ctx, entry(fmt.Sprint(i), 50+i%5)))
		}(i)
	}
	wg.Wait()

	got, err := s.queue.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 25)
	for i := 1; i < len(got); i++ {
		s.GreaterOrEqual(got[i-1].PriorityScore, got[i].PriorityScore)
	}
}

func (s *ReviewQueueTestSuite) TestCorruptMember() {
	_, err := s.mr.ZAdd(testKey, 10, "not-a-member")
	s.Require().NoError(err)

	_, err = s.queue.List(s.ctx)
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeQueueCorrupt))
}

func (s *ReviewQueueTestSuite) TestZAddFailure() {
	s.Require().NoError(s.mr.Set(testKey, "not a sorted set"))

	err := s.queue.Enqueue(s.ctx, entry("a", 60))
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeQueueUnavailable))
	s.Contains(err.Error(), "failed to add claim to review queue")
}

func TestReviewQueueTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewQueueTestSuite))
}

func TestReviewQueue_BackendErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	q := NewReviewQueue(NewClientFromUniversal(db, nil), testKey, nil)
	ctx := context.Background()
	boom := fmt.Errorf("connection reset")

	mock.ExpectIncr(testKey + ":seq").SetErr(boom)
	err := q.Enqueue(ctx, entry("a", 60))
	assert.True(t, errors.IsCode(err, errors.ErrCodeQueueUnavailable))
	assert.ErrorIs(t, err, boom)

	mock.ExpectZRevRange(testKey, 0, -1).SetErr(boom)
	_, err = q.List(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeQueueUnavailable))

	mock.ExpectZCard(testKey).SetErr(boom)
	_, err = q.Len(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeQueueUnavailable))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEncodeMember_RankOrdering(t *testing.T) {
	first := encodeMember(1, []byte(`{}`))
	second := encodeMember(2, []byte(`{}`))
	assert.Greater(t, first, second)
	assert.Len(t, strings.SplitN(first, "|", 2)[0], 19)
}

//Personal.AI order the ending
