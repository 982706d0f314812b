package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// ReviewQueue keeps the review queue in a sorted set scored by priority.
//
// Members are "<rank>|<json>" where rank is MaxInt64 minus a per-queue
// sequence, zero padded to 19 digits. ZREVRANGE orders equal scores by
// member descending, so earlier insertions come first within a priority.
type ReviewQueue struct {
	client *Client
	key    string
	seqKey string
	logger logging.Logger
}

var _ claim.ReviewQueue = (*ReviewQueue)(nil)

// NewReviewQueue stores the queue under key and its sequence under key+":seq".
func NewReviewQueue(client *Client, key string, log logging.Logger) *ReviewQueue {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ReviewQueue{client: client, key: key, seqKey: key + ":seq", logger: log}
}

func (q *ReviewQueue) Enqueue(ctx context.Context, entry claim.QueueEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode review queue entry")
	}

	seq, err := q.client.Incr(ctx, q.seqKey).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeQueueUnavailable, "failed to allocate queue sequence")
	}

	member := encodeMember(seq, payload)
	if err := q.client.ZAdd(ctx, q.key, redis.Z{Score: float64(entry.PriorityScore), Member: member}).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeQueueUnavailable, "failed to add claim to review queue")
	}

	q.logger.Debug("claim stored in redis review queue",
		logging.ClaimID(entry.ClaimID),
		logging.Int64("seq", seq))
	return nil
}

func (q *ReviewQueue) List(ctx context.Context) ([]claim.QueueEntry, error) {
	members, err := q.client.ZRevRange(ctx, q.key, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQueueUnavailable, "failed to read review queue")
	}

	entries := make([]claim.QueueEntry, 0, len(members))
	for _, m := range members {
		e, err := decodeMember(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (q *ReviewQueue) Len(ctx context.Context) (int, error) {
	n, err := q.client.ZCard(ctx, q.key).Result()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeQueueUnavailable, "failed to size review queue")
	}
	return int(n), nil
}

func encodeMember(seq int64, payload []byte) string {
	return fmt.Sprintf("%019d|%s", math.MaxInt64-seq, payload)
}

func decodeMember(m string) (claim.QueueEntry, error) {
	var e claim.QueueEntry
	_, payload, ok := strings.Cut(m, "|")
	if !ok {
		return e, errors.New(errors.ErrCodeQueueCorrupt, "review queue member has no rank prefix")
	}
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return e, errors.Wrap(err, errors.ErrCodeQueueCorrupt, "failed to decode review queue entry")
	}
	return e, nil
}

//Personal.AI order the ending
