package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/turtacn/claims-intake/internal/domain/claim"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// ---------------------------------------------------------------------------
// Remote recognizer
// ---------------------------------------------------------------------------

// RemoteRecognizer calls an HTTP NER service:
//
//	POST <endpoint>  {"text": "..."}
//	200              {"entities": [{"text","label","start_char","end_char"}]}
type RemoteRecognizer struct {
	endpoint string
	client   *http.Client
	logger   logging.Logger
}

type recognizeRequest struct {
	Text string `json:"text"`
}

type recognizeResponse struct {
	Entities []claim.Entity `json:"entities"`
}

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 4 << 10

// NewRemoteRecognizer builds a client for endpoint. A zero timeout means 10s.
func NewRemoteRecognizer(endpoint string, timeout time.Duration, logger logging.Logger) *RemoteRecognizer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RemoteRecognizer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("ner"),
	}
}

// Recognize sends text to the service once. Entities are re-sorted by start
// offset since the wire format does not promise an order.
func (r *RemoteRecognizer) Recognize(ctx context.Context, text string) ([]claim.Entity, error) {
	body, err := json.Marshal(recognizeRequest{Text: text})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode NER request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNERUnavailable, "build NER request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNERUnavailable, "NER service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.New(errors.ErrCodeNERFailed,
			fmt.Sprintf("NER service returned %d", resp.StatusCode)).WithDetail(string(snippet))
	}

	var out recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNERFailed, "decode NER response")
	}

	sort.SliceStable(out.Entities, func(i, j int) bool { return out.Entities[i].Start < out.Entities[j].Start })

	r.logger.Debug("entities recognized",
		logging.Int("count", len(out.Entities)),
		logging.Duration("took", time.Since(start)))
	return out.Entities, nil
}

//Personal.AI order the ending
