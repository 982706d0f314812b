package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/turtacn/claims-intake/pkg/errors"
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

const (
	processClaimPath = "/process-claim/"
	reviewQueuePath  = "/review-queue"
	uploadField      = "file"
)

// ProcessClaim uploads one document. contentType may be empty, in which case
// the server resolves the format from the filename extension. Submissions are
// never retried because a complex claim is enqueued for review on success.
func (c *Client) ProcessClaim(ctx context.Context, filename, contentType string, r io.Reader) (*claimtypes.PipelineResult, error) {
	if filename == "" {
		return nil, errors.New(errors.CodeInvalidParam, "filename is required")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+uploadField+`"; filename="`+escapeQuotes(filepath.Base(filename))+`"`)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build upload")
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "failed to read document")
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build upload")
	}

	var result claimtypes.PipelineResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        processClaimPath,
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ProcessClaimFile uploads the file at path.
func (c *Client) ProcessClaimFile(ctx context.Context, path, contentType string) (*claimtypes.PipelineResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "failed to open document").WithDetail(path)
	}
	defer f.Close()
	return c.ProcessClaim(ctx, filepath.Base(path), contentType, f)
}

// ReviewQueue returns the server's review queue, highest priority first.
func (c *Client) ReviewQueue(ctx context.Context) (*claimtypes.ReviewQueueResponse, error) {
	var resp claimtypes.ReviewQueueResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: reviewQueuePath, idempotent: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

//Personal.AI order the ending
