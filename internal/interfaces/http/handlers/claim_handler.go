package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/turtacn/claims-intake/internal/application/intake"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

// UploadField is the multipart form field carrying the claim document.
const UploadField = "file"

// multipartOverhead leaves room for boundaries and part headers on top of
// the document itself.
const multipartOverhead = 64 << 10

// ClaimHandler serves the intake endpoints.
type ClaimHandler struct {
	svc            intake.Service
	maxUploadBytes int64
	timeout        time.Duration
	logger         logging.Logger
}

// NewClaimHandler builds a ClaimHandler. maxUploadBytes caps the document
// size; timeout bounds one pipeline run (0 means no extra bound).
func NewClaimHandler(svc intake.Service, maxUploadBytes int64, timeout time.Duration, logger logging.Logger) *ClaimHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ClaimHandler{svc: svc, maxUploadBytes: maxUploadBytes, timeout: timeout, logger: logger}
}

// ProcessClaim handles POST /process-claim/.
func (h *ClaimHandler) ProcessClaim(w http.ResponseWriter, r *http.Request) {
	doc, err := h.readUpload(w, r)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.svc.Process(ctx, doc)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ReviewQueue handles GET /review-queue.
func (h *ClaimHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ReviewQueue(r.Context())
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if entries == nil {
		entries = []claimtypes.ReviewQueueEntry{}
	}
	writeJSON(w, http.StatusOK, claimtypes.ReviewQueueResponse{Entries: entries, Total: len(entries)})
}

func (h *ClaimHandler) readUpload(w http.ResponseWriter, r *http.Request) (intake.Document, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return intake.Document{}, uploadError(err)
	}
	defer file.Close()

	content, err := readLimited(file, h.maxUploadBytes)
	if err != nil {
		return intake.Document{}, uploadError(err)
	}

	return intake.Document{
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}, nil
}

var errTooLarge = stderrors.New("upload exceeds limit")

func readLimited(f multipart.File, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(f)
	}
	content, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > max {
		return nil, errTooLarge
	}
	return content, nil
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr), stderrors.Is(err, errTooLarge):
		return errors.New(errors.ErrCodeRequestTooLarge, "Uploaded file is too large.")
	case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
		return errors.New(errors.ErrCodeBadRequest, "No file uploaded.")
	default:
		return errors.Wrap(err, errors.ErrCodeBadRequest, "Malformed upload.")
	}
}

//Personal.AI order the ending
