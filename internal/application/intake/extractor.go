package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/internal/intelligence/ocr"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// TextExtractor dispatches a document to the strategy registered for its
// format.
type TextExtractor struct {
	strategies map[Format]Strategy
	logger     logging.Logger
}

// DefaultStrategies wires the five built-in strategies. PDF pages are OCR'd
// with at most ocrConcurrency engine calls in flight.
func DefaultStrategies(engine ocr.Engine, rasterizer ocr.Rasterizer, ocrConcurrency int, logger logging.Logger) map[Format]Strategy {
	return map[Format]Strategy{
		FormatPDF:   PDFStrategy(rasterizer, engine, ocrConcurrency, logger),
		FormatImage: ImageStrategy(engine),
		FormatText:  TextStrategy(),
		FormatJSON:  JSONStrategy(),
		FormatCSV:   CSVStrategy(),
	}
}

// NewTextExtractor builds an extractor over the given strategy table.
func NewTextExtractor(strategies map[Format]Strategy, logger logging.Logger) *TextExtractor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	table := make(map[Format]Strategy, len(strategies))
	for f, s := range strategies {
		table[f] = s
	}
	return &TextExtractor{strategies: table, logger: logger.Named("extract")}
}

// Extract returns the text of doc. Errors are AppErrors of the client
// validation class: ErrCodeEmptyInput, ErrCodeUnsupportedFormat or
// ErrCodeExtractionFailure.
func (e *TextExtractor) Extract(ctx context.Context, doc Document) (string, Format, error) {
	if len(doc.Content) == 0 {
		return "", "", errors.New(errors.ErrCodeEmptyInput, "Uploaded file is empty.")
	}

	format, ok := ResolveFormat(doc.ContentType, doc.Filename)
	strategy := e.strategies[format]
	if !ok || strategy == nil {
		return "", "", errors.New(errors.ErrCodeUnsupportedFormat, unsupportedMessage(doc))
	}

	log := logging.FromContext(ctx, e.logger)
	log.Info("extracting text",
		logging.String("format", string(format)),
		logging.String("filename", doc.Filename),
		logging.Int("bytes", doc.Size()))

	text, err := strategy(ctx, doc.Content)
	if err != nil {
		log.Warn("text extraction failed", logging.String("format", string(format)), logging.Err(err))
		return "", format, errors.Wrap(err, errors.ErrCodeExtractionFailure,
			fmt.Sprintf("Error processing document: %s", causeText(err)))
	}
	return text, format, nil
}

func unsupportedMessage(doc Document) string {
	ext := strings.TrimPrefix(Extension(doc.Filename), ".")
	return fmt.Sprintf("Unsupported file type: %s (.%s)", doc.ContentType, ext)
}

// causeText renders err for the uploader without the "[CODE]" prefix an
// AppError carries in Error().
func causeText(err error) string {
	ae, ok := err.(*errors.AppError)
	if !ok {
		return err.Error()
	}
	switch {
	case ae.Detail != "":
		return ae.Message + ": " + ae.Detail
	case ae.Cause != nil:
		return ae.Message + ": " + ae.Cause.Error()
	default:
		return ae.Message
	}
}

//Personal.AI order the ending
