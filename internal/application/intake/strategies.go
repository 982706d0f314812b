package intake

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/internal/intelligence/ocr"
)

// Strategy turns raw document bytes into text.
type Strategy func(ctx context.Context, content []byte) (string, error)

// errInvalidJSON is surfaced to the uploader as "Invalid JSON file.".
var errInvalidJSON = fmt.Errorf("Invalid JSON file.")

// PDFStrategy rasterizes every page, OCRs up to concurrency pages at once and
// joins the page texts with "\n" in page order.
func PDFStrategy(r ocr.Rasterizer, engine ocr.Engine, concurrency int, logger logging.Logger) Strategy {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(ctx context.Context, content []byte) (string, error) {
		pages, err := r.Rasterize(ctx, content)
		if err != nil {
			return "", err
		}

		texts := make([]string, len(pages))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, page := range pages {
			i, page := i, page
			g.Go(func() error {
				logger.Debug("recognizing PDF page", logging.Int("page", i+1), logging.Int("pages", len(pages)))
				txt, err := engine.Recognize(gctx, page)
				if err != nil {
					logger.Warn("PDF page OCR failed", logging.Int("page", i+1), logging.Err(err))
					return err
				}
				texts[i] = txt
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}
		return strings.Join(texts, "\n"), nil
	}
}

// ImageStrategy decodes the image and runs OCR on it once.
func ImageStrategy(engine ocr.Engine) Strategy {
	return func(ctx context.Context, content []byte) (string, error) {
		img, _, err := image.Decode(bytes.NewReader(content))
		if err != nil {
			return "", fmt.Errorf("cannot identify image file: %w", err)
		}
		return engine.Recognize(ctx, img)
	}
}

// TextStrategy decodes UTF-8, silently dropping invalid byte sequences.
func TextStrategy() Strategy {
	return func(_ context.Context, content []byte) (string, error) {
		return strings.ToValidUTF8(string(content), ""), nil
	}
}

// JSONStrategy flattens a JSON document into its values: object values are
// space-joined in document order with keys dropped, array elements are
// space-joined, strings contribute their content, numbers their shortest
// decimal form and true/false/null their JSON literal.
func JSONStrategy() Strategy {
	return func(_ context.Context, content []byte) (string, error) {
		raw := strings.ToValidUTF8(string(content), "")
		if !gjson.Valid(raw) {
			return "", errInvalidJSON
		}
		return flattenJSON(gjson.Parse(raw)), nil
	}
}

func flattenJSON(v gjson.Result) string {
	switch {
	case v.IsObject(), v.IsArray():
		var parts []string
		v.ForEach(func(_, value gjson.Result) bool {
			parts = append(parts, flattenJSON(value))
			return true
		})
		return strings.Join(parts, " ")
	case v.Type == gjson.String:
		return v.Str
	case v.Type == gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return v.Raw
	}
}

// CSVStrategy joins cells with " " and rows with "\n". Rows may have
// different lengths and quoting is parsed leniently. Blank lines are not
// rows and leave no empty line behind.
func CSVStrategy() Strategy {
	return func(_ context.Context, content []byte) (string, error) {
		r := csv.NewReader(strings.NewReader(strings.ToValidUTF8(string(content), "")))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true

		rows, err := r.ReadAll()
		if err != nil {
			return "", err
		}
		lines := make([]string, len(rows))
		for i, row := range rows {
			lines[i] = strings.Join(row, " ")
		}
		return strings.Join(lines, "\n"), nil
	}
}

//Personal.AI order the ending
