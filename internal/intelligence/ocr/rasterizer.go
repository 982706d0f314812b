package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // pdftoppm output
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// ---------------------------------------------------------------------------
// Rasterizer
// ---------------------------------------------------------------------------

// Rasterizer renders every page of a PDF document to an image, in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte) ([]image.Image, error)
}

// PageCounter validates a PDF and returns its page count.
type PageCounter func(r io.ReadSeeker) (int, error)

// PdfcpuPageCounter parses r with pdfcpu in relaxed validation mode.
func PdfcpuPageCounter(r io.ReadSeeker) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(r, conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}

// PopplerConfig configures PopplerRasterizer.
type PopplerConfig struct {
	Binary   string // pdftoppm executable
	DPI      int
	MaxPages int // 0 renders every page
	WorkDir  string
}

// PopplerRasterizer validates the document with pdfcpu, then renders pages
// with poppler's pdftoppm:
//
//	pdftoppm -r <dpi> -png [-l <max>] <in.pdf> <dir>/page
type PopplerRasterizer struct {
	cfg    PopplerConfig
	runner Runner
	count  PageCounter
	logger logging.Logger
}

// PopplerOption customises a PopplerRasterizer.
type PopplerOption func(*PopplerRasterizer)

// WithPageCounter replaces the pdfcpu validation step.
func WithPageCounter(c PageCounter) PopplerOption {
	return func(p *PopplerRasterizer) { p.count = c }
}

// NewPopplerRasterizer builds a Rasterizer. A nil runner means ExecRunner.
func NewPopplerRasterizer(cfg PopplerConfig, runner Runner, logger logging.Logger, opts ...PopplerOption) *PopplerRasterizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	if cfg.Binary == "" {
		cfg.Binary = "pdftoppm"
	}
	if cfg.DPI == 0 {
		cfg.DPI = 300
	}
	p := &PopplerRasterizer{cfg: cfg, runner: runner, count: PdfcpuPageCounter, logger: logger.Named("pdftoppm")}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Rasterize renders pdf into one image per page.
func (p *PopplerRasterizer) Rasterize(ctx context.Context, pdf []byte) ([]image.Image, error) {
	pages, err := p.count(bytes.NewReader(pdf))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterizeFailed, "invalid PDF document")
	}
	if pages == 0 {
		return nil, errors.New(errors.ErrCodeRasterizeFailed, "PDF document has no pages")
	}

	dir, err := os.MkdirTemp(p.cfg.WorkDir, "claim-pdf-*")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeOCRUnavailable, "cannot create rasterizer work dir")
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			p.logger.Warn("failed to remove work dir", logging.String("dir", dir), logging.Err(rmErr))
		}
	}()

	in := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeOCRUnavailable, "cannot write PDF work file")
	}

	prefix := filepath.Join(dir, "page")
	args := []string{"-r", strconv.Itoa(p.cfg.DPI), "-png"}
	if p.cfg.MaxPages > 0 && pages > p.cfg.MaxPages {
		args = append(args, "-l", strconv.Itoa(p.cfg.MaxPages))
		p.logger.Warn("PDF truncated to max pages",
			logging.Int("pages", pages), logging.Int("max_pages", p.cfg.MaxPages))
	}
	args = append(args, in, prefix)

	if _, errb, err := p.runner.Run(ctx, p.cfg.Binary, args...); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterizeFailed,
			fmt.Sprintf("pdftoppm: %s", strings.TrimSpace(string(errb))))
	}

	files, err := renderedPages(prefix)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeRasterizeFailed, "pdftoppm produced no images")
	}

	images := make([]image.Image, 0, len(files))
	for _, f := range files {
		img, err := decodeFile(f)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeRasterizeFailed, "cannot decode rendered page").
				WithDetail(filepath.Base(f))
		}
		images = append(images, img)
	}
	return images, nil
}

// renderedPages lists prefix-N.png files ordered by page number. pdftoppm
// zero-pads N to the width of the last page number, but the numeric sort does
// not rely on that.
func renderedPages(prefix string) ([]string, error) {
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterizeFailed, "cannot list rendered pages")
	}
	num := func(path string) int {
		s := strings.TrimSuffix(strings.TrimPrefix(path, prefix+"-"), ".png")
		n, _ := strconv.Atoi(s)
		return n
	}
	sort.Slice(matches, func(i, j int) bool { return num(matches[i]) < num(matches[j]) })
	return matches, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

//Personal.AI order the ending
