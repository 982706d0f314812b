package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Engine turns a decoded image into text.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// TesseractConfig configures TesseractEngine.
type TesseractConfig struct {
	Binary      string // path or name of the tesseract executable
	Language    string // -l argument, e.g. "eng"
	TessdataDir string // optional --tessdata-dir
	WorkDir     string // where temporary images are written; "" means os.TempDir
}

// TesseractEngine shells out to the tesseract CLI:
//
//	tesseract <image.png> stdout -l <lang> [--tessdata-dir <dir>]
type TesseractEngine struct {
	cfg    TesseractConfig
	runner Runner
	logger logging.Logger
}

// NewTesseractEngine builds an Engine. A nil runner means ExecRunner.
func NewTesseractEngine(cfg TesseractConfig, runner Runner, logger logging.Logger) *TesseractEngine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &TesseractEngine{cfg: cfg, runner: runner, logger: logger.Named("tesseract")}
}

// Recognize encodes img as PNG into a temp file and runs tesseract on it.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if img == nil {
		return "", errors.New(errors.ErrCodeOCRFailed, "no image to recognize")
	}

	f, err := os.CreateTemp(e.cfg.WorkDir, "claim-ocr-*.png")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeOCRUnavailable, "cannot create OCR work file")
	}
	path := f.Name()
	defer os.Remove(path)

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", errors.Wrap(err, errors.ErrCodeOCRFailed, "cannot encode image for OCR")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeOCRFailed, "cannot write OCR work file")
	}

	return e.RecognizeFile(ctx, path)
}

// RecognizeFile runs tesseract on an image already on disk.
func (e *TesseractEngine) RecognizeFile(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Binary, args...)
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.Wrap(err, errors.ErrCodeOCRFailed, fmt.Sprintf("tesseract: %s", msg))
	}
	return string(out), nil
}

//Personal.AI order the ending
