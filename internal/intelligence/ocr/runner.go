// Package ocr wraps the external OCR toolchain: page rasterization of PDF
// documents and text recognition on images. Both sit behind interfaces so
// the intake pipeline can be tested without the binaries installed.
package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
)

// ---------------------------------------------------------------------------
// Runner
// ---------------------------------------------------------------------------

// Runner executes an external command. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec and logs each invocation.
type ExecRunner struct {
	logger logging.Logger
}

// NewExecRunner returns a Runner backed by exec.CommandContext.
func NewExecRunner(logger logging.Logger) *ExecRunner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ExecRunner{logger: logger.Named("exec")}
}

const maxLoggedStderr = 8 << 10

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	took := time.Since(start)

	if err != nil {
		r.logger.Error("exec failed",
			logging.String("cmd", name),
			logging.String("args", strings.Join(args, " ")),
			logging.Duration("took", took),
			logging.Err(err),
			logging.String("stderr", truncate(errb.String(), maxLoggedStderr)))
	} else {
		r.logger.Debug("exec ok",
			logging.String("cmd", name),
			logging.String("args", strings.Join(args, " ")),
			logging.Duration("took", took),
			logging.Int("stdout_bytes", out.Len()))
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

//Personal.AI order the ending
