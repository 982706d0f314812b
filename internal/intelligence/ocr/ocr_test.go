package ocr

import (
	"context"
	stderrors "errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/claims-intake/pkg/errors"
)

// fakeRunner records invocations and delegates to fn.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	fn    func(name string, args []string) ([]byte, []byte, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()
	return f.fn(name, args)
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// ---------------------------------------------------------------------------
// TesseractEngine
// ---------------------------------------------------------------------------

func TestTesseractEngine_Recognize(t *testing.T) {
	var seenPath string
	r := &fakeRunner{fn: func(name string, args []string) ([]byte, []byte, error) {
		seenPath = args[0]
		_, err := os.Stat(seenPath)
		require.NoError(t, err, "work file must exist while tesseract runs")
		return []byte("Claimant: John Doe\n"), nil, nil
	}}
	e := NewTesseractEngine(TesseractConfig{Language: "deu", TessdataDir: "/td", WorkDir: t.TempDir()}, r, nil)

	text, err := e.Recognize(context.Background(), solid(4, 4, color.White))
	require.NoError(t, err)
	assert.Equal(t, "Claimant: John Doe\n", text)

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"tesseract", seenPath, "stdout", "-l", "deu", "--tessdata-dir", "/td"}, r.calls[0])
	_, err = os.Stat(seenPath)
	assert.True(t, os.IsNotExist(err), "work file is removed afterwards")
}

func TestTesseractEngine_Failure(t *testing.T) {
	r := &fakeRunner{fn: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("Error opening data file\n"), stderrors.New("exit status 1")
	}}
	e := NewTesseractEngine(TesseractConfig{WorkDir: t.TempDir()}, r, nil)

	_, err := e.Recognize(context.Background(), solid(2, 2, color.Black))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeOCRFailed))
	assert.Contains(t, err.Error(), "Error opening data file")
}

func TestTesseractEngine_NilImage(t *testing.T) {
	e := NewTesseractEngine(TesseractConfig{}, &fakeRunner{}, nil)
	_, err := e.Recognize(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeOCRFailed))
}

// ---------------------------------------------------------------------------
// PopplerRasterizer
// ---------------------------------------------------------------------------

func fixedPages(n int) PageCounter {
	return func(io.ReadSeeker) (int, error) { return n, nil }
}

// pdftoppmWriting emulates pdftoppm by writing n PNGs of increasing width,
// zero-padded the way poppler does.
func pdftoppmWriting(t *testing.T, n int) func(string, []string) ([]byte, []byte, error) {
	return func(_ string, args []string) ([]byte, []byte, error) {
		prefix := args[len(args)-1]
		width := len(fmt.Sprint(n))
		for i := 1; i <= n; i++ {
			f, err := os.Create(fmt.Sprintf("%s-%0*d.png", prefix, width, i))
			require.NoError(t, err)
			require.NoError(t, png.Encode(f, solid(i, 1, color.White)))
			require.NoError(t, f.Close())
		}
		return nil, nil, nil
	}
}

func TestPopplerRasterizer_PagesInOrder(t *testing.T) {
	r := &fakeRunner{fn: pdftoppmWriting(t, 12)}
	p := NewPopplerRasterizer(PopplerConfig{DPI: 150, WorkDir: t.TempDir()}, r, nil, WithPageCounter(fixedPages(12)))

	imgs, err := p.Rasterize(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Len(t, imgs, 12)
	for i, img := range imgs {
		assert.Equal(t, i+1, img.Bounds().Dx(), "page %d", i+1)
	}

	require.Len(t, r.calls, 1)
	call := r.calls[0]
	assert.Equal(t, []string{"pdftoppm", "-r", "150", "-png"}, call[:4])
	assert.Equal(t, "in.pdf", filepath.Base(call[4]))
}

func TestPopplerRasterizer_MaxPages(t *testing.T) {
	r := &fakeRunner{fn: pdftoppmWriting(t, 2)}
	p := NewPopplerRasterizer(PopplerConfig{MaxPages: 2, WorkDir: t.TempDir()}, r, nil, WithPageCounter(fixedPages(9)))

	imgs, err := p.Rasterize(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Len(t, imgs, 2)
	assert.Contains(t, r.calls[0], "-l")
}

func TestPopplerRasterizer_InvalidPDF(t *testing.T) {
	r := &fakeRunner{fn: func(string, []string) ([]byte, []byte, error) {
		t.Fatal("pdftoppm must not run for an invalid document")
		return nil, nil, nil
	}}
	p := NewPopplerRasterizer(PopplerConfig{WorkDir: t.TempDir()}, r, nil)

	_, err := p.Rasterize(context.Background(), []byte("definitely not a pdf"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRasterizeFailed))
}

func TestPopplerRasterizer_NoPagesRendered(t *testing.T) {
	r := &fakeRunner{fn: func(string, []string) ([]byte, []byte, error) { return nil, nil, nil }}
	p := NewPopplerRasterizer(PopplerConfig{WorkDir: t.TempDir()}, r, nil, WithPageCounter(fixedPages(1)))

	_, err := p.Rasterize(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images")
}

func TestPopplerRasterizer_CommandFailure(t *testing.T) {
	r := &fakeRunner{fn: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("Syntax Error: Couldn't find trailer dictionary"), stderrors.New("exit status 1")
	}}
	p := NewPopplerRasterizer(PopplerConfig{WorkDir: t.TempDir()}, r, nil, WithPageCounter(fixedPages(1)))

	_, err := p.Rasterize(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftoppm")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...(truncated)", truncate("abcdef", 2))
}

//Personal.AI order the ending
