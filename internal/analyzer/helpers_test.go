package analyzer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubDetector records calls and answers with a fixed verdict or error.
// When gate is set every call blocks until it is closed.
type stubDetector struct {
	mu         sync.Mutex
	textCalls  int
	imageCalls int
	lastText   string
	lastMime   string
	lastData   []byte

	verdict bool
	err     error
	panics  bool
	gate    chan struct{}
	entered chan struct{}
}

func (d *stubDetector) DetectText(ctx context.Context, text string) (bool, error) {
	d.mu.Lock()
	d.textCalls++
	d.lastText = text
	d.mu.Unlock()
	return d.answer()
}

func (d *stubDetector) DetectImage(ctx context.Context, data []byte, mimeType string) (bool, error) {
	d.mu.Lock()
	d.imageCalls++
	d.lastData = data
	d.lastMime = mimeType
	d.mu.Unlock()
	return d.answer()
}

func (d *stubDetector) answer() (bool, error) {
	if d.entered != nil {
		d.entered <- struct{}{}
	}
	if d.gate != nil {
		<-d.gate
	}
	if d.panics {
		panic("detector exploded")
	}
	return d.verdict, d.err
}

func (d *stubDetector) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textCalls + d.imageCalls
}

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testImage(t *testing.T, name string) *ImageFile {
	t.Helper()

	file, err := NewImageFile(name, solidPNG(t, 8, 8))
	require.NoError(t, err)
	return file
}
