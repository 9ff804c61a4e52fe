package analyzer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/yildizm/AIDetect/internal/logger"
)

// DefaultPreviewWidth is the thumbnail width in terminal cells
const DefaultPreviewWidth = 32

// MaxPreviewPixels bounds the images decoded for a preview. Larger images
// get a placeholder without being decoded.
const MaxPreviewPixels = 4096 * 4096

// PreviewHandle is a revocable rendering of one selected image. The
// rendering is dropped on release; a released handle renders nothing.
type PreviewHandle struct {
	ID       string
	FileName string
	Width    int
	Height   int

	mu       sync.RWMutex
	rendered string
	revoked  bool
}

// Render returns the thumbnail, or "" once the handle has been released
func (h *PreviewHandle) Render() string {
	if h == nil {
		return ""
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.revoked {
		return ""
	}
	return h.rendered
}

// Revoked reports whether the handle has been released
func (h *PreviewHandle) Revoked() bool {
	if h == nil {
		return true
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.revoked
}

// revoke returns false if the handle was already released
func (h *PreviewHandle) revoke() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.revoked {
		return false
	}
	h.revoked = true
	h.rendered = ""
	return true
}

// PreviewManager creates and releases preview handles and tracks the live ones
type PreviewManager struct {
	mu       sync.Mutex
	width    int
	live     map[string]*PreviewHandle
	acquired int
	released int
	log      *logger.Logger
}

// NewPreviewManager renders thumbnails at most width cells wide
func NewPreviewManager(width int, log *logger.Logger) *PreviewManager {
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	if log == nil {
		log = logger.Nop("preview")
	}
	return &PreviewManager{
		width: width,
		live:  make(map[string]*PreviewHandle),
		log:   log,
	}
}

// Acquire renders file into a new live handle. Undecodable images still get
// a handle with a text placeholder.
func (m *PreviewManager) Acquire(file *ImageFile) (*PreviewHandle, error) {
	if file == nil {
		return nil, errors.New("no image to preview")
	}

	h := &PreviewHandle{ID: uuid.NewString(), FileName: file.Name}

	img, err := decodePreview(file.Data)
	if err != nil {
		m.log.DebugWithFields("preview decode failed", []logger.Field{
			logger.F("file", file.Name), logger.Error(err),
		})
		h.rendered = placeholder(file)
	} else {
		h.rendered, h.Width, h.Height = renderHalfBlocks(img, m.width)
	}

	m.mu.Lock()
	m.live[h.ID] = h
	m.acquired++
	m.mu.Unlock()

	m.log.DebugWithFields("preview acquired", []logger.Field{
		logger.F("handle", h.ID), logger.F("file", file.Name),
	})
	return h, nil
}

// Release revokes h. Releasing nil or an already released handle is a no-op.
func (m *PreviewManager) Release(h *PreviewHandle) {
	if h == nil || !h.revoke() {
		return
	}

	m.mu.Lock()
	delete(m.live, h.ID)
	m.released++
	m.mu.Unlock()

	m.log.DebugWithFields("preview released", []logger.Field{logger.F("handle", h.ID)})
}

// Live returns the number of handles not yet released
func (m *PreviewManager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Stats returns how many handles were acquired and released in total
func (m *PreviewManager) Stats() (acquired, released int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired, m.released
}

// decodePreview reads the image header first and refuses to decode images
// over MaxPreviewPixels.
func decodePreview(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPreviewPixels {
		return nil, fmt.Errorf("image %dx%d is too large to preview", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func placeholder(file *ImageFile) string {
	return fmt.Sprintf("[%s, %s, %d bytes, no preview]", file.Name, file.MimeType, file.Size())
}

// renderHalfBlocks scales img to fit a maxWidth square of pixels and packs
// two pixel rows into each text row using the upper half block.
func renderHalfBlocks(img image.Image, maxWidth int) (string, int, int) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", 0, 0
	}

	w := b.Dx()
	if w > maxWidth {
		w = maxWidth
	}
	h := b.Dy() * w / b.Dx()
	if h > maxWidth {
		h = maxWidth
		w = max(b.Dx()*h/b.Dy(), 1)
	}
	if h < 2 {
		h = 2
	}
	if h%2 == 1 {
		h++
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			cell := lipgloss.NewStyle().
				Foreground(hexColor(dst.RGBAAt(x, y))).
				Background(hexColor(dst.RGBAAt(x, y+1)))
			sb.WriteString(cell.Render("▀"))
		}
		if y+2 < h {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), w, h / 2
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
