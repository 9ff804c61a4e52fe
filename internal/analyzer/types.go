// Package analyzer holds the analysis session: the active input mode, the
// working input, the preview of a selected image and the single-flight
// request state machine that turns a Detector verdict into a Status.
package analyzer

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Mode is the active analysis target
type Mode int

const (
	ModeText Mode = iota
	ModeImage
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeImage:
		return "image"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Label is the tab caption for the mode
func (m Mode) Label() string {
	if m == ModeImage {
		return "Analyze Image"
	}
	return "Analyze Text"
}

// ParseMode accepts "text" or "image"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText, nil
	case "image":
		return ModeImage, nil
	default:
		return ModeText, fmt.Errorf("unknown mode %q", s)
	}
}

// StatusKind enumerates the analysis states
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusResult
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusResult:
		return "result"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is the observable analysis state. Verdict is meaningful only for
// StatusResult and Message only for StatusError.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Verdict bool       `json:"verdict,omitempty"`
	Message string     `json:"message,omitempty"`
}

func Idle() Status                 { return Status{Kind: StatusIdle} }
func Loading() Status              { return Status{Kind: StatusLoading} }
func Result(verdict bool) Status   { return Status{Kind: StatusResult, Verdict: verdict} }
func Failed(message string) Status { return Status{Kind: StatusError, Message: message} }

func (s Status) String() string {
	switch s.Kind {
	case StatusResult:
		return fmt.Sprintf("result(%t)", s.Verdict)
	case StatusError:
		return fmt.Sprintf("error(%s)", s.Message)
	default:
		return s.Kind.String()
	}
}

// MaxImageBytes is the largest image accepted at selection time
const MaxImageBytes = 4 << 20

var (
	ErrImageTooLarge    = errors.New("image is larger than the allowed size")
	ErrUnsupportedImage = errors.New("unsupported image type, use PNG, JPG or WEBP")
)

// ImageFile is a selected image and its raw bytes
type ImageFile struct {
	Name     string
	Path     string
	MimeType string
	Data     []byte
}

// Size returns the payload length in bytes
func (f *ImageFile) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// LoadImageFile reads path and checks it against the MIME whitelist and
// maxBytes (MaxImageBytes when maxBytes <= 0).
func LoadImageFile(path string, maxBytes int64) (*ImageFile, error) {
	if maxBytes <= 0 {
		maxBytes = MaxImageBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrImageTooLarge, filepath.Base(path), info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	file, err := NewImageFile(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	file.Path = path
	return file, nil
}

// NewImageFile wraps in-memory bytes, sniffing the MIME type from content and
// falling back to the file extension.
func NewImageFile(name string, data []byte) (*ImageFile, error) {
	mimeType := DetectImageType(name, data)
	if mimeType == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, name)
	}
	return &ImageFile{Name: name, MimeType: mimeType, Data: data}, nil
}

// DetectImageType returns one of image/png, image/jpeg, image/webp or ""
func DetectImageType(name string, data []byte) string {
	if len(data) > 0 {
		ct := http.DetectContentType(data)
		if isWhitelisted(ct) {
			return ct
		}
		// only unrecognised content may fall back to the extension
		if ct != "application/octet-stream" {
			return ""
		}
	}

	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	if isWhitelisted(ct) {
		return ct
	}
	return ""
}

func isWhitelisted(mimeType string) bool {
	switch mimeType {
	case "image/png", "image/jpeg", "image/webp":
		return true
	}
	return false
}
