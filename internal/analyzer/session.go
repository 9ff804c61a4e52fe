package analyzer

import (
	"errors"
	"sync"

	"github.com/yildizm/AIDetect/internal/logger"
)

var (
	// ErrWrongMode is returned by input events that do not belong to the active mode
	ErrWrongMode = errors.New("operation not valid in the current mode")

	// ErrDisposed is returned once the session has been torn down
	ErrDisposed = errors.New("session disposed")
)

// Snapshot is a consistent copy of the session state for rendering
type Snapshot struct {
	Mode     Mode
	Text     string
	Image    *ImageFile
	Preview  *PreviewHandle
	Status   Status
	InFlight bool
}

// Session is the per-user analysis state container. Every mutation goes
// through its methods; observers are told about changes through OnChange.
type Session struct {
	mu       sync.Mutex
	detector Detector
	previews *PreviewManager
	stale    StalePolicy
	log      *logger.Logger
	onChange func(Snapshot)

	mode       Mode
	input      WorkingInput
	status     Status
	generation uint64
	inFlight   *Dispatch
	disposed   bool
}

// Option configures a Session
type Option func(*Session)

// WithStalePolicy selects what happens to completions that arrive after a reset
func WithStalePolicy(policy StalePolicy) Option {
	return func(s *Session) {
		s.stale = policy
	}
}

// WithPreviewManager shares a preview manager, mostly useful in tests
func WithPreviewManager(m *PreviewManager) Option {
	return func(s *Session) {
		s.previews = m
	}
}

// WithLogger sets the session logger
func WithLogger(log *logger.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// WithOnChange registers the change observer
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// NewSession starts in text mode with empty input and an idle status
func NewSession(detector Detector, opts ...Option) *Session {
	s := &Session{
		detector: detector,
		stale:    StaleDiscard,
		mode:     ModeText,
		status:   Idle(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Nop("session")
	}
	if s.previews == nil {
		s.previews = NewPreviewManager(DefaultPreviewWidth, s.log.WithComponent("preview"))
	}

	return s
}

// OnChange replaces the change observer. fn runs outside the session lock.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetMode switches the analysis target. A real switch releases the preview,
// clears the input and resets the status; selecting the active mode does nothing.
func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	if s.disposed || mode == s.mode {
		s.mu.Unlock()
		return
	}

	s.previews.Release(s.input.Preview)
	s.input = WorkingInput{}
	s.resetLocked()
	s.mode = mode

	s.log.DebugWithFields("mode changed", []logger.Field{logger.Mode(mode)})
	s.commit()
}

// UpdateText replaces the text input and resets the status
func (s *Session) UpdateText(text string) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	if s.mode != ModeText {
		s.mu.Unlock()
		return ErrWrongMode
	}

	s.input.Text = text
	s.resetLocked()
	s.commit()
	return nil
}

// SelectFile makes file the image input. The new preview is acquired before
// the previous one is released, so there is never more than one live handle
// for the session once this returns.
func (s *Session) SelectFile(file *ImageFile) error {
	if file == nil {
		return errors.New("no file selected")
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	if s.mode != ModeImage {
		s.mu.Unlock()
		return ErrWrongMode
	}

	preview, err := s.previews.Acquire(file)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	previous := s.input.Preview
	s.input.Image = file
	s.input.Preview = preview
	s.previews.Release(previous)
	s.resetLocked()

	s.log.DebugWithFields("file selected", []logger.Field{
		logger.F("file", file.Name),
		logger.F("mime", file.MimeType),
		logger.F("bytes", file.Size()),
	})
	s.commit()
	return nil
}

// Dispose releases the live preview and stops accepting events. An outstanding
// request still settles but its outcome is dropped.
func (s *Session) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}

	s.previews.Release(s.input.Preview)
	s.input = WorkingInput{}
	s.resetLocked()
	s.disposed = true

	s.log.Debug("session disposed")
	s.commit()
}

// Mode returns the active mode
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Status returns the current analysis status
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot returns a copy of the whole session state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Previews exposes the preview manager
func (s *Session) Previews() *PreviewManager {
	return s.previews
}

// resetLocked returns the status to Idle and moves to a new generation so
// any outstanding request becomes stale.
func (s *Session) resetLocked() {
	s.status = Idle()
	s.generation++
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Mode:     s.mode,
		Text:     s.input.Text,
		Image:    s.input.Image,
		Preview:  s.input.Preview,
		Status:   s.status,
		InFlight: s.inFlight != nil,
	}
}

// commit unlocks the session and notifies the observer
func (s *Session) commit() {
	snap := s.snapshotLocked()
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}
