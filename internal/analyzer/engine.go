package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yildizm/AIDetect/internal/logger"
)

// FallbackErrorMessage is shown when a failure carries no message
const FallbackErrorMessage = "an unexpected error occurred"

// Detector classifies a payload as AI-generated (true) or human-origin (false)
type Detector interface {
	DetectText(ctx context.Context, text string) (bool, error)
	DetectImage(ctx context.Context, data []byte, mimeType string) (bool, error)
}

// StalePolicy decides the fate of a completion that arrives after the
// session was reset by a mode switch, a text edit or a new file.
type StalePolicy string

const (
	// StaleDiscard drops outdated completions
	StaleDiscard StalePolicy = "discard"

	// StaleApply lets outdated completions overwrite the current status
	StaleApply StalePolicy = "apply"
)

// ParseStalePolicy accepts "discard", "apply" or "" (discard)
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch StalePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StaleDiscard:
		return StaleDiscard, nil
	case StaleApply:
		return StaleApply, nil
	default:
		return StaleDiscard, fmt.Errorf("unknown stale completion policy %q (want discard or apply)", s)
	}
}

var (
	errNoDetector = errors.New("no detection service configured")
	errUnexpected = errors.New(FallbackErrorMessage)
)

// Dispatch is one outstanding request to the Detector. It is created by
// Analyze, run once off the event loop and handed back through Settle.
type Dispatch struct {
	Generation uint64
	Mode       Mode

	text     string
	image    *ImageFile
	detector Detector
	log      *logger.Logger

	once    sync.Once
	outcome Outcome
}

// Outcome is the settled result of a Dispatch
type Outcome struct {
	Generation uint64
	Mode       Mode
	Verdict    bool
	Err        error
	Elapsed    time.Duration
}

// Run performs the single Detector call. Later calls return the first outcome.
func (d *Dispatch) Run(ctx context.Context) Outcome {
	d.once.Do(func() {
		d.outcome = d.run(ctx)
	})
	return d.outcome
}

func (d *Dispatch) run(ctx context.Context) (out Outcome) {
	out = Outcome{Generation: d.Generation, Mode: d.Mode}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("detector panicked: %v", r)
			out.Verdict, out.Err = false, errUnexpected
		}
		out.Elapsed = time.Since(start)
	}()

	if d.detector == nil {
		out.Err = errNoDetector
		return out
	}

	switch d.Mode {
	case ModeText:
		out.Verdict, out.Err = d.detector.DetectText(ctx, d.text)
	case ModeImage:
		out.Verdict, out.Err = d.detector.DetectImage(ctx, d.image.Data, d.image.MimeType)
	default:
		out.Err = fmt.Errorf("cannot analyze in %s", d.Mode)
	}
	return out
}

// Analyze validates the working input and, when valid, moves to Loading and
// returns the request to run. It returns nil when a request is already
// outstanding, when validation fails (the status becomes the validation
// error) or after Dispose.
func (s *Session) Analyze() *Dispatch {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}

	if s.inFlight != nil {
		s.log.DebugWithFields("analyze ignored, request outstanding", []logger.Field{
			logger.F("generation", s.inFlight.Generation),
		})
		s.mu.Unlock()
		return nil
	}

	if err := Validate(s.mode, s.input); err != nil {
		s.status = Failed(err.Error())
		s.log.DebugWithFields("input rejected", []logger.Field{logger.Mode(s.mode), logger.Error(err)})
		s.commit()
		return nil
	}

	s.generation++
	d := &Dispatch{
		Generation: s.generation,
		Mode:       s.mode,
		text:       s.input.Text,
		image:      s.input.Image,
		detector:   s.detector,
		log:        s.log,
	}
	s.inFlight = d
	s.status = Loading()

	s.log.DebugWithFields("dispatching", []logger.Field{logger.Mode(d.Mode), logger.F("generation", d.Generation)})
	s.commit()
	return d
}

// Settle applies the outcome of the outstanding request and reports whether
// it changed the status. Outcomes of a superseded generation are dropped
// under StaleDiscard and after Dispose.
func (s *Session) Settle(out Outcome) bool {
	s.mu.Lock()
	if s.inFlight == nil || s.inFlight.Generation != out.Generation {
		s.mu.Unlock()
		return false
	}
	s.inFlight = nil

	fields := []logger.Field{
		logger.Mode(out.Mode),
		logger.F("generation", out.Generation),
		logger.Duration(out.Elapsed),
	}

	if out.Generation != s.generation && (s.stale == StaleDiscard || s.disposed) {
		s.log.DebugWithFields("stale completion discarded", fields)
		s.commit()
		return false
	}

	if out.Err != nil {
		s.status = Failed(ErrorMessage(out.Err))
		s.log.WarnWithFields("analysis failed", append(fields, logger.Error(out.Err)))
	} else {
		s.status = Result(out.Verdict)
		s.log.InfoWithFields("analysis complete", append(fields, logger.F("ai_generated", out.Verdict)))
	}

	s.commit()
	return true
}

// AnalyzeSync runs Analyze, the request and Settle on the calling goroutine
func (s *Session) AnalyzeSync(ctx context.Context) Status {
	if d := s.Analyze(); d != nil {
		s.Settle(d.Run(ctx))
	}
	return s.Status()
}

type userMessager interface {
	UserMessage() string
}

// ErrorMessage picks the text shown for a failed request: the service's own
// message when it has one, the error text otherwise, else a generic fallback.
func ErrorMessage(err error) string {
	if err == nil {
		return FallbackErrorMessage
	}

	var um userMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackErrorMessage
}
