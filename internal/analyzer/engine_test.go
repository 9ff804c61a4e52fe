package analyzer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/AIDetect/internal/ai"
)

func TestAnalyze_TextVerdict(t *testing.T) {
	det := &stubDetector{verdict: true}
	s := NewSession(det)

	require.NoError(t, s.UpdateText("Hello world"))
	assert.Equal(t, Result(true), s.AnalyzeSync(context.Background()))
	assert.Equal(t, 1, det.textCalls)
	assert.Equal(t, "Hello world", det.lastText)
	assert.False(t, s.Snapshot().InFlight)
}

func TestAnalyze_WhitespaceTextNeverDispatches(t *testing.T) {
	det := &stubDetector{verdict: true}
	s := NewSession(det)

	require.NoError(t, s.UpdateText("   "))
	assert.Nil(t, s.Analyze())
	assert.Equal(t, Failed("no text provided"), s.Status())
	assert.Zero(t, det.calls())
}

func TestAnalyze_MissingImageNeverDispatches(t *testing.T) {
	det := &stubDetector{verdict: true}
	s := NewSession(det)
	s.SetMode(ModeImage)

	assert.Nil(t, s.Analyze())
	assert.Equal(t, Failed("no image provided"), s.Status())
	assert.Zero(t, det.calls())
}

func TestAnalyze_ImageServiceError(t *testing.T) {
	det := &stubDetector{err: errors.New("quota exceeded")}
	s := NewSession(det)
	s.SetMode(ModeImage)

	file := testImage(t, "photo.png")
	require.NoError(t, s.SelectFile(file))

	assert.Equal(t, Failed("quota exceeded"), s.AnalyzeSync(context.Background()))
	assert.Equal(t, 1, det.imageCalls)
	assert.Equal(t, "image/png", det.lastMime)
	assert.Equal(t, file.Data, det.lastData)
	assert.False(t, s.Snapshot().InFlight)
}

func TestAnalyze_SingleFlight(t *testing.T) {
	det := &stubDetector{verdict: false}
	s := NewSession(det)
	require.NoError(t, s.UpdateText("an essay"))

	first := s.Analyze()
	require.NotNil(t, first)
	assert.Equal(t, Loading(), s.Status())

	assert.Nil(t, s.Analyze(), "second call while loading is ignored")
	assert.Nil(t, s.Analyze())

	assert.True(t, s.Settle(first.Run(context.Background())))
	assert.Equal(t, 1, det.calls())
	assert.Equal(t, Result(false), s.Status())

	// once settled the user may analyze again
	again := s.Analyze()
	require.NotNil(t, again)
	s.Settle(again.Run(context.Background()))
	assert.Equal(t, 2, det.calls())
}

func TestAnalyze_SingleFlightWhileRunning(t *testing.T) {
	det := &stubDetector{verdict: true, gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	s := NewSession(det)
	require.NoError(t, s.UpdateText("an essay"))

	d := s.Analyze()
	require.NotNil(t, d)

	done := make(chan Outcome)
	go func() { done <- d.Run(context.Background()) }()
	<-det.entered

	assert.Nil(t, s.Analyze())
	assert.Equal(t, Loading(), s.Status())

	close(det.gate)
	s.Settle(<-done)

	assert.Equal(t, 1, det.calls())
	assert.Equal(t, Result(true), s.Status())
}

func TestDispatch_RunOnce(t *testing.T) {
	det := &stubDetector{verdict: true}
	s := NewSession(det)
	require.NoError(t, s.UpdateText("x"))

	d := s.Analyze()
	require.NotNil(t, d)

	first := d.Run(context.Background())
	second := d.Run(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, det.calls())

	assert.True(t, s.Settle(first))
	assert.False(t, s.Settle(second), "an outcome settles once")
}

func TestSettle_StaleDiscard(t *testing.T) {
	det := &stubDetector{verdict: true}
	s := NewSession(det)
	require.NoError(t, s.UpdateText("Hello world"))

	d := s.Analyze()
	require.NotNil(t, d)

	s.SetMode(ModeImage)
	assert.Equal(t, Idle(), s.Status())
	assert.True(t, s.Snapshot().InFlight, "the request is still outstanding")
	assert.Nil(t, s.Analyze(), "single-flight holds across a reset")

	assert.False(t, s.Settle(d.Run(context.Background())))
	assert.Equal(t, Idle(), s.Status())
	assert.False(t, s.Snapshot().InFlight)
}

func TestSettle_StaleApply(t *testing.T) {
	det := &stubDetector{verdict: true}
	s := NewSession(det, WithStalePolicy(StaleApply))
	require.NoError(t, s.UpdateText("Hello world"))

	d := s.Analyze()
	require.NotNil(t, d)

	require.NoError(t, s.UpdateText("edited"))
	assert.Equal(t, Idle(), s.Status())

	assert.True(t, s.Settle(d.Run(context.Background())))
	assert.Equal(t, Result(true), s.Status(), "stale completion overwrites the reset state")
}

func TestSettle_AfterDispose(t *testing.T) {
	s := NewSession(&stubDetector{verdict: true}, WithStalePolicy(StaleApply))
	require.NoError(t, s.UpdateText("Hello world"))

	d := s.Analyze()
	require.NotNil(t, d)
	s.Dispose()

	assert.False(t, s.Settle(d.Run(context.Background())))
	assert.Equal(t, Idle(), s.Status())
}

func TestAnalyze_LoadingAlwaysEnds(t *testing.T) {
	tests := []struct {
		name string
		det  Detector
		want Status
	}{
		{name: "panic", det: &stubDetector{panics: true}, want: Failed(FallbackErrorMessage)},
		{name: "empty error", det: &stubDetector{err: errors.New("  ")}, want: Failed(FallbackErrorMessage)},
		{name: "no detector", det: nil, want: Failed("no detection service configured")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(tt.det)
			require.NoError(t, s.UpdateText("text"))

			assert.Equal(t, tt.want, s.AnalyzeSync(context.Background()))
			assert.False(t, s.Snapshot().InFlight)
		})
	}
}

type blankMessage struct{}

func (blankMessage) Error() string       { return "internal detail" }
func (blankMessage) UserMessage() string { return "" }

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: FallbackErrorMessage},
		{name: "plain", err: errors.New("quota exceeded"), want: "quota exceeded"},
		{name: "provider message", err: ai.NewHTTPError(ai.ErrTypeAuthentication, 403, "API key not valid", "gemini"), want: "API key not valid"},
		{name: "wrapped provider", err: fmt.Errorf("detect: %w", ai.NewHTTPError(ai.ErrTypeQuota, 429, "quota exceeded", "gemini")), want: "quota exceeded"},
		{name: "rate limit", err: ai.NewRateLimitError("openai", 5), want: "rate limit exceeded, try again in 5 seconds"},
		{name: "blank user message", err: blankMessage{}, want: "internal detail"},
		{name: "empty", err: errors.New(""), want: FallbackErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestParseStalePolicy(t *testing.T) {
	p, err := ParseStalePolicy("")
	require.NoError(t, err)
	assert.Equal(t, StaleDiscard, p)

	p, err = ParseStalePolicy("APPLY")
	require.NoError(t, err)
	assert.Equal(t, StaleApply, p)

	_, err = ParseStalePolicy("sometimes")
	assert.Error(t, err)
}
