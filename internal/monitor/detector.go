package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/AIDetect/internal/analyzer"
)

// Detector wraps a detection service and records every call it forwards
type Detector struct {
	next analyzer.Detector

	requests *Counter
	ai       *Counter
	human    *Counter
	failures *Counter
	latency  *Timer
}

// Instrument returns next wrapped with call metrics
func Instrument(next analyzer.Detector) *Detector {
	return &Detector{
		next:     next,
		requests: NewCounter("requests"),
		ai:       NewCounter("verdict_ai"),
		human:    NewCounter("verdict_human"),
		failures: NewCounter("failures"),
		latency:  NewTimer("latency"),
	}
}

func (d *Detector) DetectText(ctx context.Context, text string) (bool, error) {
	start := time.Now()
	verdict, err := d.next.DetectText(ctx, text)
	d.observe(start, verdict, err)
	return verdict, err
}

func (d *Detector) DetectImage(ctx context.Context, data []byte, mimeType string) (bool, error) {
	start := time.Now()
	verdict, err := d.next.DetectImage(ctx, data, mimeType)
	d.observe(start, verdict, err)
	return verdict, err
}

func (d *Detector) observe(start time.Time, verdict bool, err error) {
	d.requests.Inc()
	d.latency.Record(time.Since(start))

	switch {
	case err != nil:
		d.failures.Inc()
	case verdict:
		d.ai.Inc()
	default:
		d.human.Inc()
	}
}

// Stats is a point-in-time copy of the recorded metrics
type Stats struct {
	Requests   int64         `json:"requests"`
	AI         int64         `json:"ai_generated"`
	Human      int64         `json:"human"`
	Failures   int64         `json:"failures"`
	MinLatency time.Duration `json:"min_latency_ns"`
	AvgLatency time.Duration `json:"avg_latency_ns"`
	MaxLatency time.Duration `json:"max_latency_ns"`
}

// Stats returns the metrics recorded so far
func (d *Detector) Stats() Stats {
	return Stats{
		Requests:   d.requests.Get(),
		AI:         d.ai.Get(),
		Human:      d.human.Get(),
		Failures:   d.failures.Get(),
		MinLatency: d.latency.MinTime(),
		AvgLatency: d.latency.AvgTime(),
		MaxLatency: d.latency.MaxTime(),
	}
}

// String renders a one-line summary
func (s Stats) String() string {
	if s.Requests == 0 {
		return "no requests sent"
	}

	parts := []string{
		fmt.Sprintf("%d %s", s.Requests, plural(s.Requests, "request", "requests")),
		fmt.Sprintf("%d AI", s.AI),
		fmt.Sprintf("%d human", s.Human),
	}
	if s.Failures > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failures))
	}

	return fmt.Sprintf("%s; latency min %s avg %s max %s",
		strings.Join(parts, ", "),
		round(s.MinLatency), round(s.AvgLatency), round(s.MaxLatency))
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func round(d time.Duration) time.Duration {
	if d >= time.Second {
		return d.Round(10 * time.Millisecond)
	}
	return d.Round(time.Millisecond)
}
