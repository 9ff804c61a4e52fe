package monitor

import (
	"math"
	"sync/atomic"
	"time"
)

// Counter is a thread-safe monotonically increasing count
type Counter struct {
	value atomic.Int64
	name  string
}

// NewCounter creates a new counter metric
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	c.value.Add(1)
}

// Get returns the current counter value
func (c *Counter) Get() int64 {
	return c.value.Load()
}

// Name returns the counter name
func (c *Counter) Name() string {
	return c.name
}

const noMin = math.MaxInt64

// Timer records call durations and keeps count, total, min and max
type Timer struct {
	count atomic.Int64
	total atomic.Int64
	min   atomic.Int64
	max   atomic.Int64
	name  string
}

// NewTimer creates a new timer metric
func NewTimer(name string) *Timer {
	t := &Timer{name: name}
	t.min.Store(noMin)
	return t
}

// Record records a duration measurement
func (t *Timer) Record(d time.Duration) {
	nanos := d.Nanoseconds()
	t.count.Add(1)
	t.total.Add(nanos)

	for {
		current := t.min.Load()
		if nanos >= current || t.min.CompareAndSwap(current, nanos) {
			break
		}
	}
	for {
		current := t.max.Load()
		if nanos <= current || t.max.CompareAndSwap(current, nanos) {
			break
		}
	}
}

// Count returns the number of recorded measurements
func (t *Timer) Count() int64 {
	return t.count.Load()
}

// MinTime returns the shortest recorded duration, 0 when nothing was recorded
func (t *Timer) MinTime() time.Duration {
	v := t.min.Load()
	if v == noMin {
		return 0
	}
	return time.Duration(v)
}

// MaxTime returns the longest recorded duration
func (t *Timer) MaxTime() time.Duration {
	return time.Duration(t.max.Load())
}

// AvgTime returns the mean duration
func (t *Timer) AvgTime() time.Duration {
	n := t.count.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(t.total.Load() / n)
}

// Name returns the timer name
func (t *Timer) Name() string {
	return t.name
}
