// Package timing provides the monotonic timer behind call tracking,
// including calibration of the time source's own per-read cost and a
// registry of in-flight timers so nested instrumented calls account
// independently.
package timing

import "time"

// CalibrationSamples is the default number of clock reads used to
// estimate the mean cost of one read.
const CalibrationSamples = 50000

// Clock reads monotonic time and optionally discounts its own
// measurement overhead. The zero overhead value means no discounting.
type Clock struct {
	now      func() time.Time
	overhead time.Duration
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockFunc creates a clock backed by a caller-supplied time source.
// Tests use this to make elapsed time deterministic.
func NewClockFunc(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current monotonic reading. Successive readings never
// decrease within a process.
func (c *Clock) Now() time.Time {
	return c.now()
}

// Calibrate estimates the mean cost of a single clock read by sampling
// the time source n times, stores it as the overhead to discount, and
// returns it. n <= 0 falls back to CalibrationSamples.
func (c *Clock) Calibrate(n int) time.Duration {
	if n <= 0 {
		n = CalibrationSamples
	}
	start := c.now()
	for i := 0; i < n; i++ {
		_ = c.now()
	}
	elapsed := c.now().Sub(start)
	c.overhead = elapsed / time.Duration(n)
	return c.overhead
}

// SetOverhead installs a previously calibrated mean.
func (c *Clock) SetOverhead(d time.Duration) {
	c.overhead = d
}

// Overhead returns the calibrated mean, or zero when overhead
// reduction is off.
func (c *Clock) Overhead() time.Duration {
	return c.overhead
}

// DisableOverhead turns overhead discounting off.
func (c *Clock) DisableOverhead() {
	c.overhead = 0
}

type span struct {
	start    time.Time
	discount int
}

// Registry tracks in-flight timers by id. Each registered timer keeps
// its own start reading plus a count of clock reads performed by other
// instrumentation bookkeeping while it was open, so a returning call
// computes only its own interval.
type Registry struct {
	clock    *Clock
	next     uint64
	inflight map[uint64]*span
}

func NewRegistry(clock *Clock) *Registry {
	return &Registry{
		clock:    clock,
		inflight: make(map[uint64]*span),
	}
}

// Register opens a new timer and returns its id. Ids are never zero.
func (r *Registry) Register() uint64 {
	r.next++
	r.inflight[r.next] = &span{start: r.clock.Now()}
	return r.next
}

// Discount records n clock reads performed by instrumentation
// bookkeeping against every open timer.
func (r *Registry) Discount(n int) {
	if r.clock.overhead == 0 {
		return
	}
	for _, s := range r.inflight {
		s.discount += n
	}
}

// TimeAndRemove closes the timer and returns its elapsed time, minus
// the calibrated clock overhead for its own two reads and for every
// discounted bookkeeping read. The subtraction can drive the result
// slightly negative for extremely short intervals; the value is
// returned as-is since clamping would skew aggregate statistics.
func (r *Registry) TimeAndRemove(id uint64) time.Duration {
	s, ok := r.inflight[id]
	if !ok {
		return 0
	}
	delete(r.inflight, id)
	elapsed := r.clock.Now().Sub(s.start)
	if r.clock.overhead > 0 {
		elapsed -= r.clock.overhead * time.Duration(s.discount+2)
	}
	return elapsed
}

// Open reports how many timers are currently in flight.
func (r *Registry) Open() int {
	return len(r.inflight)
}
