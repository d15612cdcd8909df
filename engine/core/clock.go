package core

import "time"

// Clock measures elapsed wall time for the frame loop. A zero Clock is
// stopped; Start must be called before Elapsed returns anything useful.
type Clock struct {
	startTime time.Time
	elapsed   time.Duration
}

func NewClock() *Clock {
	return &Clock{}
}

// Update refreshes the elapsed time. Should be called just before checking
// elapsed time. Has no effect on non-started clocks.
func (c *Clock) Update() {
	if !c.startTime.IsZero() {
		c.elapsed = time.Since(c.startTime)
	}
}

// Start resets elapsed time and begins counting.
func (c *Clock) Start() {
	c.startTime = time.Now()
	c.elapsed = 0
}

// Stop halts the clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = time.Time{}
}

func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// ElapsedSeconds is a convenience for frame-delta math.
func (c *Clock) ElapsedSeconds() float64 {
	return c.elapsed.Seconds()
}
