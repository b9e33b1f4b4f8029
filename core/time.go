package core

import (
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) *Time {
	var interval time.Duration
	if cfg.FramesPerSecond <= 0 {
		interval = time.Nanosecond
	} else {
		interval = time.Second / (time.Duration)(cfg.FramesPerSecond)
	}

	return &Time{
		fps:       cfg.FramesPerSecond,
		interval:  interval,
		fpsTicker: time.NewTicker(interval),
		start:     time.Now(),
	}
}

// Time contains the frame ticker and the clock examples animate with
type Time struct {
	fps       int
	interval  time.Duration
	fpsTicker *time.Ticker
	start     time.Time
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// Interval is the time between two frames
func (t *Time) Interval() time.Duration {
	return t.interval
}

// FpsTicker gets the initialized fps ticker
func (t *Time) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// Elapsed is the time since the service was created
func (t *Time) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop stops the ticker
func (t *Time) Stop() {
	t.fpsTicker.Stop()
}
