package agent

import (
	"fmt"
	"sync/atomic"
	"time"
)

// rateCell is the one piece of control state shared between the command
// processor (writer) and the sampler (reader). Reads and writes are atomic
// but not transactional: the sampler may finish one more tick at the old
// rate before observing a change, which is within contract.
type rateCell struct {
	hz atomic.Int64
}

func newRateCell(hz int) *rateCell {
	c := &rateCell{}
	c.hz.Store(int64(hz))
	return c
}

// Hz returns the current sample rate.
func (c *rateCell) Hz() int {
	return int(c.hz.Load())
}

// Interval returns the sampling period derived from the current rate.
func (c *rateCell) Interval() time.Duration {
	return time.Second / time.Duration(c.hz.Load())
}

// Set applies a new rate after bounds checking. On a rejected value the
// active rate is left unchanged.
func (c *rateCell) Set(hz int) error {
	if hz < MinSampleRateHz || hz > MaxSampleRateHz {
		return fmt.Errorf("invalid rate (must be %d-%d Hz)", MinSampleRateHz, MaxSampleRateHz)
	}
	c.hz.Store(int64(hz))
	return nil
}
