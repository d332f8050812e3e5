package agent

import (
	"runtime"
	"time"
)

// spinWindow is the final slice of each wait that is spun rather than slept.
// Coarse sleeps routinely overshoot by scheduler quanta; yielding through
// the last stretch buys sub-millisecond wakeup precision at the cost of a
// little CPU.
const spinWindow = 100 * time.Microsecond

// pacer produces wake-ups close to exact multiples of a period. The deadline
// is absolute and advanced by the period each Wait, so processing jitter
// inside a tick does not accumulate into drift. When a tick overruns its
// period the pacer does not sleep at all and the loop naturally catches up.
type pacer struct {
	next time.Time
}

func newPacer(now time.Time) *pacer {
	return &pacer{next: now}
}

// Wait blocks until the next deadline, then advances it by interval.
// The interval may differ between calls; a rate change simply shortens or
// stretches the next period.
func (p *pacer) Wait(interval time.Duration) {
	p.next = p.next.Add(interval)

	remaining := time.Until(p.next)
	if remaining > spinWindow {
		time.Sleep(remaining - spinWindow/2)
	}
	for time.Now().Before(p.next) {
		runtime.Gosched()
	}
}
