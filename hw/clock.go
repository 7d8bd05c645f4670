package hw

import (
	"errors"
	"sync"
	"time"
)

// PPS limits. The upper bound is the 16-bit PPS value; on the reference
// hardware the 16-bit compare register separately limits how slow a
// rate can be (see CompareValue).
const (
	MinPPS     = 1
	MaxPPS     = 65535
	DefaultPPS = 10000

	// ClockFreq is the reference MCU clock used for compare-value
	// calculation.
	ClockFreq = 16000000
)

var (
	// ErrZeroPPS is returned for a zero sample rate.
	ErrZeroPPS = errors.New("pps must be at least 1")

	// ErrCompareOverflow is returned when the timer compare value for
	// the requested rate does not fit the 16-bit compare register.
	ErrCompareOverflow = errors.New("timer compare value overflows 16 bits")
)

// CompareValue computes the compare-match register value for the given
// clock frequency and sample rate: clockFreq/pps - 1, no prescaling.
// Rates too slow for the 16-bit register fail setup rather than
// silently running fast.
func CompareValue(clockFreq uint32, pps uint16) (uint16, error) {
	if pps == 0 {
		return 0, ErrZeroPPS
	}
	v := clockFreq/uint32(pps) - 1
	if v > 0xFFFF {
		return 0, ErrCompareOverflow
	}
	return uint16(v), nil
}

// TickFunc is the sample-clock callback. It runs on the clock's own
// goroutine at the configured rate and must follow interrupt
// discipline: return promptly, never block, never call back into the
// renderer's foreground API.
type TickFunc func()

// SampleClock is the host rendition of the compare-match timer: a
// goroutine firing the tick callback at PPS. Ticks that fall behind are
// dropped, not bunched, matching a hardware timer's behaviour.
type SampleClock struct {
	mu     sync.Mutex
	tick   TickFunc
	pps    uint16
	stop   chan struct{}
	donewg sync.WaitGroup
}

// NewSampleClock returns a stopped clock that will invoke tick at every
// sample period.
func NewSampleClock(tick TickFunc) *SampleClock {
	return &SampleClock{tick: tick, pps: DefaultPPS}
}

// Start begins ticking at the given rate. Starting a running clock
// restarts it at the new rate.
func (c *SampleClock) Start(pps uint16) error {
	if pps < MinPPS {
		return ErrZeroPPS
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.pps = pps
	c.stop = make(chan struct{})
	c.donewg.Add(1)

	period := time.Second / time.Duration(pps)
	stop := c.stop
	go c.run(period, stop)
	return nil
}

func (c *SampleClock) run(period time.Duration, stop chan struct{}) {
	defer c.donewg.Done()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// SetPPS changes the sample rate. A running clock restarts at the new
// rate; a stopped clock just records it.
func (c *SampleClock) SetPPS(pps uint16) error {
	if pps < MinPPS {
		return ErrZeroPPS
	}

	c.mu.Lock()
	running := c.stop != nil
	c.pps = pps
	c.mu.Unlock()

	if running {
		return c.Start(pps)
	}
	return nil
}

// PPS returns the configured sample rate.
func (c *SampleClock) PPS() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pps
}

// Stop halts ticking and waits for the clock goroutine to exit. After
// Stop returns the consumer is quiescent.
func (c *SampleClock) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
}

func (c *SampleClock) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.donewg.Wait()
}
