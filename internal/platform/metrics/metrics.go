package metrics

import (
	"sync/atomic"
	"time"
)

// Collector counts request outcomes with atomics; cheap enough to sit in
// the hot path of every request.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	authFailures    uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	if status == 401 || status == 403 {
		atomic.AddUint64(&c.authFailures, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal": atomic.LoadUint64(&c.rateLimited),
		"authFailures":     atomic.LoadUint64(&c.authFailures),
		"avgDurationMs":    avg,
	}
}
