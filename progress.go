package bandstrip

import "sync"

// ProgressFunc receives pipeline completion in percent.
type ProgressFunc func(percent int)

// progressTracker forwards only increasing percentages, so callers see a
// monotonic signal even when bands finish concurrently.
type progressTracker struct {
	mu   sync.Mutex
	last int
	emit ProgressFunc
}

func newProgressTracker(emit ProgressFunc) *progressTracker {
	return &progressTracker{emit: emit}
}

func (p *progressTracker) set(percent int) {
	percent = clampInt(percent, 0, 100)
	p.mu.Lock()
	defer p.mu.Unlock()
	if percent <= p.last {
		return
	}
	p.last = percent
	if p.emit != nil {
		p.emit(percent)
	}
}

// span maps done/total onto [from, to].
func (p *progressTracker) span(from, to, done, total int) {
	if total <= 0 {
		return
	}
	p.set(from + (to-from)*done/total)
}

// reset signals non-completion after a failure.
func (p *progressTracker) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = 0
	if p.emit != nil {
		p.emit(0)
	}
}
