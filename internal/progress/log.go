package progress

import (
	"log/slog"
	"sync"
	"time"
)

// Log reports progress as slog records, one per crossed step.
type Log struct {
	logger *slog.Logger
	step   float64

	mu      sync.Mutex
	total   int
	done    int
	next    float64
	started time.Time
}

// NewLog reports every step fraction of the total, e.g. 0.1 for every 10%.
// A non-positive step defaults to 0.1.
func NewLog(logger *slog.Logger, step float64) *Log {
	if step <= 0 || step > 1 {
		step = 0.1
	}
	return &Log{logger: logger, step: step}
}

func (l *Log) Start(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.total = total
	l.done = 0
	l.next = l.step
	l.started = time.Now()
}

func (l *Log) Advance(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.total <= 0 {
		return
	}
	l.done += n
	f := float64(l.done) / float64(l.total)
	if f+1e-9 < l.next {
		return
	}
	for l.next <= f+1e-9 {
		l.next += l.step
	}
	l.logger.Info("render progress",
		"done", l.done, "total", l.total,
		"percent", int(f*100+0.5))
}

func (l *Log) Finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Debug("render progress finished",
		"done", l.done, "total", l.total,
		"elapsed", time.Since(l.started))
}
