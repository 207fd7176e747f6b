package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Purger is implemented by caches that can drop stale entries.
type Purger interface {
	Purge() int
}

// Janitor sweeps registered caches on an interval.
type Janitor struct {
	caches []Purger
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewJanitor() *Janitor {
	return &Janitor{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the sweep set. Not safe to call after Start.
func (j *Janitor) Register(c Purger) {
	j.caches = append(j.caches, c)
}

// Start launches the sweep loop. Stop it with Stop.
func (j *Janitor) Start(interval time.Duration) {
	go j.run(interval)
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			purged := 0
			for _, c := range j.caches {
				purged += c.Purge()
			}
			if purged > 0 {
				slog.Debug("Purged stale summary cache entries", "count", purged)
			}
		case <-j.stop:
			return
		}
	}
}

// Stop halts the sweep loop and waits for it to exit.
func (j *Janitor) Stop() {
	j.once.Do(func() {
		close(j.stop)
		<-j.done
	})
}
