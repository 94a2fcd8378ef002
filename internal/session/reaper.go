package session

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Reaper runs MemoryStore.Reap on a cron schedule.
type Reaper struct {
	cron  *cron.Cron
	store *MemoryStore
}

// NewReaper schedules reaping per the cron spec (e.g. "@every 5m").
func NewReaper(store *MemoryStore, spec string, logger *slog.Logger) (*Reaper, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := store.Reap(); n > 0 {
			logger.Debug("reaper pass complete", "reaped", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reaper schedule %q: %w", spec, err)
	}
	return &Reaper{cron: c, store: store}, nil
}

// Start begins the schedule in its own goroutine.
func (r *Reaper) Start() { r.cron.Start() }

// Stop halts the schedule; running passes finish.
func (r *Reaper) Stop() { r.cron.Stop() }
