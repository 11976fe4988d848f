package tally

import (
	"sync"

	"fishdetector/internal/model"
)

// Counter is the run-wide side tally shared by all analysis workers.
type Counter struct {
	mu    sync.Mutex
	tally model.Tally
}

func NewCounter() *Counter {
	return &Counter{}
}

// Record adds one frame to the given side. SideNone is ignored.
func (c *Counter) Record(side model.Side) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch side {
	case model.SideLeft:
		c.tally.Left++
	case model.SideRight:
		c.tally.Right++
	}
}

// Snapshot returns a copy of the current counts.
func (c *Counter) Snapshot() model.Tally {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tally
}
