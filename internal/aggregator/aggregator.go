package aggregator

import (
	"sync"

	"github.com/atikulmunna/logtally/internal/model"
)

// Stats holds a point-in-time snapshot of the counters.
// Other lines are not tracked; see Stats.Other.
type Stats struct {
	Info      int64 `json:"info"`
	Warn      int64 `json:"warn"`
	Error     int64 `json:"error"`
	Processed int64 `json:"processed"`
}

// Other returns the number of processed lines that fell in no tracked category.
func (s Stats) Other() int64 {
	return s.Processed - (s.Info + s.Warn + s.Error)
}

// counter is an integer guarded by its own lock, so increments of different
// categories never contend with each other.
type counter struct {
	mu sync.Mutex
	n  int64
}

func (c *counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) load() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Counters is the set of tallies shared by every worker in a run.
type Counters struct {
	info      counter
	warn      counter
	error     counter
	processed counter
}

// New returns a zeroed counter set.
func New() *Counters {
	return &Counters{}
}

func (c *Counters) IncInfo()  { c.info.inc() }
func (c *Counters) IncWarn()  { c.warn.inc() }
func (c *Counters) IncError() { c.error.inc() }
func (c *Counters) IncTotal() { c.processed.inc() }

// Record counts one processed line of the given category.
func (c *Counters) Record(cat model.Category) {
	switch cat {
	case model.Info:
		c.IncInfo()
	case model.Warn:
		c.IncWarn()
	case model.Error:
		c.IncError()
	}
	c.IncTotal()
}

// Snapshot returns the current values. While workers are still running the
// result is only a transient view; after they have all stopped it is final.
func (c *Counters) Snapshot() Stats {
	return Stats{
		Info:      c.info.load(),
		Warn:      c.warn.load(),
		Error:     c.error.load(),
		Processed: c.processed.load(),
	}
}
