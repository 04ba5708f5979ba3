// Package events implements the event counter of spec §4.10: per-group
// occurrence counts accumulated before and after an index event.
package events

import "github.com/cardionet/acsdex/pkg/codes"

// Counter accumulates per-group occurrence counts into two independent
// maps, before and after an index date. Counting is by occurrence: the
// same group arising from multiple codes across multiple spells
// increments multiple times (spec §4.10).
type Counter struct {
	before map[codes.Group]int
	after  map[codes.Group]int
}

// NewCounter builds an empty Counter.
func NewCounter() *Counter {
	return &Counter{
		before: make(map[codes.Group]int),
		after:  make(map[codes.Group]int),
	}
}

// PushBefore increments group's before-window count.
func (c *Counter) PushBefore(group codes.Group) { c.before[group]++ }

// PushAfter increments group's after-window count.
func (c *Counter) PushAfter(group codes.Group) { c.after[group]++ }

// CountsBefore returns the accumulated before-window counts.
func (c *Counter) CountsBefore() map[codes.Group]int { return c.before }

// CountsAfter returns the accumulated after-window counts.
func (c *Counter) CountsAfter() map[codes.Group]int { return c.after }
