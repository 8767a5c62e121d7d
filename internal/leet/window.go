// Package leet implements the game core: the one-minute window oracle, the
// message classifier and winner selection. It owns no I/O; the daemon wires
// it to the store, the scheduler and the transport.
package leet

import "time"

// Oracle decides whether "now" falls inside the daily one-minute window.
// The verdict is computed fresh on every call so DST transitions and long
// process uptimes cannot skew it. It is the single source of truth for
// window membership; nothing else reimplements this time math.
type Oracle struct {
	Hour     int
	Minute   int
	Location *time.Location

	// Now is the clock source, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

// NewOracle creates an oracle for the given wall-clock window time.
func NewOracle(hour, minute int, loc *time.Location) *Oracle {
	return &Oracle{Hour: hour, Minute: minute, Location: loc}
}

// Within reports whether the current wall-clock time, interpreted in the
// configured timezone, has the configured hour and minute.
func (o *Oracle) Within() bool {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	local := now().In(o.Location)
	return local.Hour() == o.Hour && local.Minute() == o.Minute
}
