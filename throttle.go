package sharedtex

import "github.com/gogpu/sharedtex/registry"

// Throttle decides, frame by frame, whether the producer should populate a
// texture. With a skip period P it asks for one population every P+1 frames,
// and always asks for one immediately after a reset so configuration edits
// show up without delay.
//
// After Reset the sequence of requests is:
//
//	P = 0:  always, always, always, ...
//	P >= 1: always, never×P, once, never×P, once, ...
type Throttle struct {
	period    uint16
	countdown uint16
	fresh     bool
}

// NewThrottle returns a Throttle with the given skip period, already reset.
func NewThrottle(period uint16) *Throttle {
	return &Throttle{period: period, fresh: true}
}

// SetPeriod changes the skip period and resets the cycle.
func (t *Throttle) SetPeriod(period uint16) {
	t.period = period
	t.Reset()
}

// Period returns the skip period.
func (t *Throttle) Period() uint16 {
	return t.period
}

// Reset marks the throttle as just configured; the next request is
// NeedsDataAlways.
func (t *Throttle) Reset() {
	t.fresh = true
}

// Next returns the request for the current frame and advances the cycle.
func (t *Throttle) Next() registry.NeedsData {
	switch {
	case t.period == 0 || t.fresh:
		// The always-request counts as this cycle's population, so the
		// next one is P frames away like any other.
		t.fresh = false
		t.countdown = t.period
		return registry.NeedsDataAlways
	case t.countdown == 0:
		t.countdown = t.period
		return registry.NeedsDataOnce
	default:
		t.countdown--
		return registry.NeedsDataNever
	}
}
