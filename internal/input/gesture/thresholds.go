package gesture

import "time"

// Thresholds holds the per-device tuning constants for classification.
// Values are injected at startup from the configuration surface; nothing in
// the classifier hard-codes them.
type Thresholds struct {
	// TapRadius is the maximum total displacement, in pixels, for a
	// contact to classify as a tap.
	TapRadius float64

	// HoldJitter is the maximum drift, in pixels, a contact may show and
	// still fire a hold. Tighter than TapRadius.
	HoldJitter float64

	// HoldDelayShort is when the first hold stage fires.
	HoldDelayShort time.Duration

	// HoldDelayLong is when the second hold stage fires. Must be greater
	// than HoldDelayShort.
	HoldDelayLong time.Duration

	// SwipeThreshold is the minimum displacement, in pixels, for a stroke
	// to be directional. Between TapRadius and SwipeThreshold a stroke is
	// still reported as a swipe with literal endpoints, so consumers can
	// treat it as a scroll drag.
	SwipeThreshold float64

	// ArrowVelocity is the minimum speed, in pixels per second, for a
	// straight swipe to be retagged as an arrow flick.
	ArrowVelocity float64

	// ArrowMinDistance is the minimum displacement, in pixels, for the
	// velocity retag to apply.
	ArrowMinDistance float64

	// ElbowRatio is the minimum elbow deviation, as a fraction of the
	// chord length, for a stroke to count as bent (arrow or corner).
	ElbowRatio float64

	// DiagonalRatio bounds |dx/dy| for a bend to count as diagonal:
	// ratios inside (DiagonalRatio, 1/DiagonalRatio) are diagonal.
	DiagonalRatio float64

	// RotateMinAngle suppresses rotations below this many degrees.
	RotateMinAngle float64

	// DivergenceRatio is the minimum end-separation over start-separation
	// for two non-opposing strokes to count as a spread (and its inverse
	// for a pinch).
	DivergenceRatio float64

	// SimultaneityWindow is the maximum skew between two contacts' starts
	// (and ends) for them to form a compound gesture.
	SimultaneityWindow time.Duration

	// ResolutionWindow bounds how long a partially lifted multi-contact
	// group may wait for its remaining contacts before falling back to
	// individual dispatch.
	ResolutionWindow time.Duration

	// DebounceWindow is how long two contacts must coexist before the
	// group is promoted to multi-contact tracking.
	DebounceWindow time.Duration
}

// DefaultThresholds returns tuning constants suitable for a 300dpi panel.
// The hold delays and jitter margins follow the values proven on shipping
// hardware; the rest are starting points pending trace calibration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TapRadius:          70,
		HoldJitter:         18,
		HoldDelayShort:     666 * time.Millisecond,
		HoldDelayLong:      1333 * time.Millisecond,
		SwipeThreshold:     140,
		ArrowVelocity:      3000,
		ArrowMinDistance:   90,
		ElbowRatio:         0.2,
		DiagonalRatio:      0.5,
		RotateMinAngle:     20,
		DivergenceRatio:    1.5,
		SimultaneityWindow: 250 * time.Millisecond,
		ResolutionWindow:   500 * time.Millisecond,
		DebounceWindow:     30 * time.Millisecond,
	}
}
