// Package gesture classifies contact motion histories into semantic gesture
// events: taps, holds, swipes, arrows, corners, and the two-finger and
// many-finger compounds built from them.
package gesture

// Kind identifies the semantic class of a gesture.
type Kind uint8

const (
	// KindNone is the zero value; no gesture.
	KindNone Kind = iota
	// KindTap is a short touch with negligible movement.
	KindTap
	// KindMultiTap is two or more simultaneous taps.
	KindMultiTap
	// KindHold is a touch kept still past the hold delay. It fires while
	// the finger is still down.
	KindHold
	// KindHoldLong is the second hold stage, past the long hold delay.
	KindHoldLong
	// KindSwipe is a straight axis-aligned drag.
	KindSwipe
	// KindSlantedSwipe is a straight drag closer to a diagonal than to
	// either axis. It keeps its diagonal identity instead of being forced
	// onto the dominant axis.
	KindSlantedSwipe
	// KindMultiSwipe is three or more parallel simultaneous swipes
	// (or two, when reported by the coordinator).
	KindMultiSwipe
	// KindArrow is a flick: either a fast short swipe or a stroke bent
	// along an axis, distinguishing it from a drag.
	KindArrow
	// KindMultiArrow is multiple parallel simultaneous arrows.
	KindMultiArrow
	// KindCorner is a stroke bent along a diagonal.
	KindCorner
	// KindMultiCorner is multiple matching simultaneous corners.
	KindMultiCorner
	// KindPinch is two contacts converging.
	KindPinch
	// KindSpread is two contacts diverging.
	KindSpread
	// KindRotate is a pivot tap plus a sweeping contact.
	KindRotate
	// KindCross is two opposing inward arrows, one per hand.
	KindCross
	// KindDiamond is two opposing outward arrows, one per hand.
	KindDiamond
)

const kindCount = int(KindDiamond) + 1

var kindNames = map[Kind]string{
	KindNone:         "none",
	KindTap:          "tap",
	KindMultiTap:     "multitap",
	KindHold:         "hold",
	KindHoldLong:     "hold-long",
	KindSwipe:        "swipe",
	KindSlantedSwipe: "slanted-swipe",
	KindMultiSwipe:   "multiswipe",
	KindArrow:        "arrow",
	KindMultiArrow:   "multiarrow",
	KindCorner:       "corner",
	KindMultiCorner:  "multicorner",
	KindPinch:        "pinch",
	KindSpread:       "spread",
	KindRotate:       "rotate",
	KindCross:        "cross",
	KindDiamond:      "diamond",
}

// String returns the gesture kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind parses a gesture kind name as used in binding files.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s && k != KindNone {
			return k, true
		}
	}
	return KindNone, false
}

// KindSet is a capability set of gesture kinds, used by views to declare
// which gestures they accept.
type KindSet uint32

// NewKindSet builds a set from the given kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// AllKinds returns the set containing every gesture kind.
func AllKinds() KindSet {
	var s KindSet
	for k := KindTap; k < Kind(kindCount); k++ {
		s = s.With(k)
	}
	return s
}

// With returns the set with k added.
func (s KindSet) With(k Kind) KindSet {
	return s | 1<<k
}

// Without returns the set with k removed.
func (s KindSet) Without(k Kind) KindSet {
	return s &^ (1 << k)
}

// Has returns true if the set contains k.
func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// Empty returns true if the set contains no kinds.
func (s KindSet) Empty() bool {
	return s == 0
}
