package rally

// SwipeDirection is the classification of one completed touch interaction.
type SwipeDirection uint8

const (
	SwipeNone SwipeDirection = iota
	SwipeUp
	SwipeDown
)

// SwipeOrigin describes where an interaction started, so a scroll gesture
// inside the stamp list is never misread as a panel swipe.
type SwipeOrigin struct {
	InPanelContent bool // started inside the panel's scrollable list
	PanelAtTop     bool // the list is scrolled to its top
	ContentTarget  bool // target is one of the list's own content elements
}

// valid reports whether this origin may establish or complete a swipe:
// either the interaction started outside the scrollable content, or the
// list sits at its top and the touch missed the content elements.
func (o SwipeOrigin) valid() bool {
	return !o.InPanelContent || (o.PanelAtTop && !o.ContentTarget)
}

// baselineUnset is the sentinel meaning no valid start was recorded.
const baselineUnset = -1

// GestureRouter classifies a start/end pointer pair into a swipe intent.
// It is a two-phase protocol: Begin must record a valid baseline or the
// matching End is a no-op. The baseline is reset on every Begin so a stale
// one never leaks into the next interaction.
type GestureRouter struct {
	baseline int
}

// NewGestureRouter returns a router with no recorded baseline.
func NewGestureRouter() *GestureRouter {
	return &GestureRouter{baseline: baselineUnset}
}

// Begin records the vertical coordinate of an interaction start. y must be
// non-negative.
func (g *GestureRouter) Begin(y int, origin SwipeOrigin) {
	g.baseline = baselineUnset
	if origin.valid() && y >= 0 {
		g.baseline = y
	}
}

// End completes the interaction and returns the swipe classification.
func (g *GestureRouter) End(y int, origin SwipeOrigin) SwipeDirection {
	start := g.baseline
	g.baseline = baselineUnset
	if start == baselineUnset || !origin.valid() {
		return SwipeNone
	}
	switch {
	case y < start:
		return SwipeUp
	case y > start:
		return SwipeDown
	default:
		return SwipeNone
	}
}
