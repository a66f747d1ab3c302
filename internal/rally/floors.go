package rally

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stampwalk/stampwalk/internal/venue"
)

// FloorCount is the number of selectable venue floors.
const FloorCount = 4

// ZoomConfig mirrors the pan/zoom behavior mounted on each floor surface.
type ZoomConfig struct {
	Bounds             bool
	BoundsPadding      float64 // extra pan slack around the plan, in tiles
	MinZoom            float64
	MaxZoom            float64
	DoubleTapZoomSpeed float64 // zoom multiplier applied per double tap
}

// DefaultZoomConfig matches the behavior mounted on the event page.
func DefaultZoomConfig() ZoomConfig {
	return ZoomConfig{
		Bounds:             true,
		BoundsPadding:      2,
		MinZoom:            0.5,
		MaxZoom:            3,
		DoubleTapZoomSpeed: 1.75,
	}
}

// Camera is the pan/zoom state of one floor surface. Offsets are in tiles
// from the plan origin; Zoom scales tile size.
type Camera struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64
}

// FloorSurface is one mounted floor: its plan grid, camera, and visual
// active state. Exactly one surface is active after the first mount.
type FloorSurface struct {
	Grid   *venue.TileGrid
	Cam    Camera
	Active bool
}

// MapNavigator owns which floor is active and the per-floor cameras.
type MapNavigator struct {
	cfg      ZoomConfig
	surfaces [FloorCount + 1]*FloorSurface // 1-based, index 0 unused
	active   int                           // 0 until first mount
}

// NewMapNavigator creates a navigator with the given pan/zoom config.
func NewMapNavigator(cfg ZoomConfig) *MapNavigator {
	return &MapNavigator{cfg: cfg}
}

// Mount attaches a floor plan grid as the surface for floor. The first
// mounted floor becomes active.
func (n *MapNavigator) Mount(floor int, grid *venue.TileGrid) error {
	if floor < 1 || floor > FloorCount {
		return fmt.Errorf("floor %d out of range [1, %d]", floor, FloorCount)
	}
	if grid == nil {
		return fmt.Errorf("floor %d: nil plan grid", floor)
	}
	s := &FloorSurface{Grid: grid, Cam: Camera{Zoom: 1}}
	n.surfaces[floor] = s
	if n.active == 0 {
		s.Active = true
		n.active = floor
	}
	return nil
}

// ActiveFloor returns the active floor number, or 0 before the first mount.
func (n *MapNavigator) ActiveFloor() int { return n.active }

// Active returns the active surface, or nil before the first mount.
func (n *MapNavigator) Active() *FloorSurface {
	if n.active == 0 {
		return nil
	}
	return n.surfaces[n.active]
}

// Surface returns the surface mounted for floor, or nil.
func (n *MapNavigator) Surface(floor int) *FloorSurface {
	if floor < 1 || floor > FloorCount {
		return nil
	}
	return n.surfaces[floor]
}

// SwitchFloor activates target: the old surface is deactivated and the new
// one activated in one step. Switching to the current floor, an unmounted
// floor, or an out-of-range value is a no-op. Returns whether a switch
// happened. Safe to call from a deep link before any interaction.
func (n *MapNavigator) SwitchFloor(target int) bool {
	if target < 1 || target > FloorCount || target == n.active {
		return false
	}
	next := n.surfaces[target]
	if next == nil {
		return false
	}
	if cur := n.Active(); cur != nil {
		cur.Active = false
	}
	next.Active = true
	n.active = target
	return true
}

// Pan moves the active camera by (dx, dy) tiles, clamped to the plan
// bounds plus padding.
func (n *MapNavigator) Pan(dx, dy float64) {
	s := n.Active()
	if s == nil {
		return
	}
	s.Cam.OffsetX += dx
	s.Cam.OffsetY += dy
	if n.cfg.Bounds {
		pad := n.cfg.BoundsPadding
		s.Cam.OffsetX = clamp(s.Cam.OffsetX, -pad, float64(s.Grid.Width)+pad)
		s.Cam.OffsetY = clamp(s.Cam.OffsetY, -pad, float64(s.Grid.Height)+pad)
	}
}

// ZoomBy multiplies the active camera zoom by factor, clamped to the
// configured range.
func (n *MapNavigator) ZoomBy(factor float64) {
	s := n.Active()
	if s == nil || factor <= 0 {
		return
	}
	s.Cam.Zoom = clamp(s.Cam.Zoom*factor, n.cfg.MinZoom, n.cfg.MaxZoom)
}

// DoubleTapZoom applies one double-tap zoom step, cycling back to minimum
// zoom once the maximum is reached.
func (n *MapNavigator) DoubleTapZoom() {
	s := n.Active()
	if s == nil {
		return
	}
	if s.Cam.Zoom >= n.cfg.MaxZoom {
		s.Cam.Zoom = n.cfg.MinZoom
		return
	}
	n.ZoomBy(n.cfg.DoubleTapZoomSpeed)
}

// InterceptTouch reports whether a touch on target should be captured for
// panning. Default handling is preserved for the non-interactive classes
// (background, group, rect, text) unless the target is tagged hallway or
// notClassroom, so taps on room markers are not eaten by the pan gesture.
// This is a target-classification rule, not a geometric one.
func (n *MapNavigator) InterceptTouch(t venue.Target) bool {
	switch t.Kind {
	case venue.TargetBackground, venue.TargetGroup, venue.TargetRect, venue.TargetText:
		return t.Tag == venue.TagHallway || t.Tag == venue.TagNotClassroom
	default:
		return true
	}
}

// ParseFloorHash parses a deep-link fragment of the form "#FloorN".
func ParseFloorHash(hash string) (int, bool) {
	rest, ok := strings.CutPrefix(hash, "#Floor")
	if !ok {
		return 0, false
	}
	floor, err := strconv.Atoi(rest)
	if err != nil || floor < 1 || floor > FloorCount {
		return 0, false
	}
	return floor, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
