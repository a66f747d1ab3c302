package rally

import (
	"strings"
	"testing"

	"github.com/stampwalk/stampwalk/internal/gateway"
	"github.com/stampwalk/stampwalk/internal/venue"
)

func classroomGrid() *venue.TileGrid {
	plan := &venue.FloorPlan{
		Floor:  1,
		Name:   "1F",
		Width:  6,
		Height: 3,
		Tiles: []string{
			"######",
			"#aa..#",
			"######",
		},
		Rooms: []venue.RoomDef{
			{ID: "1-1", Name: "Class 1-1", Glyph: "a"},
		},
	}
	return plan.ToTileGrid()
}

func newTestSession(t *testing.T, deps Deps) *Session {
	t.Helper()
	if deps.Store == nil {
		deps.Store = newFakeStore()
	}
	if deps.Gateway == nil {
		deps.Gateway = &fakeGateway{}
	}
	if deps.Media == nil {
		deps.Media = &fakePlayer{}
	}
	if deps.Log == nil {
		deps.Log = testLogger()
	}
	s, err := NewSession(deps)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for floor := 1; floor <= FloorCount; floor++ {
		if err := s.Nav.Mount(floor, classroomGrid()); err != nil {
			t.Fatalf("mount floor %d: %v", floor, err)
		}
	}
	return s
}

func TestInitFailsFastWithoutSurfaces(t *testing.T) {
	s, err := NewSession(Deps{
		Store:   newFakeStore(),
		Gateway: &fakeGateway{},
		Media:   &fakePlayer{},
		Log:     testLogger(),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Init(); err == nil {
		t.Fatal("Init accepted a session with no mounted floors")
	}
}

func TestFirstVisitStartsWizard(t *testing.T) {
	s := newTestSession(t, Deps{})
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !s.Tour.Running() {
		t.Fatal("wizard did not begin on a first visit")
	}
}

func TestReturnVisitSkipsWizard(t *testing.T) {
	st := newFakeStore()
	st.Set(keyGuideShown, "1", guideExpiryDays)
	s := newTestSession(t, Deps{Store: st})
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if s.Tour.Running() {
		t.Fatal("wizard began although the guide-shown marker exists")
	}
}

func TestDeepLinkAppliedAtInit(t *testing.T) {
	s := newTestSession(t, Deps{StartFloorHash: "#Floor3"})
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := s.Nav.ActiveFloor(); got != 3 {
		t.Fatalf("active floor = %d, want 3", got)
	}
}

func TestCatalogFetchFillsPanel(t *testing.T) {
	gw := &fakeGateway{
		stamps:  []gateway.Stamp{{ID: "A1", Name: "Gym", Location: "1F"}},
		classes: []gateway.ClassInfo{{ID: "1-1"}},
	}
	s := newTestSession(t, Deps{Gateway: gw})
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	waitFor(t, s.Tick, func() bool { return len(s.Panel.Entries) == 1 })
	if s.Panel.Entries[0].ID != "A1" {
		t.Fatalf("panel entries = %+v", s.Panel.Entries)
	}
}

func TestTapClassroomOpensClassModal(t *testing.T) {
	gw := &fakeGateway{classes: []gateway.ClassInfo{{ID: "1-1"}, {ID: "1-2"}}}
	s := newTestSession(t, Deps{Gateway: gw})
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	waitFor(t, s.Tick, func() bool { return len(s.classes) == 2 })

	// (1,1) is a classroom cell, (3,1) a hallway cell, (0,0) a wall.
	s.TapMap(3, 1)
	if s.Class.Visible {
		t.Fatal("hallway tap opened the class modal")
	}
	s.TapMap(1, 1)
	if !s.Class.Visible || s.Class.RoomID != "1-1" {
		t.Fatalf("class modal = %+v", s.Class)
	}
	if len(s.Class.Classes) != 2 {
		t.Fatalf("class modal lists %d classes", len(s.Class.Classes))
	}
	s.CloseClassModal()
	if s.Class.Visible {
		t.Fatal("class modal still visible after close")
	}
}

func TestSwipeThroughSessionTogglesPanel(t *testing.T) {
	s := newTestSession(t, Deps{})
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	s.SwipeBegin(300, false, false)
	s.SwipeEnd(120, false, false)
	if !s.Panel.IsOpen() {
		t.Fatal("upward swipe did not open the panel")
	}
	s.SwipeBegin(120, false, false)
	s.SwipeEnd(300, false, false)
	if s.Panel.IsOpen() {
		t.Fatal("downward swipe did not close the panel")
	}
}

func TestFetchFailureIsNoticedNotFatal(t *testing.T) {
	gw := &failingGateway{}
	s := newTestSession(t, Deps{Gateway: gw})
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	waitFor(t, s.Tick, func() bool { return len(s.Notices.Notices) > 0 })

	found := false
	for _, n := range s.Notices.Notices {
		if n.Level == NoticeError && strings.Contains(n.Text, "stamp list") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no stamp-list failure notice in %+v", s.Notices.Notices)
	}
}
