package rally

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stampwalk/stampwalk/internal/gateway"
)

// CatalogGateway is the full event-server surface the session consumes.
type CatalogGateway interface {
	Gateway
	FetchStampList(ctx context.Context) ([]gateway.Stamp, error)
	FetchClassList(ctx context.Context) ([]gateway.ClassInfo, error)
}

// ClassModal is the class-info popup opened by tapping a classroom.
type ClassModal struct {
	Visible bool
	RoomID  string
	Title   string
	Classes []gateway.ClassInfo
}

// Deps are the collaborators a Session is assembled from.
type Deps struct {
	Store   Store
	Gateway CatalogGateway
	Media   MediaPlayer
	Profile DeviceProfile
	Log     *slog.Logger

	// StartFloorHash is an optional "#FloorN" deep link applied at init.
	StartFloorHash string
}

type stampsResult struct {
	stamps []gateway.Stamp
	err    error
}

type classesResult struct {
	classes []gateway.ClassInfo
	err     error
}

// Session ties the page together: panel, navigator, gesture router, wizard,
// and sync engine share it as their single-threaded owner. All mutation
// happens on the shell's tick, so no component ever observes a half-updated
// step or half-toggled panel.
type Session struct {
	Panel    *StampPanel
	Nav      *MapNavigator
	Gestures *GestureRouter
	Tour     *TourController
	Sync     *SyncEngine
	Sched    *Scheduler
	Notices  *NoticeLog
	Class    ClassModal

	store   Store
	gw      CatalogGateway
	log     *slog.Logger
	classes []gateway.ClassInfo

	stampsCh  chan stampsResult
	classesCh chan classesResult

	startFloor int // parsed deep-link floor, 0 if none
}

// NewSession assembles the page core. Floors must be mounted on the
// navigator afterward, before Init.
func NewSession(deps Deps) (*Session, error) {
	if deps.Store == nil || deps.Gateway == nil || deps.Media == nil || deps.Log == nil {
		return nil, errors.New("session: missing collaborator")
	}
	sched := &Scheduler{}
	panel := &StampPanel{}
	notices := NewNoticeLog(50)

	s := &Session{
		Panel:     panel,
		Nav:       NewMapNavigator(DefaultZoomConfig()),
		Gestures:  NewGestureRouter(),
		Sync:      NewSyncEngine(deps.Store, panel),
		Sched:     sched,
		Notices:   notices,
		store:     deps.Store,
		gw:        deps.Gateway,
		log:       deps.Log,
		stampsCh:  make(chan stampsResult, 1),
		classesCh: make(chan classesResult, 1),
	}
	s.Tour = NewTourController(deps.Profile, deps.Media, sched, deps.Store, deps.Gateway, notices, deps.Log)
	s.applyFloorHash(deps.StartFloorHash)
	return s, nil
}

func (s *Session) applyFloorHash(hash string) {
	s.startFloor = 0
	if floor, ok := ParseFloorHash(hash); ok {
		s.startFloor = floor
	}
}

// Init verifies the required surfaces exist, fires the one-shot catalog
// fetches, applies the floor deep link, and begins the wizard on a first
// visit. A missing anchor fails fast here rather than mid-flow.
func (s *Session) Init() error {
	if s.Nav.ActiveFloor() == 0 {
		return errors.New("init: no floor surface mounted")
	}
	for floor := 1; floor <= FloorCount; floor++ {
		if s.Nav.Surface(floor) == nil {
			return fmt.Errorf("init: floor %d surface missing", floor)
		}
	}

	if s.startFloor != 0 {
		s.Nav.SwitchFloor(s.startFloor)
	}

	go func() {
		stamps, err := s.gw.FetchStampList(context.Background())
		s.stampsCh <- stampsResult{stamps: stamps, err: err}
	}()
	go func() {
		classes, err := s.gw.FetchClassList(context.Background())
		s.classesCh <- classesResult{classes: classes, err: err}
	}()

	if _, seen := s.store.Get(keyGuideShown); !seen {
		s.Tour.Begin()
	}
	return nil
}

// Tick advances everything by one shell tick: scheduler first, then any
// finished network fetches, then the wizard and the sync engine.
func (s *Session) Tick() {
	s.Sched.Tick()

	select {
	case res := <-s.stampsCh:
		if res.err != nil {
			s.log.Warn("stamp catalog fetch failed", "error", res.err)
			s.Notices.Add("Could not load the stamp list.", NoticeError)
		} else {
			s.Panel.SetCatalog(res.stamps)
		}
	default:
	}

	select {
	case res := <-s.classesCh:
		if res.err != nil {
			s.log.Warn("class list fetch failed", "error", res.err)
			s.Notices.Add("Could not load the class list.", NoticeError)
		} else {
			s.classes = res.classes
		}
	default:
	}

	s.Tour.Tick()
	s.Sync.Tick()
}

// SwipeBegin forwards an interaction start to the gesture router with the
// panel-derived origin facts filled in.
func (s *Session) SwipeBegin(y int, inPanelContent, contentTarget bool) {
	s.Gestures.Begin(y, SwipeOrigin{
		InPanelContent: inPanelContent,
		PanelAtTop:     s.Panel.AtTop(),
		ContentTarget:  contentTarget,
	})
}

// SwipeEnd completes an interaction and applies the classified intent to
// the panel.
func (s *Session) SwipeEnd(y int, inPanelContent, contentTarget bool) {
	dir := s.Gestures.End(y, SwipeOrigin{
		InPanelContent: inPanelContent,
		PanelAtTop:     s.Panel.AtTop(),
		ContentTarget:  contentTarget,
	})
	s.Panel.ApplySwipe(dir)
}

// TapMap handles a tap on the active floor at grid cell (x, y). Taps the
// intercept policy captures are pan gestures and do nothing here; a tap on
// an interactive classroom opens the class-info modal.
func (s *Session) TapMap(x, y int) {
	surface := s.Nav.Active()
	if surface == nil {
		return
	}
	target := surface.Grid.TargetAt(x, y)
	if s.Nav.InterceptTouch(target) {
		return
	}
	if target.Room != nil && target.Tag == "" {
		s.Class = ClassModal{
			Visible: true,
			RoomID:  target.Room.ID,
			Title:   target.Room.Name,
			Classes: s.classes,
		}
	}
}

// CloseClassModal dismisses the class-info popup.
func (s *Session) CloseClassModal() {
	s.Class.Visible = false
}
