package rally

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"unicode"

	"github.com/stampwalk/stampwalk/internal/gateway"
)

// GuideStep is the wizard position. It only moves forward within a run;
// the sole resets are a successful submission and an explicit replay.
type GuideStep int

const (
	StepIntro GuideStep = iota
	StepScan
	StepIdentity
	StepSubmit
)

// Wizard delay constants, in ticks at 60 TPS.
const (
	primeDelayTicks = 30  // 500 ms: restart-and-pause so later playback has no stall
	scanDelayTicks  = 240 // 4000 ms: let the scan clip run before enabling next
)

// visitorNumberMax is the digit cap on the visitor-number field.
const visitorNumberMax = 5

// visitorNameMin is the shortest name that enables submission.
const visitorNameMin = 2

// MediaPlayer is the guide clip the wizard starts and pauses.
type MediaPlayer interface {
	Play()
	Pause()
	Rewind()
}

// Gateway is the slice of the event-server client the wizard needs.
type Gateway interface {
	Login(ctx context.Context, userName string) (gateway.User, error)
}

// ModalView is the guide modal's visual state. The shell renders it as-is;
// the controller is the only writer.
type ModalView struct {
	Visible        bool
	BodyText       string
	HintText       string
	MediaVisible   bool
	PrivacyVisible bool
	InputsVisible  bool
	NextEnabled    bool
	ReplayVisible  bool
	ErrorText      string
	FocusName      bool // one-shot signal: move focus to the name field
}

type loginResult struct {
	user gateway.User
	err  error
}

// TourController sequences the first-run onboarding wizard: a device-aware
// intro, a timer-gated scan demo, identity capture, and one login call.
type TourController struct {
	Modal ModalView

	step    GuideStep
	running bool

	profile DeviceProfile
	media   MediaPlayer
	sched   *Scheduler
	store   Store
	gw      Gateway
	notices *NoticeLog
	log     *slog.Logger

	visitorNumber string
	visitorName   string

	loginInFlight bool
	loginCh       chan loginResult
}

// NewTourController wires a wizard. All collaborators are required.
func NewTourController(profile DeviceProfile, media MediaPlayer, sched *Scheduler, store Store, gw Gateway, notices *NoticeLog, log *slog.Logger) *TourController {
	return &TourController{
		profile: profile,
		media:   media,
		sched:   sched,
		store:   store,
		gw:      gw,
		notices: notices,
		log:     log,
		loginCh: make(chan loginResult, 1),
	}
}

// Step returns the current wizard step.
func (t *TourController) Step() GuideStep { return t.step }

// Running reports whether a wizard run is in progress.
func (t *TourController) Running() bool { return t.running }

// VisitorNumber returns the captured visitor number.
func (t *TourController) VisitorNumber() string { return t.visitorNumber }

// VisitorName returns the captured visitor name.
func (t *TourController) VisitorName() string { return t.visitorName }

// Begin starts a first run. A second Begin while a run is in progress is a
// no-op, so the wizard can never run twice concurrently.
func (t *TourController) Begin() {
	if t.running {
		return
	}
	t.running = true
	t.step = StepIntro
	t.Modal = ModalView{Visible: true}
	t.Advance()
}

// Advance is the sole transition function. It dispatches on the current
// step, applies that step's side effects in order (disable next, mutate the
// modal, then schedule), and moves the step forward.
func (t *TourController) Advance() {
	switch t.step {
	case StepIntro:
		t.Modal.NextEnabled = false
		t.Modal.MediaVisible = true
		t.Modal.BodyText = t.introCopy()
		t.Modal.HintText = "Tap next when the clip is ready."
		t.media.Play()
		t.sched.After(primeDelayTicks, func() {
			t.media.Rewind()
			t.media.Pause()
			t.Modal.NextEnabled = true
		})
		t.step = StepScan

	case StepScan:
		t.Modal.NextEnabled = false
		t.Modal.BodyText = t.scanCopy()
		t.Modal.HintText = "Watch how a stamp is collected."
		t.media.Play()
		t.sched.After(scanDelayTicks, func() {
			t.media.Pause()
			t.Modal.NextEnabled = true
			t.Modal.ReplayVisible = true
		})
		t.step = StepIdentity

	case StepIdentity:
		t.Modal.NextEnabled = false
		t.Modal.MediaVisible = false
		t.Modal.HintText = ""
		t.Modal.PrivacyVisible = true
		t.Modal.InputsVisible = true
		t.Modal.BodyText = "Enter your visitor number and a display name. The name is shown on the stamp board and kept for seven days."
		t.step = StepSubmit
		t.refreshNextEnabled()

	case StepSubmit:
		t.submit()
	}
}

// Replay restarts the wizard from the top, discarding captured identity and
// any pending step timers.
func (t *TourController) Replay() {
	t.sched.Invalidate()
	t.running = true
	t.step = StepIntro
	t.visitorNumber = ""
	t.visitorName = ""
	t.Modal = ModalView{Visible: true, ReplayVisible: true}
	t.Advance()
}

// Close hides the modal and invalidates pending step timers so they cannot
// fire against a modal that is no longer visible.
func (t *TourController) Close() {
	t.sched.Invalidate()
	t.running = false
	t.Modal.Visible = false
}

// SetVisitorNumber filters input to at most five digits. Filling the field
// raises the focus-advance signal once, on the transition to five digits;
// editing back below five clears it so the field stays editable.
func (t *TourController) SetVisitorNumber(s string) {
	prev := len([]rune(t.visitorNumber))
	filtered := make([]rune, 0, visitorNumberMax)
	for _, r := range s {
		if unicode.IsDigit(r) {
			filtered = append(filtered, r)
			if len(filtered) == visitorNumberMax {
				break
			}
		}
	}
	t.visitorNumber = string(filtered)
	if len(filtered) < visitorNumberMax {
		t.Modal.FocusName = false
	} else if prev < visitorNumberMax {
		t.Modal.FocusName = true
	}
}

// AckFocusName consumes the focus-advance signal after the shell has moved
// focus to the name field.
func (t *TourController) AckFocusName() {
	t.Modal.FocusName = false
}

// SetVisitorName updates the name field and the next-control gate.
func (t *TourController) SetVisitorName(s string) {
	t.visitorName = s
	t.refreshNextEnabled()
}

// refreshNextEnabled gates submission on the name length.
func (t *TourController) refreshNextEnabled() {
	if t.step == StepSubmit && !t.loginInFlight {
		t.Modal.NextEnabled = len([]rune(t.visitorName)) >= visitorNameMin
	}
}

// submit issues the single login request. Only one may be in flight.
func (t *TourController) submit() {
	if t.loginInFlight {
		return
	}
	t.loginInFlight = true
	t.Modal.NextEnabled = false
	t.Modal.ErrorText = ""

	userName := t.visitorNumber + t.visitorName
	go func() {
		user, err := t.gw.Login(context.Background(), userName)
		t.loginCh <- loginResult{user: user, err: err}
	}()
}

// Tick drains a finished login, if any. Called once per shell tick.
func (t *TourController) Tick() {
	select {
	case res := <-t.loginCh:
		t.loginInFlight = false
		if res.err != nil {
			t.loginFailed(res.err)
		} else {
			t.loginSucceeded(res.user)
		}
	default:
	}
}

// loginFailed keeps the wizard on the submission step with the captured
// fields intact, so the visitor can resubmit without re-entering anything.
func (t *TourController) loginFailed(err error) {
	t.log.Warn("login failed", "error", err)
	t.notices.Add("Login failed. Please try again.", NoticeError)
	t.Modal.ErrorText = "Login failed. Check your connection and press next to retry."
	t.refreshNextEnabled()
}

// loginSucceeded persists the visitor records, resets the wizard, and
// closes the modal.
func (t *TourController) loginSucceeded(user gateway.User) {
	rec, err := json.Marshal(user)
	if err == nil {
		err = t.store.Set(keyUser, string(rec), userExpiryDays)
	}
	if err == nil {
		err = t.store.Set(keyGuideShown, "1", guideExpiryDays)
	}
	if err != nil {
		t.log.Warn("persisting visitor records", "error", err)
		t.notices.Add("Could not save your visitor record.", NoticeWarning)
	}

	t.log.Info("visitor logged in", "user_id", user.UserID)
	t.notices.Add(fmt.Sprintf("Welcome, %s! The stamp tour has begun.", t.visitorName), NoticeInfo)

	t.step = StepIntro
	t.running = false
	t.sched.Invalidate()
	t.Modal.Visible = false
}

func (t *TourController) introCopy() string {
	if t.profile.IsWideScreen || t.profile.NFCLocationLabel == "" {
		return "Welcome to the stamp tour! Open this page on your smartphone to take part. Stamps are collected by holding your phone over the markers placed around the venue."
	}
	return fmt.Sprintf("Welcome to the stamp tour! Hold the %s of your %s over a stamp marker to collect it.",
		t.profile.NFCLocationLabel, t.profile.DeviceLabel)
}

func (t *TourController) scanCopy() string {
	return "Find the stamp marker at each waypoint and hold your phone close until the page reacts. Collected stamps appear in the panel below."
}
