package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/stampwalk/stampwalk/assets"
	"github.com/stampwalk/stampwalk/internal/config"
	"github.com/stampwalk/stampwalk/internal/gateway"
	"github.com/stampwalk/stampwalk/internal/rally"
	"github.com/stampwalk/stampwalk/internal/render"
	"github.com/stampwalk/stampwalk/internal/store"
	"github.com/stampwalk/stampwalk/internal/venue"
)

const (
	title = "Stamp Tour"

	cellWidth  = 16
	cellHeight = 16
)

// Fixed chrome rows (in cells).
const (
	selectorRow     = 1 // floor selector strip
	mapTopRow       = 2 // map viewport starts below the selector
	panelClosedRows = 2 // collapsed panel strip height
	panelOpenRows   = 12
	noticeMax       = 3 // visible notice lines
)

// doubleTapTicks is the press interval treated as a double tap.
const doubleTapTicks = 20

// Game is the Ebitengine shell. It owns rendering and input; all page
// behavior lives in the rally session.
type Game struct {
	session *rally.Session
	clip    *clipPlayer
	chrome  *render.GridRenderer
	mapR    *render.MapRenderer
	buffer  *render.CellBuffer

	gridCols int
	gridRows int
	screenW  int
	screenH  int

	// pointer interaction state
	pressed   bool
	dragging  bool // press captured for pan
	lastX     int
	lastY     int
	moved     bool
	ticks     uint64
	lastTapAt uint64
	nameFocus bool // identity capture: typing goes to the name field
}

func NewGame(cfg *config.Config, session *rally.Session, clip *clipPlayer) *Game {
	atlas := render.NewFontAtlas()
	cols := cfg.ScreenWidth / cellWidth
	rows := cfg.ScreenHeight / cellHeight
	return &Game{
		session:  session,
		clip:     clip,
		chrome:   render.NewGridRenderer(atlas, cellWidth, cellHeight),
		mapR:     render.NewMapRenderer(atlas, cellWidth, cellHeight),
		buffer:   render.NewCellBuffer(cols, rows),
		gridCols: cols,
		gridRows: rows,
		screenW:  cfg.ScreenWidth,
		screenH:  cfg.ScreenHeight,
	}
}

// mapViewport is the pixel rectangle the floor map renders into. It ends
// where the stamp panel begins.
func (g *Game) mapViewport() image.Rectangle {
	return image.Rect(0, mapTopRow*cellHeight, g.screenW, g.panelTopRow()*cellHeight)
}

func (g *Game) panelTopRow() int {
	if g.session.Panel.IsOpen() {
		return g.gridRows - panelOpenRows
	}
	return g.gridRows - panelClosedRows
}

// panelListRow is the first row of the scrollable stamp list.
func (g *Game) panelListRow() int { return g.panelTopRow() + 1 }

func (g *Game) Update() error {
	g.ticks++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		switch {
		case g.session.Class.Visible:
			g.session.CloseClassModal()
		case g.session.Tour.Modal.Visible:
			g.session.Tour.Close()
		default:
			return ebiten.Termination
		}
	}

	if g.session.Tour.Modal.Visible {
		g.updateGuideModal()
	} else if g.session.Class.Visible {
		g.updateClassModal()
	} else {
		g.updatePage()
	}

	g.session.Tick()
	g.clip.Tick()
	return nil
}

// updatePage handles input on the plain page: floor keys, map pan/zoom,
// taps, and panel swipes.
func (g *Game) updatePage() {
	for key := ebiten.Key1; key <= ebiten.Key4; key++ {
		if inpututil.IsKeyJustPressed(key) {
			g.session.Nav.SwitchFloor(int(key-ebiten.Key1) + 1)
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		if wy > 0 {
			g.session.Nav.ZoomBy(1.1)
		} else {
			g.session.Nav.ZoomBy(1 / 1.1)
		}
	}

	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pressed = true
		g.lastX, g.lastY = mx, my
		g.moved = false
		g.dragging = false

		inList, overEntry := g.panelHit(mx, my)
		g.session.SwipeBegin(my, inList, overEntry)

		if g.mapViewport().Min.Y <= my && my < g.mapViewport().Max.Y {
			tx, ty := g.tileAt(mx, my)
			if surface := g.session.Nav.Active(); surface != nil {
				target := surface.Grid.TargetAt(tx, ty)
				g.dragging = g.session.Nav.InterceptTouch(target)
			}
		}
	}

	if g.pressed && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		dx, dy := mx-g.lastX, my-g.lastY
		if dx != 0 || dy != 0 {
			g.moved = true
			if g.dragging {
				zoom := g.activeZoom()
				g.session.Nav.Pan(-float64(dx)/(cellWidth*zoom), -float64(dy)/(cellHeight*zoom))
			}
		}
		g.lastX, g.lastY = mx, my
	}

	if g.pressed && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.pressed = false

		inList, overEntry := g.panelHit(mx, my)
		g.session.SwipeEnd(my, inList, overEntry)

		vp := g.mapViewport()
		if !g.moved && vp.Min.Y <= my && my < vp.Max.Y {
			if g.ticks-g.lastTapAt <= doubleTapTicks {
				g.session.Nav.DoubleTapZoom()
			} else {
				tx, ty := g.tileAt(mx, my)
				g.session.TapMap(tx, ty)
			}
			g.lastTapAt = g.ticks
		}
	}

	// Keyboard fallback for the panel gestures.
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if g.session.Panel.IsOpen() {
			g.session.Panel.ApplySwipe(rally.SwipeDown)
		} else {
			g.session.Panel.ApplySwipe(rally.SwipeUp)
		}
	}
	if g.session.Panel.IsOpen() {
		if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
			g.session.Panel.Scroll(1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
			g.session.Panel.Scroll(-1)
		}
	}
}

// updateGuideModal routes input to the wizard.
func (g *Game) updateGuideModal() {
	tour := g.session.Tour

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && tour.Modal.NextEnabled {
		tour.Advance()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) && tour.Modal.ReplayVisible {
		tour.Replay()
		return
	}

	if !tour.Modal.InputsVisible {
		return
	}

	if tour.Modal.FocusName {
		g.nameFocus = true
		tour.AckFocusName()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.nameFocus = !g.nameFocus
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if g.nameFocus {
			tour.SetVisitorName(tour.VisitorName() + string(r))
		} else {
			tour.SetVisitorNumber(tour.VisitorNumber() + string(r))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if g.nameFocus {
			tour.SetVisitorName(trimLastRune(tour.VisitorName()))
		} else {
			tour.SetVisitorNumber(trimLastRune(tour.VisitorNumber()))
		}
	}
}

func (g *Game) updateClassModal() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.session.CloseClassModal()
	}
}

func (g *Game) activeZoom() float64 {
	if s := g.session.Nav.Active(); s != nil {
		return s.Cam.Zoom
	}
	return 1
}

func (g *Game) tileAt(mx, my int) (int, int) {
	s := g.session.Nav.Active()
	if s == nil {
		return -1, -1
	}
	return render.TileAt(mx, my, g.mapViewport(), cellWidth, cellHeight, s.Cam.OffsetX, s.Cam.OffsetY, s.Cam.Zoom)
}

// panelHit reports whether a pixel lies in the open panel's scrollable
// list, and whether it is over a rendered entry row.
func (g *Game) panelHit(mx, my int) (inList, overEntry bool) {
	if !g.session.Panel.IsOpen() {
		return false, false
	}
	row := my / cellHeight
	if row < g.panelListRow() || row >= g.gridRows {
		return false, false
	}
	idx := g.session.Panel.ScrollOffset() + row - g.panelListRow()
	return true, idx < len(g.session.Panel.Entries)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawMap(screen)

	buf := g.buffer
	buf.Clear()
	g.drawChrome(buf)
	if g.session.Class.Visible {
		g.drawClassModal(buf)
	}
	if g.session.Tour.Modal.Visible {
		g.drawGuideModal(buf)
	}
	g.chrome.Draw(screen, buf)
}

func (g *Game) drawMap(screen *ebiten.Image) {
	s := g.session.Nav.Active()
	if s == nil {
		return
	}
	checked := func(id string) bool {
		for _, e := range g.session.Panel.Entries {
			if e.ID == id {
				return e.Checked
			}
		}
		return false
	}
	g.mapR.DrawFloor(screen, s.Grid, g.mapViewport(), s.Cam.OffsetX, s.Cam.OffsetY, s.Cam.Zoom, checked)
}

func (g *Game) drawChrome(buf *render.CellBuffer) {
	// Title bar
	buf.WriteString(2, 0, title, render.ColorWhite, render.ColorBlack)
	buf.WriteString(g.gridCols-16, 0, "ESC: quit", render.ColorDarkGray, render.ColorBlack)

	// Floor selector
	buf.WriteString(2, selectorRow, "Floor:", render.ColorLightCyan, render.ColorBlack)
	for floor := 1; floor <= rally.FloorCount; floor++ {
		label := fmt.Sprintf("[%d]", floor)
		fg, bg := uint8(render.ColorLightGray), uint8(render.ColorBlack)
		if floor == g.session.Nav.ActiveFloor() {
			fg, bg = render.ColorBlack, render.ColorLightCyan
		}
		buf.WriteString(9+(floor-1)*4, selectorRow, label, fg, bg)
	}

	// Notices
	for i, n := range g.session.Notices.Recent(noticeMax) {
		clr := uint8(render.ColorCyan)
		switch n.Level {
		case rally.NoticeWarning:
			clr = render.ColorYellow
		case rally.NoticeError:
			clr = render.ColorLightRed
		}
		buf.WriteString(24, selectorRow+i, n.Text, clr, render.ColorBlack)
	}

	g.drawPanel(buf)
}

func (g *Game) drawPanel(buf *render.CellBuffer) {
	panel := g.session.Panel
	top := g.panelTopRow()

	buf.FillRect(0, top, g.gridCols, g.gridRows-top, ' ', render.ColorWhite, render.ColorDarkGray)
	header := fmt.Sprintf(" Stamps %d/%d ", panel.CheckedCount(), len(panel.Entries))
	buf.WriteString(2, top, header, render.ColorWhite, render.ColorDarkGray)

	if !panel.IsOpen() {
		buf.WriteString(g.gridCols-26, top, "swipe up for stamp list", render.ColorLightGray, render.ColorDarkGray)
		return
	}
	buf.WriteString(g.gridCols-20, top, "swipe down to close", render.ColorLightGray, render.ColorDarkGray)

	row := g.panelListRow()
	for i := panel.ScrollOffset(); i < len(panel.Entries) && row < g.gridRows; i++ {
		e := panel.Entries[i]
		mark, clr := byte('o'), uint8(render.ColorLightGray)
		if e.Checked {
			mark, clr = render.GlyphCheck, render.ColorLightGreen
		}
		buf.Set(2, row, mark, clr, render.ColorDarkGray)
		line := fmt.Sprintf("%-14s %-4s %s", e.Name, e.Location, e.Desc)
		buf.WriteString(4, row, line, render.ColorWhite, render.ColorDarkGray)
		row++
	}
}

func (g *Game) drawGuideModal(buf *render.CellBuffer) {
	m := g.session.Tour.Modal
	w, h := 52, 20
	x := (g.gridCols - w) / 2
	y := (g.gridRows - h) / 2

	buf.FillRect(x, y, w, h, ' ', render.ColorWhite, render.ColorBlack)
	buf.Frame(x, y, w, h, render.ColorLightCyan, render.ColorBlack)
	buf.WriteString(x+2, y, " Welcome Guide ", render.ColorLightCyan, render.ColorBlack)

	row := y + 2
	for _, line := range wrapLines(m.BodyText, w-4) {
		buf.WriteString(x+2, row, line, render.ColorWhite, render.ColorBlack)
		row++
	}

	if m.MediaVisible {
		g.drawClip(buf, x+2, row+1, w-4, 6)
		row += 8
	}
	if m.HintText != "" {
		buf.WriteString(x+2, row, m.HintText, render.ColorDarkGray, render.ColorBlack)
	}

	if m.PrivacyVisible {
		for _, line := range wrapLines("Your name and visitor number are stored for the event only and expire after seven days.", w-4) {
			buf.WriteString(x+2, row, line, render.ColorDarkGray, render.ColorBlack)
			row++
		}
		row++
	}
	if m.InputsVisible {
		numFG := uint8(render.ColorWhite)
		nameFG := uint8(render.ColorWhite)
		if g.nameFocus {
			nameFG = render.ColorYellow
		} else {
			numFG = render.ColorYellow
		}
		buf.WriteString(x+2, row, fmt.Sprintf("Visitor number: %-5s", g.session.Tour.VisitorNumber()), numFG, render.ColorBlack)
		row++
		buf.WriteString(x+2, row, fmt.Sprintf("Name:           %s", g.session.Tour.VisitorName()), nameFG, render.ColorBlack)
		row += 2
		buf.WriteString(x+2, row, "TAB switches fields", render.ColorDarkGray, render.ColorBlack)
	}

	if m.ErrorText != "" {
		for i, line := range wrapLines(m.ErrorText, w-4) {
			buf.WriteString(x+2, y+h-5+i, line, render.ColorLightRed, render.ColorBlack)
		}
	}

	nextClr := uint8(render.ColorDarkGray)
	if m.NextEnabled {
		nextClr = render.ColorLightGreen
	}
	buf.WriteString(x+2, y+h-2, "[ENTER] next", nextClr, render.ColorBlack)
	if m.ReplayVisible {
		buf.WriteString(x+18, y+h-2, "[F5] replay", render.ColorLightGray, render.ColorBlack)
	}
	buf.WriteString(x+w-14, y+h-2, "[ESC] close", render.ColorLightGray, render.ColorBlack)
}

// drawClip renders the guide clip placeholder: animated shading while the
// clip plays, frozen when paused.
func (g *Game) drawClip(buf *render.CellBuffer, x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			glyph := byte(render.GlyphShadeLight)
			if (dx+dy+g.clip.frame/6)%3 == 0 {
				glyph = render.GlyphShadeDark
			}
			buf.Set(x+dx, y+dy, glyph, render.ColorDarkGray, render.ColorBlack)
		}
	}
	label := g.clip.label()
	buf.WriteString(x+(w-len(label))/2, y+h/2, label, render.ColorWhite, render.ColorBlack)
}

func (g *Game) drawClassModal(buf *render.CellBuffer) {
	c := g.session.Class
	w, h := 36, 12
	x := (g.gridCols - w) / 2
	y := (g.gridRows - h) / 2

	buf.FillRect(x, y, w, h, ' ', render.ColorWhite, render.ColorBlack)
	buf.Frame(x, y, w, h, render.ColorLightGreen, render.ColorBlack)
	buf.WriteString(x+2, y, fmt.Sprintf(" %s ", c.Title), render.ColorLightGreen, render.ColorBlack)

	row := y + 2
	buf.WriteString(x+2, row, "Participating classes:", render.ColorLightGray, render.ColorBlack)
	row++
	for i, class := range c.Classes {
		if row >= y+h-2 {
			buf.WriteString(x+2, row, fmt.Sprintf("(+%d more)", len(c.Classes)-i), render.ColorDarkGray, render.ColorBlack)
			break
		}
		buf.WriteString(x+4, row, class.ID, render.ColorWhite, render.ColorBlack)
		row++
	}
	buf.WriteString(x+2, y+h-2, "[ENTER] close", render.ColorLightGray, render.ColorBlack)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// clipPlayer is the guide clip the wizard controls. There is no real video
// in the shell; it animates a placeholder and obeys play/pause/rewind.
type clipPlayer struct {
	variant rally.VideoVariant
	playing bool
	frame   int
}

func (c *clipPlayer) Play()   { c.playing = true }
func (c *clipPlayer) Pause()  { c.playing = false }
func (c *clipPlayer) Rewind() { c.frame = 0 }

func (c *clipPlayer) Tick() {
	if c.playing {
		c.frame++
	}
}

func (c *clipPlayer) label() string {
	switch c.variant {
	case rally.VideoIPhone:
		return "[ guide clip: iPhone ]"
	case rally.VideoAndroid:
		return "[ guide clip: Android ]"
	default:
		return "[ guide clip ]"
	}
}

func trimLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}

// wrapLines splits text into lines no longer than maxWidth.
func wrapLines(s string, maxWidth int) []string {
	if s == "" {
		return nil
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > maxWidth:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func main() {
	cfg, err := config.Load("stampwalk.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	records, err := store.Open(filepath.Join(cfg.DataDir, "records.json"))
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}

	profile := rally.DetectDevice(cfg.UserAgent, cfg.ScreenWidth)
	clip := &clipPlayer{variant: profile.VideoVariant}

	session, err := rally.NewSession(rally.Deps{
		Store:          records,
		Gateway:        gateway.New(cfg.ServerURL),
		Media:          clip,
		Profile:        profile,
		Log:            logger,
		StartFloorHash: cfg.StartFloor,
	})
	if err != nil {
		return err
	}

	for floor := 1; floor <= rally.FloorCount; floor++ {
		data, err := assets.Floors.ReadFile(fmt.Sprintf("floors/floor%d.json", floor))
		if err != nil {
			return fmt.Errorf("loading floor %d plan: %w", floor, err)
		}
		plan, err := venue.LoadFloorPlan(data)
		if err != nil {
			return err
		}
		if err := session.Nav.Mount(plan.Floor, plan.ToTileGrid()); err != nil {
			return err
		}
	}

	if err := session.Init(); err != nil {
		return err
	}
	logger.Info("page initialized",
		"server", cfg.ServerURL,
		"device", profile.DeviceLabel,
		"wide", profile.IsWideScreen,
	)

	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowTitle(title)
	if err := ebiten.RunGame(NewGame(cfg, session, clip)); err != nil {
		return fmt.Errorf("running shell: %w", err)
	}
	return nil
}
