package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/stampwalk/stampwalk/internal/venue"
)

// roomColors cycles per room index so adjacent classrooms read apart.
var roomColors = [...]uint8{ColorCyan, ColorGreen, ColorMagenta, ColorBrown, ColorBlue}

// MapRenderer draws a floor grid with a pan/zoom camera. Unlike the
// CellBuffer chrome, tiles are placed at fractional pixel positions so
// panning and zooming stay smooth.
type MapRenderer struct {
	Atlas   *FontAtlas
	CellW   int
	CellH   int
	bgPixel *ebiten.Image
}

// NewMapRenderer creates a map renderer sharing the chrome's atlas.
func NewMapRenderer(atlas *FontAtlas, cellW, cellH int) *MapRenderer {
	bgPixel := ebiten.NewImage(1, 1)
	bgPixel.Fill(color.White)
	return &MapRenderer{Atlas: atlas, CellW: cellW, CellH: cellH, bgPixel: bgPixel}
}

// DrawFloor renders grid into the given screen viewport. offsetX/offsetY
// are the camera position in tiles, zoom the tile scale factor. checked
// reports whether a stamp ID has been collected, switching its marker.
func (r *MapRenderer) DrawFloor(screen *ebiten.Image, grid *venue.TileGrid, viewport image.Rectangle, offsetX, offsetY, zoom float64, checked func(string) bool) {
	view := screen.SubImage(viewport).(*ebiten.Image)

	tileW := float64(r.CellW) * zoom
	tileH := float64(r.CellH) * zoom
	scaleX := tileW / float64(GlyphWidth)
	scaleY := tileH / float64(GlyphHeight)

	var op ebiten.DrawImageOptions
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			px := float64(viewport.Min.X) + (float64(x)-offsetX)*tileW
			py := float64(viewport.Min.Y) + (float64(y)-offsetY)*tileH
			if px+tileW < float64(viewport.Min.X) || px > float64(viewport.Max.X) ||
				py+tileH < float64(viewport.Min.Y) || py > float64(viewport.Max.Y) {
				continue
			}

			tile := grid.Get(x, y)
			glyph, fg, bg := tileVisuals(tile, checked)

			if bg != ColorBlack {
				op = ebiten.DrawImageOptions{}
				op.GeoM.Scale(tileW, tileH)
				op.GeoM.Translate(px, py)
				op.ColorScale.ScaleWithColor(Palette[bg])
				view.DrawImage(r.bgPixel, &op)
			}
			if glyph != ' ' && glyph != 0 {
				op = ebiten.DrawImageOptions{}
				op.GeoM.Scale(scaleX, scaleY)
				op.GeoM.Translate(px, py)
				op.ColorScale.ScaleWithColor(Palette[fg])
				view.DrawImage(r.Atlas.Glyph(glyph), &op)
			}
		}
	}
}

func tileVisuals(t venue.Tile, checked func(string) bool) (glyph byte, fg, bg uint8) {
	// A stamp waypoint sits on top of whatever tile carries it.
	if t.StampID != "" {
		if checked != nil && checked(t.StampID) {
			return GlyphCheck, ColorLightGreen, ColorBlack
		}
		return GlyphSquare, ColorYellow, ColorBlack
	}

	switch t.Kind {
	case venue.TileWall:
		return '#', ColorLightGray, ColorDarkGray
	case venue.TileHallway:
		return '.', ColorDarkGray, ColorBlack
	case venue.TileDoor:
		return '+', ColorDarkGray, ColorLightGray
	case venue.TileStairs:
		return '<', ColorYellow, ColorBlack
	case venue.TileEntrance:
		return '@', ColorLightCyan, ColorBlack
	case venue.TileClassroom:
		var clr uint8 = ColorCyan
		if t.Room >= 0 {
			clr = roomColors[t.Room%len(roomColors)]
		}
		return GlyphShadeLight, clr, ColorBlack
	default:
		return ' ', ColorBlack, ColorBlack
	}
}

// TileAt converts a screen pixel inside viewport to the grid cell it shows.
func TileAt(mx, my int, viewport image.Rectangle, cellW, cellH int, offsetX, offsetY, zoom float64) (int, int) {
	tileW := float64(cellW) * zoom
	tileH := float64(cellH) * zoom
	tx := int(offsetX + float64(mx-viewport.Min.X)/tileW)
	ty := int(offsetY + float64(my-viewport.Min.Y)/tileH)
	return tx, ty
}
