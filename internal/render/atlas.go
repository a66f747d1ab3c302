package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	GlyphWidth  = 16
	GlyphHeight = 16
	AtlasCols   = 16
	AtlasRows   = 16
)

// Non-ASCII glyph codes the page chrome uses.
const (
	GlyphShadeLight = 176 // room interior fill
	GlyphShadeDark  = 178 // modal backdrop
	GlyphBlock      = 219 // solid block (panel chrome, bars)
	GlyphCheck      = 251 // collected-stamp check mark
	GlyphSquare     = 254 // stamp waypoint marker
)

// FontAtlas holds the glyph atlas and cached sub-images. ASCII comes from
// basicfont; the handful of marker/shade glyphs are drawn by hand.
type FontAtlas struct {
	image  *ebiten.Image
	glyphs [256]*ebiten.Image
}

// NewFontAtlas generates the glyph atlas at startup.
func NewFontAtlas() *FontAtlas {
	atlasW := AtlasCols * GlyphWidth
	atlasH := AtlasRows * GlyphHeight

	img := image.NewNRGBA(image.Rect(0, 0, atlasW, atlasH))
	face := basicfont.Face7x13

	for code := 0; code < 256; code++ {
		cx := (code % AtlasCols) * GlyphWidth
		cy := (code / AtlasCols) * GlyphHeight

		if code >= 32 && code <= 126 {
			drawFontGlyph(img, face, cx, cy, rune(code))
			continue
		}
		drawMarkerGlyph(img, cx, cy, byte(code))
	}

	eimg := ebiten.NewImageFromImage(img)
	a := &FontAtlas{image: eimg}

	for code := 0; code < 256; code++ {
		x := (code % AtlasCols) * GlyphWidth
		y := (code / AtlasCols) * GlyphHeight
		rect := image.Rect(x, y, x+GlyphWidth, y+GlyphHeight)
		a.glyphs[code] = eimg.SubImage(rect).(*ebiten.Image)
	}
	return a
}

// Glyph returns the cached sub-image for a glyph code.
func (a *FontAtlas) Glyph(code byte) *ebiten.Image {
	return a.glyphs[code]
}

// drawFontGlyph renders a single ASCII character into the atlas.
// basicfont.Face7x13 glyphs are 7x13, centered in a 16x16 cell.
func drawFontGlyph(img *image.NRGBA, face font.Face, cellX, cellY int, r rune) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(cellX+4, cellY+13),
	}
	d.DrawString(string(r))
}

// drawMarkerGlyph draws the non-ASCII glyphs the chrome needs.
func drawMarkerGlyph(img *image.NRGBA, cellX, cellY int, code byte) {
	w := color.NRGBA{255, 255, 255, 255}

	switch code {
	case GlyphShadeLight:
		for y := 0; y < GlyphHeight; y++ {
			for x := 0; x < GlyphWidth; x++ {
				if (x+y)%4 == 0 {
					img.SetNRGBA(cellX+x, cellY+y, w)
				}
			}
		}
	case GlyphShadeDark:
		for y := 0; y < GlyphHeight; y++ {
			for x := 0; x < GlyphWidth; x++ {
				if (x+y)%4 != 0 {
					img.SetNRGBA(cellX+x, cellY+y, w)
				}
			}
		}
	case GlyphBlock:
		for y := 0; y < GlyphHeight; y++ {
			for x := 0; x < GlyphWidth; x++ {
				img.SetNRGBA(cellX+x, cellY+y, w)
			}
		}
	case GlyphCheck:
		// Short down-stroke meeting a long up-stroke.
		for i := 0; i < 4; i++ {
			img.SetNRGBA(cellX+3+i, cellY+8+i, w)
			img.SetNRGBA(cellX+3+i, cellY+9+i, w)
		}
		for i := 0; i < 8; i++ {
			img.SetNRGBA(cellX+6+i, cellY+11-i, w)
			img.SetNRGBA(cellX+6+i, cellY+12-i, w)
		}
	case GlyphSquare:
		for y := 4; y < 12; y++ {
			for x := 4; x < 12; x++ {
				img.SetNRGBA(cellX+x, cellY+y, w)
			}
		}
	}
}
