package overlay

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	colorPanel    = color.RGBA{R: 28, G: 28, B: 28, A: 220}
	colorButton   = color.RGBA{R: 56, G: 56, B: 56, A: 235}
	colorChecked  = color.RGBA{R: 0x00, G: 0xcc, B: 0x7a, A: 0xff}
	colorGlyph    = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	colorDanger   = color.RGBA{R: 0xe5, G: 0x48, B: 0x4d, A: 0xff}
	colorSelected = color.RGBA{R: 0x00, G: 0x7a, B: 0xcc, A: 0xff}
)

const panelRadius = 10.0

func newCanvas(size image.Point) *image.RGBA {
	return image.NewRGBA(image.Rectangle{Max: size})
}

func fillRoundRect(dst *image.RGBA, r image.Rectangle, radius float64, c color.Color) {
	b := dst.Bounds()
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b))
	rasterx.AddRoundRect(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y),
		radius, radius, 0, rasterx.RoundGap, filler)
	filler.SetColor(c)
	filler.Draw()
}

func fillCircle(dst *image.RGBA, r image.Rectangle, c color.Color) {
	b := dst.Bounds()
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b))
	rasterx.AddCircle(float64(r.Min.X+r.Dx()/2), float64(r.Min.Y+r.Dy()/2), float64(r.Dx())/2, filler)
	filler.SetColor(c)
	filler.Draw()
}

// drawIcon renders an SVG with currentColor replaced by c into r.
func drawIcon(dst *image.RGBA, svg string, r image.Rectangle, c color.RGBA) {
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	icon, err := oksvg.ReadIconStream(strings.NewReader(strings.ReplaceAll(svg, "currentColor", hex)))
	if err != nil {
		log.Printf("overlay: bad icon: %v", err)
		return
	}
	icon.SetTarget(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	b := dst.Bounds()
	icon.Draw(rasterx.NewDasher(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)), 1.0)
}

// drawTextCentered centers a single line of text inside r.
func drawTextCentered(dst *image.RGBA, text string, r image.Rectangle, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	height := (m.Ascent + m.Descent).Ceil()
	x := r.Min.X + (r.Dx()-width)/2
	y := r.Min.Y + (r.Dy()-height)/2 + m.Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
