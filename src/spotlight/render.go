package spotlight

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	ScrimColor   = color.RGBA{A: 180}
	AccentColor  = color.RGBA{R: 0x00, G: 0xcc, B: 0x7a, A: 0xff}
	closeFill    = color.RGBA{R: 40, G: 40, B: 40, A: 230}
	closeGlyph   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	hintColor    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	cornerRadius = 10.0
	outlineWidth = 3.0
)

const hint = "Drag to highlight an area. Right-click to close."

// Render paints the overlay into dst, a Bounds-sized image with its origin
// at zero. Pixels are premultiplied RGBA, ready for a per-pixel-alpha window.
func (o *Overlay) Render(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(ScrimColor), image.Point{}, draw.Src)

	sel := o.Selection().Sub(o.bounds.Min)
	if sel.Empty() {
		drawHint(dst)
		return
	}

	clearHole(dst, sel)
	strokeRoundRect(dst, sel, cornerRadius, outlineWidth, AccentColor)

	if r, ok := o.CloseButton(); ok {
		drawCloseButton(dst, r.Sub(o.bounds.Min))
	}
}

// clearHole punches the rounded selection back to full transparency.
func clearHole(dst *image.RGBA, sel image.Rectangle) {
	b := dst.Bounds()
	mask := image.NewAlpha(b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), mask, b))
	rasterx.AddRoundRect(float64(sel.Min.X), float64(sel.Min.Y), float64(sel.Max.X), float64(sel.Max.Y),
		cornerRadius, cornerRadius, 0, rasterx.RoundGap, filler)
	filler.SetColor(color.Opaque)
	filler.Draw()

	draw.DrawMask(dst, sel, image.Transparent, image.Point{}, mask, sel.Min, draw.Src)
}

func strokeRoundRect(dst *image.RGBA, r image.Rectangle, radius, width float64, c color.Color) {
	b := dst.Bounds()
	stroker := rasterx.NewStroker(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b))
	stroker.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(4*64), rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.ArcClip)
	rasterx.AddRoundRect(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y),
		radius, radius, 0, rasterx.RoundGap, stroker)
	stroker.SetColor(c)
	stroker.Draw()
}

func drawCloseButton(dst *image.RGBA, r image.Rectangle) {
	b := dst.Bounds()
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b))
	rasterx.AddCircle(float64(r.Min.X+r.Dx()/2), float64(r.Min.Y+r.Dy()/2), float64(r.Dx())/2, filler)
	filler.SetColor(closeFill)
	filler.Draw()

	const inset = 9
	stroker := rasterx.NewStroker(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b))
	stroker.SetStroke(fixed.Int26_6(2*64), fixed.Int26_6(4*64), rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round)
	line(stroker, r.Min.X+inset, r.Min.Y+inset, r.Max.X-inset, r.Max.Y-inset)
	line(stroker, r.Max.X-inset, r.Min.Y+inset, r.Min.X+inset, r.Max.Y-inset)
	stroker.SetColor(closeGlyph)
	stroker.Draw()
}

func line(p rasterx.Adder, x0, y0, x1, y1 int) {
	p.Start(fixed.Point26_6{X: fixed.I(x0), Y: fixed.I(y0)})
	p.Line(fixed.Point26_6{X: fixed.I(x1), Y: fixed.I(y1)})
	p.Stop(false)
}

func drawHint(dst *image.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, hint).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(hintColor),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(dst.Bounds().Min.X + (dst.Bounds().Dx()-width)/2), Y: fixed.I(dst.Bounds().Min.Y + 40)},
	}
	d.DrawString(hint)
}
