package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/schriftgestalt/drawbot"
)

// gradientImage evaluates a gradient per pixel in device space. It is
// composited through the path coverage mask, so Bounds covers the whole
// page.
type gradientImage struct {
	g      *drawbot.Gradient
	bounds image.Rectangle

	// geometry, premapped to device pixels
	start, end   drawbot.Point
	startR, endR float64
	dir          drawbot.Point // end-start
	lenSq        float64
}

func newGradientImage(g *drawbot.Gradient, p *page, scale float64) *gradientImage {
	sx, sy := p.device(g.Start, scale)
	ex, ey := p.device(g.End, scale)
	gi := &gradientImage{
		g:      g,
		bounds: p.img.Bounds(),
		start:  drawbot.Point{X: float64(sx), Y: float64(sy)},
		end:    drawbot.Point{X: float64(ex), Y: float64(ey)},
		startR: g.StartRadius * scale,
		endR:   g.EndRadius * scale,
	}
	gi.dir = gi.end.Sub(gi.start)
	gi.lenSq = gi.dir.Dot(gi.dir)
	return gi
}

func (gi *gradientImage) ColorModel() color.Model { return color.NRGBAModel }

func (gi *gradientImage) Bounds() image.Rectangle { return gi.bounds }

func (gi *gradientImage) At(x, y int) color.Color {
	p := drawbot.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	var t float64
	if gi.g.Kind == drawbot.GradientLinear {
		if gi.lenSq > 0 {
			t = p.Sub(gi.start).Dot(gi.dir) / gi.lenSq
		}
	} else {
		dist := p.Distance(gi.start)
		if span := gi.endR - gi.startR; span != 0 {
			t = (dist - gi.startR) / span
		}
	}
	t = math.Max(0, math.Min(1, t))
	return gi.g.ColorAt(t).NRGBA()
}
