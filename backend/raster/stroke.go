package raster

import (
	"github.com/schriftgestalt/drawbot"
)

// strokeOutline builds a fillable outline approximating the stroke of a
// path: every flattened segment becomes a quad of the stroke width, and
// circles are stamped on interior vertices so joins never crack. Round
// caps get end circles, square caps extend the segment by half the
// width. This is preview quality; miter geometry is not reproduced.
func strokeOutline(path *drawbot.BezierPath, width float64, dash []float64, lineCap drawbot.LineCap, join drawbot.LineJoin) *drawbot.BezierPath {
	half := width / 2
	out := drawbot.NewBezierPath()

	for _, line := range dashPolylines(flattenContours(path), dash) {
		if len(line) < 2 {
			continue
		}
		if lineCap == drawbot.LineCapSquare {
			line = extendEnds(line, half)
		}
		for i := 0; i+1 < len(line); i++ {
			addSegmentQuad(out, line[i], line[i+1], half)
		}
		// Interior joins.
		for i := 1; i+1 < len(line); i++ {
			addDot(out, line[i], half)
		}
		if lineCap == drawbot.LineCapRound {
			addDot(out, line[0], half)
			addDot(out, line[len(line)-1], half)
		}
	}
	return out
}

// addSegmentQuad adds the rectangle covering one thick segment.
func addSegmentQuad(out *drawbot.BezierPath, p, q drawbot.Point, half float64) {
	d := q.Sub(p)
	if d.Length() == 0 {
		return
	}
	n := drawbot.Point{X: -d.Y, Y: d.X}.Normalize().Mul(half)
	out.MoveTo(p.Add(n))
	_ = out.LineTo(q.Add(n))
	_ = out.LineTo(q.Sub(n))
	_ = out.LineTo(p.Sub(n))
	_ = out.Close()
}

// addDot stamps a circle of radius half at pt.
func addDot(out *drawbot.BezierPath, pt drawbot.Point, half float64) {
	out.Oval(pt.X-half, pt.Y-half, 2*half, 2*half)
}

// extendEnds lengthens the first and last segment by half (square caps).
func extendEnds(line []drawbot.Point, half float64) []drawbot.Point {
	out := append([]drawbot.Point(nil), line...)
	first := out[0].Sub(out[1]).Normalize().Mul(half)
	out[0] = out[0].Add(first)
	last := out[len(out)-1].Sub(out[len(out)-2]).Normalize().Mul(half)
	out[len(out)-1] = out[len(out)-1].Add(last)
	return out
}

// flattenContours converts the path into polylines, one per contour.
// Closed contours repeat their start point.
func flattenContours(path *drawbot.BezierPath) [][]drawbot.Point {
	var lines [][]drawbot.Point
	var cur []drawbot.Point
	var start drawbot.Point
	flush := func() {
		if len(cur) > 1 {
			lines = append(lines, cur)
		}
		cur = nil
	}
	for _, elem := range path.Elements() {
		switch e := elem.(type) {
		case drawbot.MoveTo:
			flush()
			cur = []drawbot.Point{e.Point}
			start = e.Point
		case drawbot.LineTo:
			cur = append(cur, e.Point)
		case drawbot.CurveTo:
			if len(cur) == 0 {
				continue
			}
			p0 := cur[len(cur)-1]
			for i := 1; i <= flattenSteps; i++ {
				t := float64(i) / flattenSteps
				cur = append(cur, cubicPointAt(p0, e.Control1, e.Control2, e.Point, t))
			}
		case drawbot.ClosePath:
			if len(cur) > 0 {
				cur = append(cur, start)
			}
			flush()
		}
	}
	flush()
	return lines
}

func cubicPointAt(p0, p1, p2, p3 drawbot.Point, t float64) drawbot.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return drawbot.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// dashPolylines splits polylines into their "on" spans following the
// dash pattern. A nil pattern passes everything through.
func dashPolylines(lines [][]drawbot.Point, dash []float64) [][]drawbot.Point {
	if len(dash) == 0 {
		return lines
	}
	var total float64
	for _, d := range dash {
		total += d
	}
	if total <= 0 {
		return lines
	}

	var out [][]drawbot.Point
	for _, line := range lines {
		idx := 0 // current dash entry
		on := true
		var cur []drawbot.Point
		remaining := dash[0]

		emit := func() {
			if on && len(cur) > 1 {
				out = append(out, cur)
			}
			cur = nil
		}

		if on {
			cur = []drawbot.Point{line[0]}
		}
		for i := 0; i+1 < len(line); i++ {
			p, q := line[i], line[i+1]
			segLen := p.Distance(q)
			pos := 0.0
			for segLen-pos > remaining {
				pos += remaining
				cut := p.Lerp(q, pos/segLen)
				if on {
					cur = append(cur, cut)
				}
				emit()
				// Advance to the next dash entry.
				idx = (idx + 1) % len(dash)
				remaining = dash[idx]
				on = !on
				if on {
					cur = []drawbot.Point{cut}
				}
			}
			remaining -= segLen - pos
			if remaining < 0 {
				remaining = 0
			}
			if on {
				cur = append(cur, q)
			}
		}
		emit()
	}
	return out
}
