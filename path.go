package drawbot

import (
	"fmt"
	"math"
)

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new contour at a point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// CurveTo draws a cubic Bezier curve. Both control points are explicit.
type CurveTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CurveTo) isPathElement() {}

// ClosePath closes the current contour.
type ClosePath struct{}

func (ClosePath) isPathElement() {}

// BezierPath is an ordered sequence of path elements. Every contour starts
// with a MoveTo; segment operations before the first MoveTo return
// ErrDrawingState.
type BezierPath struct {
	elements []PathElement
	start    Point // starting point of current contour
	current  Point // current point
	open     bool  // a contour has been started
}

// NewBezierPath creates a new empty path.
func NewBezierPath() *BezierPath {
	return &BezierPath{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo starts a new contour at pt.
func (p *BezierPath) MoveTo(pt Point) {
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
	p.open = true
}

// LineTo draws a line to pt.
func (p *BezierPath) LineTo(pt Point) error {
	if !p.open {
		return fmt.Errorf("%w: lineTo requires a preceding moveTo", ErrDrawingState)
	}
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
	return nil
}

// CurveTo draws a cubic Bezier curve to pt with control points cp1 and cp2.
func (p *BezierPath) CurveTo(cp1, cp2, pt Point) error {
	if !p.open {
		return fmt.Errorf("%w: curveTo requires a preceding moveTo", ErrDrawingState)
	}
	p.elements = append(p.elements, CurveTo{Control1: cp1, Control2: cp2, Point: pt})
	p.current = pt
	return nil
}

// QuadTo draws a quadratic Bezier curve to pt with control point cp.
// The segment is stored as the exactly equivalent cubic.
func (p *BezierPath) QuadTo(cp, pt Point) error {
	cp1 := p.current.Add(cp.Sub(p.current).Mul(2.0 / 3.0))
	cp2 := pt.Add(cp.Sub(pt).Mul(2.0 / 3.0))
	return p.CurveTo(cp1, cp2, pt)
}

// Close closes the current contour by drawing a line to its start point.
func (p *BezierPath) Close() error {
	if !p.open {
		return fmt.Errorf("%w: closePath requires a preceding moveTo", ErrDrawingState)
	}
	p.elements = append(p.elements, ClosePath{})
	p.current = p.start
	return nil
}

// ArcTo appends a circular arc of the given radius, tangent to the line
// from the current point to p1 and to the line from p1 to p2. A straight
// segment connects the current point to the start of the arc. Degenerate
// geometry (collinear points, zero radius) falls back to a line to p1.
func (p *BezierPath) ArcTo(p1, p2 Point, radius float64) error {
	if !p.open {
		return fmt.Errorf("%w: arcTo requires a preceding moveTo", ErrDrawingState)
	}
	u := p.current.Sub(p1)
	v := p2.Sub(p1)
	cross := u.Cross(v)
	if radius <= 0 || u.Length() == 0 || v.Length() == 0 || cross == 0 {
		return p.LineTo(p1)
	}
	u = u.Normalize()
	v = v.Normalize()

	// Half the angle between the tangent lines.
	half := math.Acos(u.Dot(v)) / 2
	if half == 0 || half == math.Pi/2 {
		return p.LineTo(p1)
	}
	dist := radius / math.Tan(half)
	t1 := p1.Add(u.Mul(dist))
	t2 := p1.Add(v.Mul(dist))

	bisector := u.Add(v).Normalize()
	center := p1.Add(bisector.Mul(radius / math.Sin(half)))

	a1 := math.Atan2(t1.Y-center.Y, t1.X-center.X)
	a2 := math.Atan2(t2.Y-center.Y, t2.X-center.X)
	// The tangent arc is always the minor arc between the tangent points.
	delta := a2 - a1
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}

	if err := p.LineTo(t1); err != nil {
		return err
	}
	p.arc(center, radius, a1, a1+delta)
	return nil
}

// arc appends cubic segments approximating a circular arc from a1 to a2.
// The current point must already be at the arc start.
func (p *BezierPath) arc(center Point, r, a1, a2 float64) {
	const maxAngle = math.Pi / 2
	numSegments := int(math.Ceil(math.Abs(a2-a1) / maxAngle))
	if numSegments < 1 {
		numSegments = 1
	}
	angleStep := (a2 - a1) / float64(numSegments)
	for i := 0; i < numSegments; i++ {
		p.arcSegment(center, r, a1+float64(i)*angleStep, a1+float64(i+1)*angleStep)
	}
}

// arcSegment appends a single cubic approximating an arc of at most 90 degrees.
func (p *BezierPath) arcSegment(center Point, r, a1, a2 float64) {
	alpha := math.Sin(a2-a1) * (math.Sqrt(4+3*math.Tan((a2-a1)/2)*math.Tan((a2-a1)/2)) - 1) / 3

	cos1, sin1 := math.Cos(a1), math.Sin(a1)
	cos2, sin2 := math.Cos(a2), math.Sin(a2)

	from := Point{X: center.X + r*cos1, Y: center.Y + r*sin1}
	to := Point{X: center.X + r*cos2, Y: center.Y + r*sin2}

	cp1 := Point{X: from.X - alpha*r*sin1, Y: from.Y + alpha*r*cos1}
	cp2 := Point{X: to.X + alpha*r*sin2, Y: to.Y - alpha*r*cos2}

	p.elements = append(p.elements, CurveTo{Control1: cp1, Control2: cp2, Point: to})
	p.current = to
}

// Rect adds a closed rectangle contour.
func (p *BezierPath) Rect(x, y, w, h float64) {
	p.MoveTo(Pt(x, y))
	p.elements = append(p.elements,
		LineTo{Point: Pt(x+w, y)},
		LineTo{Point: Pt(x+w, y+h)},
		LineTo{Point: Pt(x, y+h)},
		ClosePath{})
	p.current = p.start
}

// Oval adds a closed ellipse contour inscribed in the given box,
// approximated with four cubic Bezier curves.
func (p *BezierPath) Oval(x, y, w, h float64) {
	// Magic constant for circle approximation with cubic Beziers
	const k = 0.5522847498307936 // 4/3 * (sqrt(2) - 1)
	rx, ry := w/2, h/2
	cx, cy := x+rx, y+ry
	ox := rx * k
	oy := ry * k

	p.MoveTo(Pt(cx+rx, cy))
	p.elements = append(p.elements,
		CurveTo{Pt(cx+rx, cy+oy), Pt(cx+ox, cy+ry), Pt(cx, cy+ry)},
		CurveTo{Pt(cx-ox, cy+ry), Pt(cx-rx, cy+oy), Pt(cx-rx, cy)},
		CurveTo{Pt(cx-rx, cy-oy), Pt(cx-ox, cy-ry), Pt(cx, cy-ry)},
		CurveTo{Pt(cx+ox, cy-ry), Pt(cx+rx, cy-oy), Pt(cx+rx, cy)},
		ClosePath{})
	p.current = p.start
}

// Append concatenates another path's elements onto this path.
func (p *BezierPath) Append(other *BezierPath) {
	if other == nil {
		return
	}
	p.elements = append(p.elements, other.elements...)
	p.start = other.start
	p.current = other.current
	p.open = p.open || other.open
}

// Elements returns the path elements.
func (p *BezierPath) Elements() []PathElement {
	return p.elements
}

// CurrentPoint returns the current point.
func (p *BezierPath) CurrentPoint() Point {
	return p.current
}

// Empty reports whether the path has no elements.
func (p *BezierPath) Empty() bool {
	return len(p.elements) == 0
}

// Copy creates a deep copy of the path.
func (p *BezierPath) Copy() *BezierPath {
	if p == nil {
		return nil
	}
	result := NewBezierPath()
	result.elements = make([]PathElement, len(p.elements))
	copy(result.elements, p.elements)
	result.start = p.start
	result.current = p.current
	result.open = p.open
	return result
}

// Transform returns a new path with the transformation applied to all points.
func (p *BezierPath) Transform(m Matrix) *BezierPath {
	result := NewBezierPath()
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			result.MoveTo(m.TransformPoint(e.Point))
		case LineTo:
			result.elements = append(result.elements, LineTo{Point: m.TransformPoint(e.Point)})
		case CurveTo:
			result.elements = append(result.elements, CurveTo{
				Control1: m.TransformPoint(e.Control1),
				Control2: m.TransformPoint(e.Control2),
				Point:    m.TransformPoint(e.Point),
			})
		case ClosePath:
			result.elements = append(result.elements, ClosePath{})
		}
	}
	result.current = m.TransformPoint(p.current)
	result.start = m.TransformPoint(p.start)
	result.open = p.open
	return result
}

// Optimize removes a dangling trailing MoveTo. Drawing and appending
// operations leave such an element when a contour was started but never
// continued.
func (p *BezierPath) Optimize() {
	if n := len(p.elements); n > 0 {
		if _, ok := p.elements[n-1].(MoveTo); ok {
			p.elements = p.elements[:n-1]
		}
	}
}

// Points returns every point in the path in element order, control points
// included.
func (p *BezierPath) Points() []Point {
	var pts []Point
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			pts = append(pts, e.Point)
		case LineTo:
			pts = append(pts, e.Point)
		case CurveTo:
			pts = append(pts, e.Control1, e.Control2, e.Point)
		}
	}
	return pts
}

// OnCurvePoints returns the on-curve points of the path.
func (p *BezierPath) OnCurvePoints() []Point {
	var pts []Point
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			pts = append(pts, e.Point)
		case LineTo:
			pts = append(pts, e.Point)
		case CurveTo:
			pts = append(pts, e.Point)
		}
	}
	return pts
}

// OffCurvePoints returns the Bezier control points of the path.
func (p *BezierPath) OffCurvePoints() []Point {
	var pts []Point
	for _, elem := range p.elements {
		if e, ok := elem.(CurveTo); ok {
			pts = append(pts, e.Control1, e.Control2)
		}
	}
	return pts
}

// Contour is a single run of segments started by a MoveTo.
type Contour struct {
	Points []Point
	Closed bool
}

// Contours splits the path into contours. Control points are included in
// element order. A trailing single-point contour that merely repeats the
// previous contour's last point is dropped.
func (p *BezierPath) Contours() []Contour {
	var contours []Contour
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			contours = append(contours, Contour{Points: []Point{e.Point}})
		case LineTo:
			if len(contours) == 0 {
				continue
			}
			last := &contours[len(contours)-1]
			last.Points = append(last.Points, e.Point)
		case CurveTo:
			if len(contours) == 0 {
				continue
			}
			last := &contours[len(contours)-1]
			last.Points = append(last.Points, e.Control1, e.Control2, e.Point)
		case ClosePath:
			if len(contours) == 0 {
				continue
			}
			contours[len(contours)-1].Closed = true
		}
	}
	if n := len(contours); n >= 2 {
		last := contours[n-1]
		prev := contours[n-2]
		if len(last.Points) == 1 && !last.Closed && last.Points[0] == prev.Points[len(prev.Points)-1] {
			contours = contours[:n-1]
		}
	}
	return contours
}

// ControlPointBounds returns the bounding box of every point in the path,
// control points included. ok is false for an empty path.
func (p *BezierPath) ControlPointBounds() (min, max Point, ok bool) {
	pts := p.Points()
	if len(pts) == 0 {
		return Point{}, Point{}, false
	}
	min, max = pts[0], pts[0]
	for _, pt := range pts[1:] {
		min.X = math.Min(min.X, pt.X)
		min.Y = math.Min(min.Y, pt.Y)
		max.X = math.Max(max.X, pt.X)
		max.Y = math.Max(max.Y, pt.Y)
	}
	return min, max, true
}

// Bounds returns the tight bounding box of the path outline. Curve extrema
// are computed exactly instead of taking control points as bounds. ok is
// false for an empty path.
func (p *BezierPath) Bounds() (min, max Point, ok bool) {
	min = Point{X: math.Inf(1), Y: math.Inf(1)}
	max = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	extend := func(pt Point) {
		min.X = math.Min(min.X, pt.X)
		min.Y = math.Min(min.Y, pt.Y)
		max.X = math.Max(max.X, pt.X)
		max.Y = math.Max(max.Y, pt.Y)
		ok = true
	}

	var current Point
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			extend(e.Point)
			current = e.Point
		case LineTo:
			extend(e.Point)
			current = e.Point
		case CurveTo:
			extend(e.Point)
			for _, t := range cubicExtrema(current.X, e.Control1.X, e.Control2.X, e.Point.X) {
				extend(cubicPoint(current, e.Control1, e.Control2, e.Point, t))
			}
			for _, t := range cubicExtrema(current.Y, e.Control1.Y, e.Control2.Y, e.Point.Y) {
				extend(cubicPoint(current, e.Control1, e.Control2, e.Point, t))
			}
			current = e.Point
		}
	}
	if !ok {
		return Point{}, Point{}, false
	}
	return min, max, true
}

// cubicPoint evaluates the cubic Bezier at parameter t.
func cubicPoint(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// cubicExtrema returns the parameters in (0, 1) where the cubic's
// derivative along one axis is zero.
func cubicExtrema(p0, p1, p2, p3 float64) []float64 {
	// Derivative is a quadratic: at^2 + bt + c.
	a := 3 * (-p0 + 3*p1 - 3*p2 + p3)
	b := 6 * (p0 - 2*p1 + p2)
	c := 3 * (p1 - p0)

	var roots []float64
	if math.Abs(a) < 1e-12 {
		if math.Abs(b) > 1e-12 {
			roots = append(roots, -c/b)
		}
	} else {
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			roots = append(roots, (-b+sq)/(2*a), (-b-sq)/(2*a))
		}
	}

	var ts []float64
	for _, t := range roots {
		if t > 0 && t < 1 {
			ts = append(ts, t)
		}
	}
	return ts
}

// insideSteps is the cubic sampling resolution for point containment.
const insideSteps = 16

// PointInside reports whether pt lies inside the filled path under the
// non-zero winding rule. Curves are sampled; open contours are treated as
// implicitly closed.
func (p *BezierPath) PointInside(pt Point) bool {
	var winding int
	var start, current Point
	started := false
	edge := func(a, b Point) {
		cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
		if a.Y <= pt.Y {
			if b.Y > pt.Y && cross > 0 {
				winding++
			}
		} else if b.Y <= pt.Y && cross < 0 {
			winding--
		}
	}
	closeContour := func() {
		if started && current != start {
			edge(current, start)
		}
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			closeContour()
			start, current = e.Point, e.Point
			started = true
		case LineTo:
			edge(current, e.Point)
			current = e.Point
		case CurveTo:
			prev := current
			for i := 1; i <= insideSteps; i++ {
				t := float64(i) / insideSteps
				next := cubicPoint(current, e.Control1, e.Control2, e.Point, t)
				edge(prev, next)
				prev = next
			}
			current = e.Point
		case ClosePath:
			edge(current, start)
			current = start
		}
	}
	closeContour()
	return winding != 0
}
