package drawbot

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathSegmentsRequireMoveTo(t *testing.T) {
	tests := []struct {
		name string
		op   func(p *BezierPath) error
	}{
		{"lineTo", func(p *BezierPath) error { return p.LineTo(Pt(1, 1)) }},
		{"curveTo", func(p *BezierPath) error { return p.CurveTo(Pt(0, 1), Pt(1, 1), Pt(1, 0)) }},
		{"quadTo", func(p *BezierPath) error { return p.QuadTo(Pt(0, 1), Pt(1, 0)) }},
		{"arcTo", func(p *BezierPath) error { return p.ArcTo(Pt(0, 0), Pt(1, 0), 1) }},
		{"closePath", func(p *BezierPath) error { return p.Close() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBezierPath()
			if err := tt.op(p); !errors.Is(err, ErrDrawingState) {
				t.Errorf("%s on empty path: error = %v, want ErrDrawingState", tt.name, err)
			}
		})
	}
}

func TestQuadToStoresEquivalentCubic(t *testing.T) {
	p := NewBezierPath()
	p.MoveTo(Pt(0, 0))
	if err := p.QuadTo(Pt(50, 100), Pt(100, 0)); err != nil {
		t.Fatalf("QuadTo() error: %v", err)
	}
	elems := p.Elements()
	if len(elems) != 2 {
		t.Fatalf("got %d elements, want 2", len(elems))
	}
	curve, ok := elems[1].(CurveTo)
	if !ok {
		t.Fatalf("second element is %T, want CurveTo", elems[1])
	}
	// Degree elevation: cp1 = p0 + 2/3 (cp - p0), cp2 = p3 + 2/3 (cp - p3).
	wantCp1 := Pt(100.0/3, 200.0/3)
	wantCp2 := Pt(200.0/3, 200.0/3)
	if curve.Control1.Distance(wantCp1) > 1e-9 || curve.Control2.Distance(wantCp2) > 1e-9 {
		t.Errorf("control points = %+v, %+v, want %+v, %+v",
			curve.Control1, curve.Control2, wantCp1, wantCp2)
	}
}

func TestCloseReturnsToContourStart(t *testing.T) {
	p := NewBezierPath()
	p.MoveTo(Pt(10, 20))
	if err := p.LineTo(Pt(30, 40)); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if got := p.CurrentPoint(); got != Pt(10, 20) {
		t.Errorf("CurrentPoint() after Close = %+v, want {10 20}", got)
	}
}

func TestRectElements(t *testing.T) {
	p := NewBezierPath()
	p.Rect(1, 2, 10, 20)
	want := []PathElement{
		MoveTo{Point: Pt(1, 2)},
		LineTo{Point: Pt(11, 2)},
		LineTo{Point: Pt(11, 22)},
		LineTo{Point: Pt(1, 22)},
		ClosePath{},
	}
	if diff := cmp.Diff(want, p.Elements()); diff != "" {
		t.Errorf("Rect elements mismatch (-want +got):\n%s", diff)
	}
}

func TestOvalShape(t *testing.T) {
	p := NewBezierPath()
	p.Oval(0, 0, 100, 50)
	elems := p.Elements()
	if len(elems) != 6 {
		t.Fatalf("got %d elements, want 6 (move + 4 curves + close)", len(elems))
	}
	min, max, ok := p.Bounds()
	if !ok {
		t.Fatal("Bounds() not ok")
	}
	if min.Distance(Pt(0, 0)) > 1e-9 || max.Distance(Pt(100, 50)) > 1e-9 {
		t.Errorf("Bounds() = %+v, %+v, want {0 0}, {100 50}", min, max)
	}
}

func TestArcToRoundsCorner(t *testing.T) {
	p := NewBezierPath()
	p.MoveTo(Pt(0, 100))
	if err := p.ArcTo(Pt(0, 0), Pt(100, 0), 10); err != nil {
		t.Fatalf("ArcTo() error: %v", err)
	}
	// Tangent points of a right angle corner with radius 10.
	elems := p.Elements()
	line, ok := elems[1].(LineTo)
	if !ok {
		t.Fatalf("second element is %T, want LineTo to the arc start", elems[1])
	}
	if line.Point.Distance(Pt(0, 10)) > 1e-9 {
		t.Errorf("arc start = %+v, want {0 10}", line.Point)
	}
	if got := p.CurrentPoint(); got.Distance(Pt(10, 0)) > 1e-9 {
		t.Errorf("arc end = %+v, want {10 0}", got)
	}
	// The arc must stay on the corner side, close to the corner radius.
	for _, pt := range p.OnCurvePoints()[1:] {
		d := pt.Distance(Pt(10, 10))
		if math.Abs(d-10) > 0.1 {
			t.Errorf("on-curve point %+v is %g from the arc center, want ~10", pt, d)
		}
	}
}

func TestArcToDegenerateFallsBackToLine(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		radius float64
	}{
		{"collinear", Pt(50, 0), Pt(100, 0), 10},
		{"zero radius", Pt(50, 50), Pt(100, 0), 0},
		{"p1 equals current", Pt(0, 0), Pt(100, 0), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBezierPath()
			p.MoveTo(Pt(0, 0))
			if err := p.ArcTo(tt.p1, tt.p2, tt.radius); err != nil {
				t.Fatalf("ArcTo() error: %v", err)
			}
			elems := p.Elements()
			if len(elems) != 2 {
				t.Fatalf("got %d elements, want 2", len(elems))
			}
			if _, ok := elems[1].(LineTo); !ok {
				t.Errorf("second element is %T, want LineTo", elems[1])
			}
		})
	}
}

func TestOptimizeRemovesTrailingMoveTo(t *testing.T) {
	p := NewBezierPath()
	p.Rect(0, 0, 10, 10)
	p.MoveTo(Pt(50, 50))
	p.Optimize()
	if n := len(p.Elements()); n != 5 {
		t.Errorf("got %d elements after Optimize, want 5", n)
	}
	// Idempotent on a path without a dangling MoveTo.
	p.Optimize()
	if n := len(p.Elements()); n != 5 {
		t.Errorf("second Optimize changed the path: %d elements", n)
	}
}

func TestContours(t *testing.T) {
	p := NewBezierPath()
	p.Rect(0, 0, 10, 10)
	p.MoveTo(Pt(20, 20))
	if err := p.LineTo(Pt(30, 20)); err != nil {
		t.Fatal(err)
	}
	contours := p.Contours()
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}
	if !contours[0].Closed {
		t.Error("rect contour should be closed")
	}
	if contours[1].Closed {
		t.Error("open contour reported closed")
	}
	if len(contours[1].Points) != 2 {
		t.Errorf("open contour has %d points, want 2", len(contours[1].Points))
	}
}

func TestContoursDropsRedundantTrailingPoint(t *testing.T) {
	p := NewBezierPath()
	p.MoveTo(Pt(0, 0))
	if err := p.LineTo(Pt(10, 0)); err != nil {
		t.Fatal(err)
	}
	// A dangling MoveTo back to the last point adds nothing.
	p.MoveTo(Pt(10, 0))
	if got := len(p.Contours()); got != 1 {
		t.Errorf("got %d contours, want 1", got)
	}
}

func TestBoundsUsesCurveExtrema(t *testing.T) {
	p := NewBezierPath()
	p.MoveTo(Pt(0, 0))
	if err := p.CurveTo(Pt(0, 100), Pt(100, 100), Pt(100, 0)); err != nil {
		t.Fatal(err)
	}

	min, max, ok := p.Bounds()
	if !ok {
		t.Fatal("Bounds() not ok")
	}
	// The curve apex is at t=0.5, y = 75; the control points at y = 100
	// must not leak into the tight bounds.
	if math.Abs(max.Y-75) > 1e-9 {
		t.Errorf("Bounds max.Y = %g, want 75", max.Y)
	}
	if min != Pt(0, 0) || math.Abs(max.X-100) > 1e-9 {
		t.Errorf("Bounds = %+v, %+v", min, max)
	}

	cmin, cmax, ok := p.ControlPointBounds()
	if !ok {
		t.Fatal("ControlPointBounds() not ok")
	}
	if cmin != Pt(0, 0) || cmax != Pt(100, 100) {
		t.Errorf("ControlPointBounds = %+v, %+v, want {0 0}, {100 100}", cmin, cmax)
	}
}

func TestBoundsEmptyPath(t *testing.T) {
	p := NewBezierPath()
	if _, _, ok := p.Bounds(); ok {
		t.Error("Bounds() of empty path should not be ok")
	}
	if _, _, ok := p.ControlPointBounds(); ok {
		t.Error("ControlPointBounds() of empty path should not be ok")
	}
}

func TestPathTransform(t *testing.T) {
	p := NewBezierPath()
	p.MoveTo(Pt(1, 2))
	if err := p.LineTo(Pt(3, 4)); err != nil {
		t.Fatal(err)
	}
	moved := p.Transform(Translate(10, 20))
	want := []PathElement{
		MoveTo{Point: Pt(11, 22)},
		LineTo{Point: Pt(13, 24)},
	}
	if diff := cmp.Diff(want, moved.Elements()); diff != "" {
		t.Errorf("Transform mismatch (-want +got):\n%s", diff)
	}
	// Original untouched.
	if p.Elements()[0].(MoveTo).Point != Pt(1, 2) {
		t.Error("Transform mutated the original path")
	}
}

func TestPathCopyIsDeep(t *testing.T) {
	p := NewBezierPath()
	p.Rect(0, 0, 10, 10)
	c := p.Copy()
	c.MoveTo(Pt(99, 99))
	if len(p.Elements()) != 5 {
		t.Errorf("mutating the copy changed the original: %d elements", len(p.Elements()))
	}
}

func TestPointQueries(t *testing.T) {
	p := NewBezierPath()
	p.MoveTo(Pt(0, 0))
	if err := p.CurveTo(Pt(0, 1), Pt(1, 1), Pt(1, 0)); err != nil {
		t.Fatal(err)
	}
	if err := p.LineTo(Pt(2, 0)); err != nil {
		t.Fatal(err)
	}
	if got := len(p.Points()); got != 5 {
		t.Errorf("Points() = %d points, want 5", got)
	}
	if got := len(p.OnCurvePoints()); got != 3 {
		t.Errorf("OnCurvePoints() = %d points, want 3", got)
	}
	if got := len(p.OffCurvePoints()); got != 2 {
		t.Errorf("OffCurvePoints() = %d points, want 2", got)
	}
}

func TestAppend(t *testing.T) {
	a := NewBezierPath()
	a.Rect(0, 0, 10, 10)
	b := NewBezierPath()
	b.MoveTo(Pt(20, 20))
	if err := b.LineTo(Pt(30, 30)); err != nil {
		t.Fatal(err)
	}
	a.Append(b)
	if got := len(a.Elements()); got != 7 {
		t.Errorf("got %d elements after Append, want 7", got)
	}
	if got := a.CurrentPoint(); got != Pt(30, 30) {
		t.Errorf("CurrentPoint() = %+v, want {30 30}", got)
	}
	a.Append(nil)
	if got := len(a.Elements()); got != 7 {
		t.Errorf("Append(nil) changed the path: %d elements", got)
	}
}

func TestPointInside(t *testing.T) {
	rect := NewBezierPath()
	rect.Rect(10, 10, 20, 20)

	oval := NewBezierPath()
	oval.Oval(0, 0, 10, 10)

	open := NewBezierPath()
	open.MoveTo(Pt(0, 0))
	if err := open.LineTo(Pt(10, 0)); err != nil {
		t.Fatal(err)
	}
	if err := open.LineTo(Pt(10, 10)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path *BezierPath
		pt   Point
		want bool
	}{
		{"rect center", rect, Pt(20, 20), true},
		{"rect outside", rect, Pt(35, 20), false},
		{"rect below", rect, Pt(20, 5), false},
		{"oval center", oval, Pt(5, 5), true},
		{"oval corner gap", oval, Pt(0.5, 0.5), false},
		{"open contour closes implicitly", open, Pt(8, 2), true},
		{"open contour outside", open, Pt(2, 8), false},
		{"empty path", NewBezierPath(), Pt(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.PointInside(tt.pt); got != tt.want {
				t.Errorf("PointInside(%+v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}
