package curveedit

import (
	"slices"
	"testing"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestLinearAtControlPoints(t *testing.T) {
	pts := demoValues()
	for _, cv := range pts {
		if got := LinearAt(cv.Time, pts); got != cv.Value {
			t.Errorf("LinearAt(%g): got %v, want exactly %v", cv.Time, got, cv.Value)
		}
	}
}

func TestLinearAt(t *testing.T) {
	pts := demoValues()
	tests := []struct {
		t    float64
		want float64
	}{
		{0.25, 15},
		{0.65, 40},
		{0.9, 55},
		// Beyond the last point.
		{1.5, 60},
		// Before the first point.
		{-1, 0},
	}
	for _, tt := range tests {
		got := LinearAt(tt.t, pts)
		diff(t, tt.want, got, approx)
	}
}

func TestLinearAtDuplicateTimes(t *testing.T) {
	pts := []ControlValue{
		{Time: 0, Value: 0},
		{Time: 0.5, Value: 10},
		{Time: 0.5, Value: 20},
		{Time: 1, Value: 30},
	}
	// The rightmost point at t wins.
	if got := LinearAt(0.5, pts); got != 20 {
		t.Errorf("got %v, want 20", got)
	}
	diff(t, 5.0, LinearAt(0.25, pts), approx)
	diff(t, 25.0, LinearAt(0.75, pts), approx)

	single := []ControlValue{{Time: 0.3, Value: 7}}
	for _, x := range []float64{0, 0.3, 1} {
		if got := LinearAt(x, single); got != 7 {
			t.Errorf("LinearAt(%g) with single point: got %v, want 7", x, got)
		}
	}
}

func TestSplinePanics(t *testing.T) {
	mustPanic(t, "LinearAt", func() { LinearAt(0, nil) })
	mustPanic(t, "CatmullRomAt", func() { CatmullRomAt(0, nil) })
	mustPanic(t, "CatmullRomAtTime", func() { CatmullRomAtTime(0, nil) })
	mustPanic(t, "CatmullRomSegment", func() { CatmullRomSegment(0, 0, nil) })
	mustPanic(t, "TessellateCatmullRom", func() { TessellateCatmullRom(0, []float64{1, 2}) })
	mustPanic(t, "TessellateCatmullRomClamped", func() { TessellateCatmullRomClamped(-1, []float64{1, 2}, 0, 1) })
}

func TestCatmullRomBlend(t *testing.T) {
	if got := CatmullRomBlend(3, 7, -2, 11, 0); got != 7 {
		t.Errorf("got %v, want 7", got)
	}
	if got := CatmullRomBlend(3, 7, -2, 11, 1); got != -2 {
		t.Errorf("got %v, want -2", got)
	}
	// Catmull-Rom splines reproduce straight lines.
	for _, x := range []float64{0.1, 0.25, 0.5, 0.9} {
		diff(t, 1+x, CatmullRomBlend(0, 1, 2, 3, x), approx)
	}
	// A symmetric bump peaks in the middle of its segment.
	diff(t, 112.5, CatmullRomBlend(0, 100, 100, 0, 0.5), approx)
}

func TestCatmullRomSegmentNeighbours(t *testing.T) {
	values := []float64{0, 10, 40}
	// The first segment uses the first value as its own left neighbour.
	diff(t, CatmullRomBlend(0, 0, 10, 40, 0.3), CatmullRomSegment(0, 0.3, values))
	// The last segment uses the last value as its own right neighbour.
	diff(t, CatmullRomBlend(0, 10, 40, 40, 0.3), CatmullRomSegment(1, 0.3, values))
}

func TestCatmullRomAtEndpoints(t *testing.T) {
	tests := [][]float64{
		{0, 30, 50, 60},
		{0.1, -7.3, 12.9},
		{42},
		{1e-9, 3, 1e9, 17.25, 0.3},
	}
	for _, values := range tests {
		if got := CatmullRomAt(0, values); got != values[0] {
			t.Errorf("%v: got %v at t=0, want %v", values, got, values[0])
		}
		last := values[len(values)-1]
		if got := CatmullRomAt(1, values); got != last {
			t.Errorf("%v: got %v at t=1, want %v", values, got, last)
		}
		// Out of range times are clamped.
		if got := CatmullRomAt(2, values); got != last {
			t.Errorf("%v: got %v at t=2, want %v", values, got, last)
		}
	}

	// Sections are evenly spaced; the middle value sits at t=0.5.
	if got := CatmullRomAt(0.5, []float64{1, 5, 2}); got != 5 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestCatmullRomAtTime(t *testing.T) {
	pts := demoValues()
	for _, cv := range pts {
		if got := CatmullRomAtTime(cv.Time, pts); got != cv.Value {
			t.Errorf("CatmullRomAtTime(%g): got %v, want exactly %v", cv.Time, got, cv.Value)
		}
	}
	// Halfway between the second and third point.
	want := CatmullRomSegment(1, 0.5, []float64{0, 30, 50, 60})
	diff(t, want, CatmullRomAtTime(0.65, pts), approx)
}

func TestTessellateContinuity(t *testing.T) {
	values := []float64{0, 30, 50, 60}
	for _, div := range []int{1, 3, 7, DefaultDivisions} {
		samples := TessellateCatmullRom(div, values)
		if len(samples) != (len(values)-1)*div {
			t.Fatalf("divisions %d: got %d samples, want %d", div, len(samples), (len(values)-1)*div)
		}
		for i := range len(values) - 1 {
			end := samples[(i+1)*div-1]
			if end != values[i+1] {
				t.Errorf("divisions %d: segment %d ends at %v, want exactly %v", div, i, end, values[i+1])
			}
			// The first sample of the next segment continues from the shared
			// boundary, it doesn't repeat it.
			if i+1 < len(values)-1 && div > 1 {
				next := samples[(i+1)*div]
				if next == end {
					t.Errorf("divisions %d: segment %d repeats its start sample", div, i+1)
				}
			}
		}
	}

	if got := TessellateCatmullRom(4, []float64{1}); got != nil {
		t.Errorf("got %v, want no samples", got)
	}
}

func TestTessellateClamped(t *testing.T) {
	// The middle segment of this curve overshoots 100.
	values := []float64{0, 100, 100, 0}
	unclamped := TessellateCatmullRom(DefaultDivisions, values)
	if hi := slices.Max(unclamped); hi <= 100 {
		t.Fatalf("expected the unclamped curve to exceed 100, got max %v", hi)
	}

	clamped := TessellateCatmullRomClamped(DefaultDivisions, values, 0, 100)
	for i, v := range clamped {
		if v < 0 || v > 100 {
			t.Errorf("sample %d: got %v, want value in [0, 100]", i, v)
		}
	}
	if got := slices.Max(clamped); got != 100 {
		t.Errorf("got max %v, want 100", got)
	}
}

func TestSegmentTime(t *testing.T) {
	if got := SegmentTime(0.5, 0.8, 256, 256); got != 0.8 {
		t.Errorf("got %v, want exactly 0.8", got)
	}
	diff(t, 0.65, SegmentTime(0.5, 0.8, 128, 256), approx)
}

// bezierAt evaluates c at t in Bernstein form.
func bezierAt(c CubicBez, t float64) Point {
	mt := 1 - t
	a := Vec2(c.P0).Mul(mt * mt * mt)
	b := Vec2(c.P1).Mul(mt * mt * 3)
	d := Vec2(c.P2).Mul(mt * t * 3)
	return Point(a.Add(b.Mul(t)).Add(d.Mul(t)).Add(Vec2(c.P3).Mul(t * t * t)))
}

func TestCatmullRomBez(t *testing.T) {
	p0, p1, p2, p3 := Pt(0, 0), Pt(0.5, 30), Pt(0.8, 50), Pt(1, 60)
	cb := CatmullRomBez(p0, p1, p2, p3)
	if cb.P0 != p1 || cb.P3 != p2 {
		t.Errorf("got segment from %s to %s, want %s to %s", cb.P0, cb.P3, p1, p2)
	}
	for i := 0; i <= 10; i++ {
		u := float64(i) / 10
		want := Pt(p1.X+(p2.X-p1.X)*u, CatmullRomBlend(p0.Y, p1.Y, p2.Y, p3.Y, u))
		diff(t, want, bezierAt(cb, u), approx)
	}
}
