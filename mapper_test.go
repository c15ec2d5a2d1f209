package curveedit

import (
	"math"
	"testing"
)

func TestMapperToPixel(t *testing.T) {
	m := NewMapper(Sz(210, 110), 0, 100)
	tests := []struct {
		time, value float64
		want        Point
	}{
		{0, 0, Pt(5, 105)},
		{1, 100, Pt(205, 5)},
		{0.5, 50, Pt(105, 55)},
		{0.65, 40, Pt(135, 65)},
		// Out of range values are clamped to the drawable area.
		{2, -100, Pt(215, 115)},
		{-1, 1000, Pt(5, 5)},
	}
	for _, tt := range tests {
		got := m.ToPixel(tt.time, tt.value)
		diff(t, tt.want, got, approx)
	}
}

func TestMapperMinOffset(t *testing.T) {
	m := NewMapper(Sz(110, 110), -50, 50)
	diff(t, Pt(5, 105), m.ToPixel(0, -50), approx)
	diff(t, Pt(105, 5), m.ToPixel(1, 50), approx)
	diff(t, ControlValue{Time: 0.5, Value: 0, Range: 0}, m.ToValue(Pt(55, 55)), approx)
}

func TestMapperRoundTrip(t *testing.T) {
	sizes := []Size{Sz(210, 110), Sz(20, 20), Sz(1000, 37), Sz(11, 11)}
	bounds := [][2]float64{{0, 100}, {-1, 1}, {10, 20}}
	for _, sz := range sizes {
		for _, b := range bounds {
			m := NewMapper(sz, b[0], b[1])
			cw, ch := m.ControlArea().Splat()
			// One pixel in curve space.
			tEps := 1 / cw
			vEps := m.Delta() / ch
			for i := 0; i <= 10; i++ {
				time := float64(i) / 10
				value := b[0] + m.Delta()*float64(10-i)/10
				got := m.ToValue(m.ToPixel(time, value))
				if math.Abs(got.Time-time) > tEps || math.Abs(got.Value-value) > vEps {
					t.Errorf("%s [%g, %g]: round trip of (%g, %g) got (%g, %g)",
						sz, b[0], b[1], time, value, got.Time, got.Value)
				}
			}
		}
	}
}

func TestMapperRoundTripClamps(t *testing.T) {
	m := NewMapper(Sz(210, 110), 0, 100)
	// ToValue clamps to the drawable area, which extends past the control
	// area by the offset.
	got := m.ToValue(m.ToPixel(1.5, -20))
	diff(t, ControlValue{Time: 1.025, Value: -5, Range: -5}, got, approx)

	got = m.ToValue(Pt(-100, -100))
	diff(t, ControlValue{Time: 0, Value: 100, Range: 100}, got, approx)
}

func TestMapperDegenerateArea(t *testing.T) {
	for _, sz := range []Size{Sz(0, 0), Sz(-20, -20), Sz(math.NaN(), 5), Sz(10, 10)} {
		m := NewMapper(sz, 0, 100)
		if ca := m.ControlArea(); ca.Width < 0 || ca.Height < 0 {
			t.Errorf("%s: got negative control area %s", sz, ca)
		}
		got := m.ToValue(Pt(50, 50))
		if !finite(got.Time, got.Value) {
			t.Errorf("%s: got non-finite value %s", sz, got)
		}
		if pt := m.ToPixel(0.5, 50); !finite(pt.X, pt.Y) {
			t.Errorf("%s: got non-finite pixel %s", sz, pt)
		}
		if x := m.TimeAt(50); x != 0 {
			t.Errorf("%s: got time %v, want 0", sz, x)
		}
	}
}

func TestMapperCollapsedRange(t *testing.T) {
	m := NewMapper(Sz(210, 110), 5, 5)
	diff(t, Pt(5, 105), m.ToPixel(0, 5), approx)
	diff(t, 5.0, m.ToValue(Pt(50, 50)).Value)
	if aff := m.Transform(); !finite(aff.N0, aff.N1, aff.N2, aff.N3, aff.N4, aff.N5) {
		t.Errorf("got NaN transform %v", aff)
	}
}

func TestMapperTransform(t *testing.T) {
	m := NewMapper(Sz(310, 60), -10, 40)
	aff := m.Transform()
	for _, cv := range []ControlValue{{0, -10, 0}, {0.3, 0, 0}, {0.5, 25, 0}, {1, 40, 0}} {
		want := m.ToPixel(cv.Time, cv.Value)
		got := Pt(cv.Time, cv.Value).Transform(aff)
		assertNear(t, got, want, 1e-9)
	}
	// Unlike ToPixel, Transform doesn't clamp.
	got := Pt(1, 100).Transform(aff)
	assertNear(t, got, Pt(305, -55), 1e-9)
}

func TestMapperBounds(t *testing.T) {
	diff(t, Rect{5, 5, 205, 105}, NewMapper(Sz(210, 110), 0, 1).Bounds())
	diff(t, Rect{5, 5, 5, 5}, NewMapper(Sz(0, 0), 0, 1).Bounds())
}
