package curveedit

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// approx compares floats, and structs of floats, with a tolerance suitable
// for values that went through a pixel round trip.
var approx = cmpopts.EquateApprox(0, 1e-9)

// samePoint compares control points by identity.
var samePoint = cmp.Comparer(func(a, b *ControlPoint) bool { return a == b })

func assertNear(t *testing.T, p0 Point, p1 Point, epsilon float64) {
	t.Helper()
	if d := p1.Sub(p0); math.Hypot(d.X, d.Y) > epsilon {
		t.Fatalf("got %s, expected %s", p0, p1)
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func demoValues() []ControlValue {
	return []ControlValue{
		NewControlValue(0, 0),
		NewControlValue(0.5, 30),
		NewControlValue(0.8, 50),
		NewControlValue(1, 60),
	}
}

// demoModel returns the demo curve laid out on a 210×110 area, whose control
// area is exactly 200×100 pixels.
func demoModel() *Model {
	m := NewModel(0, 100, demoValues()...)
	m.SetLayout(Sz(210, 110))
	return m
}
