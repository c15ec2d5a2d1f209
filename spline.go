package curveedit

import (
	"fmt"
	"math"
)

// DefaultDivisions is the number of samples per segment that [Model.Frame]
// uses when tessellating Catmull-Rom curves.
const DefaultDivisions = 256

// LinearAt evaluates the piecewise linear function through pts at time t.
//
// The bracketing pair is formed by the rightmost point with a time ≤ t and
// the leftmost point with a time > t. Beyond the last point, the last
// bracketing point's value is returned; before the first point, the first
// point's value. Evaluating exactly at a point's time returns that point's
// value.
//
// LinearAt panics if pts is empty.
func LinearAt(t float64, pts []ControlValue) float64 {
	if len(pts) == 0 {
		panic("LinearAt called with no control points")
	}
	i0, i1 := bracket(t, pts)
	if i0 < 0 {
		return pts[0].Value
	}
	p0 := pts[i0]
	if i1 < 0 {
		return p0.Value
	}
	p1 := pts[i1]
	dt := p1.Time - p0.Time
	if dt == 0 {
		return p0.Value
	}
	return p0.Value + (p1.Value-p0.Value)*(t-p0.Time)/dt
}

// bracket returns the index of the rightmost point with a time ≤ t, and the
// index of the leftmost point with a time > t. Either is -1 if no such point
// exists.
func bracket(t float64, pts []ControlValue) (i0, i1 int) {
	i0, i1 = -1, -1
	for i := len(pts) - 1; i >= 0; i-- {
		if pts[i].Time <= t {
			i0 = i
			break
		}
	}
	for i := range pts {
		if pts[i].Time > t {
			i1 = i
			break
		}
	}
	return i0, i1
}

// CatmullRomBlend evaluates the Catmull-Rom segment between p1 and p2 at t ∈ [0, 1],
// using p0 and p3 to derive the tangents v0 = (p2−p0)/2 and v1 = (p3−p1)/2.
// The segment starts at exactly p1 and ends at exactly p2.
func CatmullRomBlend(p0, p1, p2, p3, t float64) float64 {
	switch t {
	case 0:
		return p1
	case 1:
		return p2
	}
	v0 := (p2 - p0) * 0.5
	v1 := (p3 - p1) * 0.5
	t2 := t * t
	t3 := t2 * t
	return (2*p1-2*p2+v0+v1)*t3 + (-3*p1+3*p2-2*v0-v1)*t2 + v0*t + p1
}

// CatmullRomSegment evaluates segment index of the open Catmull-Rom spline
// through values, at local parameter localT ∈ [0, 1]. Neighbour indices are
// clamped to the valid range, so the first and last values act as their own
// virtual neighbours.
//
// CatmullRomSegment panics if values is empty.
func CatmullRomSegment(index int, localT float64, values []float64) float64 {
	n := len(values)
	if n == 0 {
		panic("CatmullRomSegment called with no values")
	}
	at := func(i int) float64 {
		return values[min(max(i, 0), n-1)]
	}
	return CatmullRomBlend(at(index-1), at(index), at(index+1), at(index+2), localT)
}

// CatmullRomAt evaluates the Catmull-Rom spline through values at t ∈ [0, 1],
// treating the values as evenly spaced: [0, 1] is divided into len(values)−1
// equal sections. t is clamped to [0, 1]. CatmullRomAt(0) and CatmullRomAt(1)
// return the first and last value exactly.
//
// Prefer [CatmullRomAtTime] when control points aren't evenly spaced.
//
// CatmullRomAt panics if values is empty.
func CatmullRomAt(t float64, values []float64) float64 {
	n := len(values)
	if n == 0 {
		panic("CatmullRomAt called with no values")
	}
	if n == 1 {
		return values[0]
	}
	sections := n - 1
	s := clamp(t, 0, 1) * float64(sections)
	index := min(int(s), sections-1)
	return CatmullRomSegment(index, s-float64(index), values)
}

// CatmullRomAtTime evaluates the Catmull-Rom spline through pts at time t. The
// segment is found by the same bracketing as [LinearAt] and t is mapped to the
// segment's local parameter, so unevenly spaced points are handled correctly.
// The degenerate cases follow [LinearAt].
//
// CatmullRomAtTime panics if pts is empty.
func CatmullRomAtTime(t float64, pts []ControlValue) float64 {
	if len(pts) == 0 {
		panic("CatmullRomAtTime called with no control points")
	}
	i0, i1 := bracket(t, pts)
	if i0 < 0 {
		return pts[0].Value
	}
	p0 := pts[i0]
	if i1 < 0 {
		return p0.Value
	}
	dt := pts[i1].Time - p0.Time
	if dt == 0 {
		return p0.Value
	}
	return CatmullRomSegment(i0, (t-p0.Time)/dt, valuesOf(pts))
}

// TessellateCatmullRom samples the Catmull-Rom spline through values with
// divisions samples per segment. Segment i contributes the samples at local
// parameters 1/divisions, 2/divisions, …, 1; its final sample is exactly
// values[i+1], which is also where segment i+1 starts. The first value itself
// is not part of the output.
//
// Fewer than two values produce no samples. TessellateCatmullRom panics if
// divisions isn't positive.
func TessellateCatmullRom(divisions int, values []float64) []float64 {
	return tessellate(divisions, values, math.Inf(-1), math.Inf(1))
}

// TessellateCatmullRomClamped is like [TessellateCatmullRom] but clamps every
// sample to [lo, hi].
func TessellateCatmullRomClamped(divisions int, values []float64, lo, hi float64) []float64 {
	return tessellate(divisions, values, lo, hi)
}

func tessellate(divisions int, values []float64, lo, hi float64) []float64 {
	if divisions <= 0 {
		panic(fmt.Sprintf("invalid number of divisions %d", divisions))
	}
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, (len(values)-1)*divisions)
	rcp := 1.0 / float64(divisions)
	for i := range len(values) - 1 {
		for j := 1; j <= divisions; j++ {
			lt := 1.0
			if j < divisions {
				lt = float64(j) * rcp
			}
			out = append(out, clamp(CatmullRomSegment(i, lt, values), lo, hi))
		}
	}
	return out
}

// SegmentTime returns the time of sample j (1-based, as produced by
// [TessellateCatmullRom]) in a segment spanning [t0, t1].
func SegmentTime(t0, t1 float64, j, divisions int) float64 {
	if j >= divisions {
		return t1
	}
	return t0 + (t1-t0)*(float64(j)/float64(divisions))
}

// CubicBez is a cubic Bézier segment.
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

// CatmullRomBez returns the cubic Bézier that is identical to the Catmull-Rom
// segment between p1 and p2. The X axis is treated as the curve's time axis
// and is interpolated linearly; tangents are derived from the Y coordinates
// only, matching [CatmullRomBlend].
func CatmullRomBez(p0, p1, p2, p3 Point) CubicBez {
	v0 := (p2.Y - p0.Y) * 0.5
	v1 := (p3.Y - p1.Y) * 0.5
	dx := p2.X - p1.X
	return CubicBez{
		P0: p1,
		P1: Pt(p1.X+dx/3, p1.Y+v0/3),
		P2: Pt(p2.X-dx/3, p2.Y-v1/3),
		P3: p2,
	}
}

func valuesOf(pts []ControlValue) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}
