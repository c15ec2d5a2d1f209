package curveedit

import "fmt"

// Frame is everything a renderer needs to draw a curve editor, in pixel
// space. It is a snapshot; later changes to the model don't affect it.
type Frame struct {
	// Area is the whole drawable area and ControlArea the part of it that
	// handles are centred in.
	Area        Rect
	ControlArea Rect

	Type         CurveType
	Min          float64
	Max          float64
	Clamped      bool
	RangeEnabled bool

	// Points holds the centres of the primary handles, in order.
	Points []Point
	// RangePoints holds the centres of the range handles. It is nil unless
	// range mode is enabled.
	RangePoints []Point

	// Curve is the path to stroke for the curve. Linear curves are polylines
	// through Points. Catmull-Rom curves start at the first handle and are
	// followed by one line per tessellated sample.
	Curve BezPath
	// RangeCurve is built like Curve, from the range values.
	RangeCurve BezPath

	Scan ScanReadout
}

// ScanReadout is the state of a scan session at the time a [Frame] was taken.
type ScanReadout struct {
	Active     bool
	Time       float64
	Value      float64
	RangeValue float64
	Pos        Point
	RangePos   Point
}

// Label formats the readout the way it is shown next to the scan line.
func (s ScanReadout) Label() string {
	return fmt.Sprintf("(v=%.2f,t=%.2f)", s.Value, s.Time)
}

// RangeLabel is like Label, for the range band.
func (s ScanReadout) RangeLabel() string {
	return fmt.Sprintf("(v=%.2f,t=%.2f)", s.RangeValue, s.Time)
}

// Frame returns the render data for the model. Catmull-Rom curves are
// tessellated with the given number of samples per segment; see
// [DefaultDivisions]. The scan readout of the returned frame is inactive.
//
// Frame panics if divisions isn't positive, or with [ErrNotImplemented] for
// B-spline curves.
func (m *Model) Frame(divisions int) Frame {
	if divisions <= 0 {
		panic(fmt.Sprintf("invalid number of divisions %d", divisions))
	}
	mapper := m.Mapper()
	f := Frame{
		Area:         NewRectFromOrigin(Point{}, m.area),
		ControlArea:  mapper.Bounds(),
		Type:         m.typ,
		Min:          m.min,
		Max:          m.max,
		Clamped:      m.clamped,
		RangeEnabled: m.rangeEnabled,
	}
	values := m.Values()
	f.Points, f.Curve = m.curve(mapper, values, divisions)
	if m.rangeEnabled {
		f.RangePoints, f.RangeCurve = m.curve(mapper, m.rangeValues(), divisions)
	}
	return f
}

func (m *Model) curve(mapper Mapper, pts []ControlValue, divisions int) ([]Point, BezPath) {
	handles := make([]Point, len(pts))
	for i, cv := range pts {
		handles[i] = mapper.ToPixel(cv.Time, cv.Value)
	}
	if len(pts) == 0 {
		return handles, nil
	}

	var path BezPath
	path.MoveTo(handles[0])
	switch m.typ {
	case Linear:
		for _, pt := range handles[1:] {
			path.LineTo(pt)
		}
	case CatmullRom:
		var samples []float64
		if m.clamped {
			samples = TessellateCatmullRomClamped(divisions, valuesOf(pts), m.min, m.max)
		} else {
			samples = TessellateCatmullRom(divisions, valuesOf(pts))
		}
		aff := mapper.Transform()
		for i := range len(pts) - 1 {
			t0, t1 := pts[i].Time, pts[i+1].Time
			for j := 1; j <= divisions; j++ {
				v := samples[i*divisions+j-1]
				path.LineTo(Pt(SegmentTime(t0, t1, j, divisions), v).Transform(aff))
			}
		}
	case BSpline:
		panic(ErrNotImplemented)
	default:
		panic(fmt.Sprintf("invalid curve type %d", m.typ))
	}
	return handles, path
}
