package curveedit

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNotImplemented is the value B-spline evaluation panics with.
var ErrNotImplemented = errors.New("not implemented")

// CurveType selects how a curve interpolates between its control points.
type CurveType int

const (
	Linear CurveType = iota
	CatmullRom
	// BSpline is reserved. Evaluating or rendering a B-spline curve panics
	// with [ErrNotImplemented].
	BSpline
)

func (typ CurveType) String() string {
	switch typ {
	case Linear:
		return "linear"
	case CatmullRom:
		return "catmullrom"
	case BSpline:
		return "bspline"
	default:
		return fmt.Sprintf("CurveType(%d)", int(typ))
	}
}

// ParseCurveType parses the names returned by [CurveType.String]. It is case
// insensitive and ignores dashes and underscores, so "Catmull-Rom" is
// accepted.
func ParseCurveType(s string) (CurveType, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
	switch norm {
	case "linear":
		return Linear, nil
	case "catmullrom":
		return CatmullRom, nil
	case "bspline":
		return BSpline, nil
	default:
		return 0, fmt.Errorf("unknown curve type %q", s)
	}
}

// ControlValue is the plain data of a control point, as supplied by the
// collection that feeds a [Model].
type ControlValue struct {
	Time  float64
	Value float64
	// Range is the secondary value drawn as a band curve. A NaN Range means
	// "same as Value" when the control value is added to a model.
	Range float64
}

// NewControlValue returns a control value whose range mirrors its value.
func NewControlValue(time, value float64) ControlValue {
	return ControlValue{Time: time, Value: value, Range: math.NaN()}
}

func (cv ControlValue) String() string {
	if math.IsNaN(cv.Range) {
		return fmt.Sprintf("(t=%g, v=%g)", cv.Time, cv.Value)
	}
	return fmt.Sprintf("(t=%g, v=%g, r=%g)", cv.Time, cv.Value, cv.Range)
}

// ControlPoint is a control point owned by a [Model]. Points have reference
// identity: two points with equal data are still distinct. All mutation goes
// through the owning model so that changes can be reported.
type ControlPoint struct {
	time       float64
	value      float64
	rangeValue float64
}

func newControlPoint(cv ControlValue) *ControlPoint {
	p := &ControlPoint{time: cv.Time, value: cv.Value, rangeValue: cv.Range}
	if math.IsNaN(p.rangeValue) {
		p.rangeValue = p.value
	}
	return p
}

func (p *ControlPoint) Time() float64       { return p.time }
func (p *ControlPoint) Value() float64      { return p.value }
func (p *ControlPoint) RangeValue() float64 { return p.rangeValue }

// ControlValue returns a copy of the point's data.
func (p *ControlPoint) ControlValue() ControlValue {
	return ControlValue{Time: p.time, Value: p.value, Range: p.rangeValue}
}

func (p *ControlPoint) String() string {
	return p.ControlValue().String()
}

// set stores cv and reports which fields differ from the previous data.
func (p *ControlPoint) set(cv ControlValue) Fields {
	var f Fields
	if p.time != cv.Time {
		p.time = cv.Time
		f |= TimeField
	}
	if p.value != cv.Value {
		p.value = cv.Value
		f |= ValueField
	}
	if p.rangeValue != cv.Range {
		p.rangeValue = cv.Range
		f |= RangeField
	}
	return f
}

// Handle identifies one of the two draggable handles of a control point.
type Handle int

const (
	PrimaryHandle Handle = iota
	// RangeHandle moves the point's range value. It shares the point's time
	// and can only be dragged vertically.
	RangeHandle
)

func (h Handle) String() string {
	switch h {
	case PrimaryHandle:
		return "primary"
	case RangeHandle:
		return "range"
	default:
		return fmt.Sprintf("Handle(%d)", int(h))
	}
}

// Fields is a set of control point fields.
type Fields uint8

const (
	TimeField Fields = 1 << iota
	ValueField
	RangeField
)

func (f Fields) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f&TimeField != 0 {
		parts = append(parts, "time")
	}
	if f&ValueField != 0 {
		parts = append(parts, "value")
	}
	if f&RangeField != 0 {
		parts = append(parts, "range")
	}
	return strings.Join(parts, "|")
}

type ChangeKind int

const (
	PointAdded ChangeKind = iota + 1
	PointRemoved
	PointUpdated
	// PointsReset means the whole collection was replaced.
	PointsReset
	// SettingsChanged covers the curve type, bounds, clamp and range flags
	// and the layout size.
	SettingsChanged
)

func (k ChangeKind) String() string {
	switch k {
	case PointAdded:
		return "added"
	case PointRemoved:
		return "removed"
	case PointUpdated:
		return "updated"
	case PointsReset:
		return "reset"
	case SettingsChanged:
		return "settings"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change describes a single mutation of a [Model]. Index and Point are -1 and
// nil for PointsReset and SettingsChanged. Fields is only set for
// PointUpdated.
type Change struct {
	Kind   ChangeKind
	Index  int
	Point  *ControlPoint
	Fields Fields
}
