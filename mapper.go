package curveedit

// Mapper converts between normalized curve space, where time is in [0, 1] and
// value is in [Min, Max], and the pixel space of a drawable area of size Area.
//
// Pixel Y grows downwards while curve values grow upwards, so the value axis
// is inverted. All pixel positions include [ComputeOffset].
//
// A Mapper is a small value; construct a new one whenever the layout or the
// value range changes.
type Mapper struct {
	// Area is the actual size of the drawable area.
	Area Size
	Min  float64
	Max  float64
}

// NewMapper returns a mapper for a drawable area of the given size. Negative
// and NaN dimensions, as reported before the first layout, are replaced by
// zero.
func NewMapper(area Size, minValue, maxValue float64) Mapper {
	return Mapper{
		Area: area.NonNegative(),
		Min:  minValue,
		Max:  maxValue,
	}
}

// Delta returns Max − Min.
func (m Mapper) Delta() float64 {
	return m.Max - m.Min
}

// ControlArea returns the size of the control area, substituting zero for
// dimensions that would be negative.
func (m Mapper) ControlArea() Size {
	return ControlAreaSize(m.Area).NonNegative()
}

// Bounds returns the control area in pixel space. Handles are centred within
// these bounds.
func (m Mapper) Bounds() Rect {
	return Rect{
		X0: ComputeOffset.X,
		Y0: ComputeOffset.Y,
		X1: max(ComputeOffset.X, m.Area.Width-ComputeOffset.X),
		Y1: max(ComputeOffset.Y, m.Area.Height-ComputeOffset.Y),
	}
}

// normalize maps value into [0, 1] relative to the value range. A collapsed
// range maps everything to 0.
func (m Mapper) normalize(value float64) float64 {
	d := m.Delta()
	if d == 0 {
		return 0
	}
	return (value - m.Min) / d
}

// ToPixel returns the pixel position of the curve-space point (time, value).
// The result is clamped to the drawable area.
func (m Mapper) ToPixel(time, value float64) Point {
	cw, ch := m.ControlArea().Splat()
	x := time * cw
	y := ch - m.normalize(value)*ch
	return Point{
		X: clamp(x, 0, m.Area.Width) + ComputeOffset.X,
		Y: clamp(y, 0, m.Area.Height) + ComputeOffset.Y,
	}
}

// ToValue is the inverse of [Mapper.ToPixel]. The returned control value's
// Range mirrors its Value.
//
// A zero-width (or zero-height) control area yields time 0 (or value Min)
// instead of dividing by zero.
func (m Mapper) ToValue(pos Point) ControlValue {
	cw, ch := m.ControlArea().Splat()
	x := clamp(pos.X, ComputeOffset.X, max(ComputeOffset.X, m.Area.Width)) - ComputeOffset.X
	y := clamp(pos.Y, ComputeOffset.Y, max(ComputeOffset.Y, m.Area.Height)) - ComputeOffset.Y

	var time float64
	if cw > 0 {
		time = x / cw
	}
	value := m.Min
	if ch > 0 {
		value = m.Min + (1.0-y/ch)*m.Delta()
	}
	return ControlValue{Time: time, Value: value, Range: value}
}

// TimeAt returns the normalized time at pixel column x, without clamping.
func (m Mapper) TimeAt(x float64) float64 {
	cw := m.ControlArea().Width
	if cw == 0 {
		return 0
	}
	return (x - ComputeOffset.X) / cw
}

// YFor returns the pixel row of value, without clamping.
func (m Mapper) YFor(value float64) float64 {
	ch := m.ControlArea().Height
	return ch - m.normalize(value)*ch + ComputeOffset.Y
}

// Transform returns the affine map from curve space to pixel space. Unlike
// [Mapper.ToPixel] it doesn't clamp, so samples of an overshooting spline keep
// their shape.
func (m Mapper) Transform() Affine {
	cw, ch := m.ControlArea().Splat()
	var sy float64
	if d := m.Delta(); d != 0 {
		sy = ch / d
	}
	scaled := Translate(Vec(0, -m.Min)).ThenScale(cw, sy)
	return FlipY.Mul(scaled).ThenTranslate(Vec(0, ch).Add(ComputeOffset))
}
