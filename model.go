package curveedit

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// Model owns the ordered control points of one curve, together with the
// settings that control how the curve is evaluated and where it is laid out.
//
// Points are kept in insertion order. The model never sorts them; whoever
// feeds the model is responsible for inserting points at the index that keeps
// their times non-decreasing. Interactive drags maintain the order on their
// own, see [Model.UpdateDrag].
//
// A Model is not safe for concurrent use.
type Model struct {
	points       []*ControlPoint
	typ          CurveType
	min          float64
	max          float64
	clamped      bool
	rangeEnabled bool
	area         Size

	subs   []subscriber
	nextID int

	drag option[dragTarget]
}

type dragTarget struct {
	point  *ControlPoint
	handle Handle
	// grab is the offset from the pointer to the handle's centre at the time
	// the drag began.
	grab Vec2
}

type subscriber struct {
	id int
	fn func(Change)
}

// NewModel returns a linear, unclamped model for values in [minValue,
// maxValue] holding the given points. The model has no layout until
// [Model.SetLayout] is called.
func NewModel(minValue, maxValue float64, values ...ControlValue) *Model {
	m := &Model{min: minValue, max: maxValue}
	for _, cv := range values {
		m.points = append(m.points, newControlPoint(cv))
	}
	return m
}

func (m *Model) Len() int                  { return len(m.points) }
func (m *Model) Point(i int) *ControlPoint { return m.points[i] }
func (m *Model) Type() CurveType           { return m.typ }
func (m *Model) Min() float64              { return m.min }
func (m *Model) Max() float64              { return m.max }
func (m *Model) Clamped() bool             { return m.clamped }
func (m *Model) RangeEnabled() bool        { return m.rangeEnabled }

// Layout returns the actual size of the drawable area.
func (m *Model) Layout() Size { return m.area }

// Points returns an iterator over the model's points and their indices.
func (m *Model) Points() iter.Seq2[int, *ControlPoint] {
	return slices.All(m.points)
}

// Values returns a copy of the data of all points, in order.
func (m *Model) Values() []ControlValue {
	out := make([]ControlValue, len(m.points))
	for i, p := range m.points {
		out[i] = p.ControlValue()
	}
	return out
}

// Index returns the index of p, or -1 if p doesn't belong to the model.
func (m *Model) Index(p *ControlPoint) int {
	return slices.Index(m.points, p)
}

func (m *Model) mustIndex(p *ControlPoint) int {
	idx := m.Index(p)
	if idx == -1 {
		panic(fmt.Sprintf("control point %s doesn't belong to the model", p))
	}
	return idx
}

// Mapper returns the coordinate mapper for the current layout and bounds.
func (m *Model) Mapper() Mapper {
	return NewMapper(m.area, m.min, m.max)
}

// Subscription is returned by [Model.Subscribe].
type Subscription struct {
	id int
	m  *Model
}

// Cancel stops the delivery of changes to the subscribed function. Calling
// Cancel more than once, or on the zero Subscription, has no effect.
func (s Subscription) Cancel() {
	if s.m == nil {
		return
	}
	s.m.subs = slices.DeleteFunc(s.m.subs, func(sub subscriber) bool {
		return sub.id == s.id
	})
}

// Subscribe registers fn to be called synchronously after every mutation of
// the model. Functions are called in the order they were registered.
func (m *Model) Subscribe(fn func(Change)) Subscription {
	m.nextID++
	m.subs = append(m.subs, subscriber{id: m.nextID, fn: fn})
	return Subscription{id: m.nextID, m: m}
}

func (m *Model) notify(ch Change) {
	// Subscribers may cancel themselves while being notified.
	for _, sub := range slices.Clone(m.subs) {
		sub.fn(ch)
	}
}

func (m *Model) settingsChanged() {
	m.notify(Change{Kind: SettingsChanged, Index: -1})
}

// Add appends a point to the model and returns it.
func (m *Model) Add(cv ControlValue) *ControlPoint {
	return m.Insert(len(m.points), cv)
}

// Insert inserts a point at index i and returns it. It panics if i is out of
// range.
func (m *Model) Insert(i int, cv ControlValue) *ControlPoint {
	if i < 0 || i > len(m.points) {
		panic(fmt.Sprintf("index %d out of range [0, %d]", i, len(m.points)))
	}
	p := newControlPoint(cv)
	m.points = slices.Insert(m.points, i, p)
	m.notify(Change{Kind: PointAdded, Index: i, Point: p})
	return p
}

// RemoveAt removes and returns the point at index i. It panics if i is out
// of range. Removing the point that is being dragged ends the drag.
func (m *Model) RemoveAt(i int) *ControlPoint {
	if i < 0 || i >= len(m.points) {
		panic(fmt.Sprintf("index %d out of range [0, %d)", i, len(m.points)))
	}
	p := m.points[i]
	m.points = slices.Delete(m.points, i, i+1)
	if m.drag.isSet && m.drag.value.point == p {
		m.drag.clear()
	}
	m.notify(Change{Kind: PointRemoved, Index: i, Point: p})
	return p
}

// Remove removes p from the model. It reports whether p belonged to the
// model.
func (m *Model) Remove(p *ControlPoint) bool {
	idx := m.Index(p)
	if idx == -1 {
		return false
	}
	m.RemoveAt(idx)
	return true
}

// Reset replaces all points. Any drag in progress ends.
func (m *Model) Reset(values ...ControlValue) {
	m.points = m.points[:0:0]
	for _, cv := range values {
		m.points = append(m.points, newControlPoint(cv))
	}
	m.drag.clear()
	m.notify(Change{Kind: PointsReset, Index: -1})
}

// Update replaces the data of p. A NaN range leaves the range value
// unchanged. It returns the fields that changed; subscribers are only
// notified if at least one did.
func (m *Model) Update(p *ControlPoint, cv ControlValue) Fields {
	idx := m.mustIndex(p)
	if math.IsNaN(cv.Range) {
		cv.Range = p.rangeValue
	}
	f := p.set(cv)
	if f != 0 {
		m.notify(Change{Kind: PointUpdated, Index: idx, Point: p, Fields: f})
	}
	return f
}

// SetValue sets the primary value of p.
func (m *Model) SetValue(p *ControlPoint, value float64) Fields {
	cv := p.ControlValue()
	cv.Value = value
	return m.Update(p, cv)
}

// SetRangeValue sets the range value of p.
func (m *Model) SetRangeValue(p *ControlPoint, value float64) Fields {
	cv := p.ControlValue()
	cv.Range = value
	return m.Update(p, cv)
}

func (m *Model) SetType(typ CurveType) {
	if m.typ != typ {
		m.typ = typ
		m.settingsChanged()
	}
}

// SetBounds sets the declared value range. Keeping minValue ≤ maxValue is
// the caller's responsibility.
func (m *Model) SetBounds(minValue, maxValue float64) {
	if m.min != minValue || m.max != maxValue {
		m.min, m.max = minValue, maxValue
		m.settingsChanged()
	}
}

// SetClamped enables or disables clamp mode. In clamp mode evaluated and
// tessellated values are limited to the declared value range. Stored values
// are never clamped.
func (m *Model) SetClamped(clamped bool) {
	if m.clamped != clamped {
		m.clamped = clamped
		m.settingsChanged()
	}
}

func (m *Model) SetRangeEnabled(enabled bool) {
	if m.rangeEnabled != enabled {
		m.rangeEnabled = enabled
		m.settingsChanged()
	}
}

// SetLayout sets the actual size of the drawable area. Negative and NaN
// dimensions are replaced by zero.
func (m *Model) SetLayout(actual Size) {
	actual = actual.NonNegative()
	if m.area != actual {
		m.area = actual
		m.settingsChanged()
	}
}

// PixelPosition returns the pixel position of p's primary handle.
func (m *Model) PixelPosition(p *ControlPoint) Point {
	return m.Mapper().ToPixel(p.time, p.value)
}

// RangePixelPosition returns the pixel position of p's range handle.
func (m *Model) RangePixelPosition(p *ControlPoint) Point {
	return m.Mapper().ToPixel(p.time, p.rangeValue)
}

// HandlePosition returns the pixel position of the given handle of p.
func (m *Model) HandlePosition(p *ControlPoint, h Handle) Point {
	if h == RangeHandle {
		return m.RangePixelPosition(p)
	}
	return m.PixelPosition(p)
}

// BeginDrag makes the given handle of p the drag target. grab is the offset
// from the pointer to the handle's centre; subsequent pointer positions are
// translated by it so that the handle doesn't jump to the pointer. Any
// previous drag is replaced.
//
// BeginDrag panics if p doesn't belong to the model.
func (m *Model) BeginDrag(p *ControlPoint, h Handle, grab Vec2) {
	m.mustIndex(p)
	m.drag.set(dragTarget{point: p, handle: h, grab: grab})
}

// Dragging returns the current drag target, if any.
func (m *Model) Dragging() (*ControlPoint, Handle, bool) {
	if !m.drag.isSet {
		return nil, 0, false
	}
	d := m.drag.unwrap()
	return d.point, d.handle, true
}

// EndDrag ends the current drag, if any.
func (m *Model) EndDrag() {
	m.drag.clear()
}

// UpdateDrag moves the drag target to follow the pointer and returns the
// fields that changed. It does nothing if no drag is in progress or the
// control area is empty.
//
// The handle's pixel X is clamped to the pixel X of the neighbouring points,
// or to the control area for the first and last point, so that a point can
// never pass its neighbours. Pixel Y is clamped to [ComputeOffset.Y,
// LimitY]. The clamped position is converted back to curve space. The new
// time is also clamped to the neighbours' times, which guards against
// round-off in the conversion.
//
// Range handles only move vertically; their time is the point's time.
func (m *Model) UpdateDrag(pointer Point) Fields {
	if !m.drag.isSet {
		return 0
	}
	mapper := m.Mapper()
	if mapper.ControlArea().IsEmpty() {
		// Pixel positions carry no information before layout.
		return 0
	}
	d := m.drag.unwrap()
	p := d.point
	pos := pointer.Translate(d.grab)

	yLo := ComputeOffset.Y
	yHi := max(yLo, LimitY(m.area))
	y := clamp(pos.Y, yLo, yHi)

	cv := p.ControlValue()
	if d.handle == RangeHandle {
		cv.Range = mapper.ToValue(Pt(pos.X, y)).Value
		return m.Update(p, cv)
	}

	idx := m.mustIndex(p)
	bounds := mapper.Bounds()
	xLo, xHi := bounds.X0, bounds.X1
	tLo, tHi := math.Inf(-1), math.Inf(1)
	if idx > 0 {
		prev := m.points[idx-1]
		xLo = mapper.ToPixel(prev.time, prev.value).X
		tLo = prev.time
	}
	if idx < len(m.points)-1 {
		next := m.points[idx+1]
		xHi = mapper.ToPixel(next.time, next.value).X
		tHi = next.time
	}
	x := clamp(pos.X, xLo, xHi)

	v := mapper.ToValue(Pt(x, y))
	cv.Time = clamp(v.Time, tLo, tHi)
	cv.Value = v.Value
	return m.Update(p, cv)
}

// rangeValues returns the points' data with the range value in place of the
// primary value, so that the spline functions evaluate the range band.
func (m *Model) rangeValues() []ControlValue {
	out := make([]ControlValue, len(m.points))
	for i, p := range m.points {
		out[i] = ControlValue{Time: p.time, Value: p.rangeValue, Range: p.rangeValue}
	}
	return out
}

func (m *Model) evaluate(t float64, pts []ControlValue) float64 {
	var v float64
	switch m.typ {
	case Linear:
		v = LinearAt(t, pts)
	case CatmullRom:
		v = CatmullRomAtTime(t, pts)
	case BSpline:
		panic(ErrNotImplemented)
	default:
		panic(fmt.Sprintf("invalid curve type %d", m.typ))
	}
	if m.clamped {
		v = clamp(v, m.min, m.max)
	}
	return v
}

// ValueAt evaluates the curve at time t using the model's curve type and
// clamp mode. It panics if the model has no points, or with
// [ErrNotImplemented] for B-spline curves.
func (m *Model) ValueAt(t float64) float64 {
	if len(m.points) == 0 {
		panic("ValueAt called on a model without control points")
	}
	return m.evaluate(t, m.Values())
}

// RangeValueAt is like [Model.ValueAt] but evaluates the range band.
func (m *Model) RangeValueAt(t float64) float64 {
	if len(m.points) == 0 {
		panic("RangeValueAt called on a model without control points")
	}
	return m.evaluate(t, m.rangeValues())
}

// ScanResult is the read-only result of [Model.ScanAt].
type ScanResult struct {
	// OK is false if the model has no points, in which case all other
	// fields are zero.
	OK   bool
	Time float64
	// Value is the curve's value at Time.
	Value float64
	// RangeValue is the range band's value at Time. It is only set if range
	// mode is enabled.
	RangeValue float64
	// Pos is the pixel position of the curve at Time, and RangePos that of
	// the range band.
	Pos      Point
	RangePos Point
}

// ScanAt evaluates the curve at the pixel column pixelX without modifying
// the model. pixelX is first clamped to the columns of the first and last
// point. The result isn't OK if the control area is empty, since pixel
// columns don't map to times then.
func (m *Model) ScanAt(pixelX float64) ScanResult {
	if len(m.points) == 0 {
		return ScanResult{}
	}
	mapper := m.Mapper()
	if mapper.ControlArea().IsEmpty() {
		return ScanResult{}
	}
	first, last := m.points[0], m.points[len(m.points)-1]
	x0 := mapper.ToPixel(first.time, first.value).X
	x1 := mapper.ToPixel(last.time, last.value).X
	x := clamp(pixelX, x0, max(x0, x1))
	return m.scan(mapper.TimeAt(x), x)
}

// ScanTime is like [Model.ScanAt] but takes a normalized time, which is
// clamped to the times of the first and last point. It doesn't depend on the
// layout, except for the pixel positions in the result.
func (m *Model) ScanTime(t float64) ScanResult {
	if len(m.points) == 0 {
		return ScanResult{}
	}
	first, last := m.points[0], m.points[len(m.points)-1]
	t = clamp(t, first.time, max(first.time, last.time))
	return m.scan(t, m.Mapper().ToPixel(t, m.min).X)
}

func (m *Model) scan(t, x float64) ScanResult {
	mapper := m.Mapper()
	res := ScanResult{OK: true, Time: t}
	res.Value = m.evaluate(t, m.Values())
	res.Pos = Pt(x, mapper.YFor(res.Value))
	if m.rangeEnabled {
		res.RangeValue = m.evaluate(t, m.rangeValues())
		res.RangePos = Pt(x, mapper.YFor(res.RangeValue))
	}
	return res
}
