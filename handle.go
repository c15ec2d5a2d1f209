package curveedit

import "math"

// HandleSize is the width and height, in pixels, of the square glyph that is
// drawn for, and hit-tested against, a draggable control point.
const HandleSize = 9

// HalfHandleSize is half of [HandleSize].
const HalfHandleSize = HandleSize * 0.5

var (
	// ComputeOffset is the inset of the control area from the edges of the
	// drawable area. A handle centred on the control area's edge still fits
	// entirely inside the drawable area.
	ComputeOffset = Vec(math.Ceil(HalfHandleSize), math.Ceil(HalfHandleSize))

	// RenderOffset is the offset from a handle's centre to the top left corner
	// of its glyph.
	RenderOffset = ComputeOffset.Negate()

	// HandleExtent is the size of a handle glyph.
	HandleExtent = Sz(HandleSize, HandleSize)
)

// ControlAreaSize returns the size of the area that control points can be
// placed in, given the drawable area's actual size. It is reduced by the
// handle glyph and a 1px border. The result is negative for tiny or not yet
// laid out areas; see [Mapper.ControlArea] for the guarded variant.
func ControlAreaSize(actual Size) Size {
	return actual.Sub(Vec(HandleSize, HandleSize)).Sub(Vec(1, 1))
}

// LimitY returns the largest pixel Y a handle may be dragged to.
func LimitY(actual Size) float64 {
	return actual.Height - math.Ceil(HalfHandleSize)
}

// HandleRect returns the glyph rectangle of a handle centred at pt.
func HandleRect(pt Point) Rect {
	return NewRectFromOrigin(pt.Translate(RenderOffset), HandleExtent)
}
