// Package curveedit implements the engine of an interactive curve editor. A
// user drags an ordered set of control points around a rectangular area to
// define a piecewise function of time, and the engine produces render data
// for the resulting curve and answers "what is the value at time t" queries
// for a live readout.
//
// The package does no drawing and handles no input devices of its own. Hosts
// feed it pointer positions and button states, and draw the [Frame]s it
// returns.
//
// # Curve space and pixel space
//
// Control points live in curve space: time is normalized to [0, 1] and value
// lies in the model's declared range [Min, Max]. Handles and curves are drawn
// in pixel space, where Y grows downwards. [Mapper] converts between the two.
//
// Every handle is a square glyph of [HandleSize] pixels. So that a handle
// centred on the edge of the curve still fits, curve space is mapped to the
// control area, which is inset from the drawable area by [ComputeOffset] and
// is [ControlAreaSize] large.
//
// # Interpolation
//
// Curves are either [Linear] or [CatmullRom]. [BSpline] is reserved and panics
// with [ErrNotImplemented] when evaluated.
//
// The spline functions ([LinearAt], [CatmullRomBlend], [CatmullRomAt],
// [CatmullRomAtTime], [TessellateCatmullRom]) are pure and can be used without
// a model. Linear interpolation is exact at control points, and Catmull-Rom
// segments start and end exactly at their control values, so tessellated
// segments share their boundary samples exactly.
//
// In clamp mode, evaluated and tessellated values are limited to [Min, Max].
// Stored control values are never clamped.
//
// # Editing
//
// [Model] owns the control points. It mirrors an external collection through
// [Model.Add], [Model.Insert], [Model.RemoveAt] and [Model.Reset] and never
// sorts; keeping times non-decreasing on bulk changes is the feeder's job.
// Interactive drags keep the order on their own: [Model.UpdateDrag] clamps the
// dragged handle between its neighbours at every step.
//
// Every control point optionally carries a range value, drawn as a second
// band curve. Range handles share their point's time and only move
// vertically.
//
// Changes are reported to functions registered with [Model.Subscribe]. The
// mutating methods also return the [Fields] that changed.
//
// # Interaction
//
// [Controller] turns pointer events into two independent sessions: dragging a
// handle with [ButtonPrimary] and scanning the curve with [ButtonSecondary].
// Releasing one button never ends the other session.
//
// Nothing in this package is safe for concurrent use. Hosts call into it from
// their event loop, one event at a time.
package curveedit
