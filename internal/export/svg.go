// Package export renders curve editor frames to SVG documents and PNG
// images.
package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strconv"

	"honnef.co/go/curveedit"
)

// GridDivisions is the number of grid cells along each axis of the control
// area.
const GridDivisions = 5

// Style holds the colours and sizes used for drawing. Colours are any SVG
// paint value.
type Style struct {
	Background  string
	Grid        string
	Border      string
	Curve       string
	RangeCurve  string
	Handle      string
	RangeHandle string
	Scan        string
	Text        string
	FontSize    float64
	StrokeWidth float64
}

func DefaultStyle() Style {
	return Style{
		Background:  "#1e1e1e",
		Grid:        "#3a3a3a",
		Border:      "#808080",
		Curve:       "#4fc3f7",
		RangeCurve:  "#81c784",
		Handle:      "#ffffff",
		RangeHandle: "#a5d6a7",
		Scan:        "#ffb74d",
		Text:        "#e0e0e0",
		FontSize:    10,
		StrokeWidth: 1.5,
	}
}

type Options struct {
	Style Style
	// Smooth draws unclamped Catmull-Rom curves as one cubic Bézier per
	// segment instead of the frame's tessellated polyline.
	Smooth bool
	// MaxPrecision limits the precision of path coordinates, see
	// [curveedit.SVGOptions].
	MaxPrecision int
}

// SmoothCurve returns the cubic Bézier path through pts that is identical to
// the Catmull-Rom spline through them. pts must be ordered by X.
func SmoothCurve(pts []curveedit.Point) curveedit.BezPath {
	if len(pts) == 0 {
		return nil
	}
	at := func(i int) curveedit.Point {
		return pts[min(max(i, 0), len(pts)-1)]
	}
	var path curveedit.BezPath
	path.MoveTo(pts[0])
	for i := range len(pts) - 1 {
		cb := curveedit.CatmullRomBez(at(i-1), at(i), at(i+1), at(i+2))
		path.CubicTo(cb.P1, cb.P2, cb.P3)
	}
	return path
}

// curves returns the primary and range paths to draw for f.
func curves(f curveedit.Frame, opts Options) (curve, rangeCurve curveedit.BezPath) {
	if opts.Smooth && f.Type == curveedit.CatmullRom && !f.Clamped {
		return SmoothCurve(f.Points), SmoothCurve(f.RangePoints)
	}
	return f.Curve, f.RangeCurve
}

// WriteSVG writes f as a standalone SVG document.
func WriteSVG(w io.Writer, f curveedit.Frame, opts Options) error {
	st := opts.Style
	var err error
	printf := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}
	num := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	path := func(p curveedit.BezPath) {
		if err != nil {
			return
		}
		err = p.WriteSVG(w, curveedit.SVGOptions{MaxPrecision: opts.MaxPrecision})
	}

	curve, rangeCurve := curves(f, opts)
	// Unclamped splines may overshoot the drawable area.
	bounds := f.Area
	for _, p := range []curveedit.BezPath{curve, rangeCurve} {
		if len(p) > 0 {
			bounds = bounds.Union(p.ControlBox())
		}
	}
	origin, size := bounds.Origin(), bounds.Size()
	printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`+"\n",
		num(size.Width), num(size.Height), num(origin.X), num(origin.Y), num(size.Width), num(size.Height))
	printf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(origin.X), num(origin.Y), num(size.Width), num(size.Height), st.Background)

	ca := f.ControlArea
	printf(`<g stroke="%s" stroke-width="1">`+"\n", st.Grid)
	for i := 1; i < GridDivisions; i++ {
		x := ca.X0 + ca.Width()*float64(i)/GridDivisions
		y := ca.Y0 + ca.Height()*float64(i)/GridDivisions
		printf(`<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(x), num(ca.Y0), num(x), num(ca.Y1))
		printf(`<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(ca.X0), num(y), num(ca.X1), num(y))
	}
	printf("</g>\n")

	// Outer border of the drawable area and inner border of the control area.
	outer := f.Area.Inset(curveedit.Vec(0.5, 0.5))
	printf(`<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s"/>`+"\n",
		num(outer.X0), num(outer.Y0), num(max(outer.Width(), 0)), num(max(outer.Height(), 0)), st.Border)
	printf(`<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-dasharray="2,2"/>`+"\n",
		num(ca.X0), num(ca.Y0), num(ca.Width()), num(ca.Height()), st.Border)

	printf(`<g fill="%s" font-family="sans-serif" font-size="%s">`+"\n", st.Text, num(st.FontSize))
	printf(`<text x="%s" y="%s">%s</text>`+"\n", num(ca.X0+2), num(ca.Y0+st.FontSize), label(f.Max))
	printf(`<text x="%s" y="%s">%s</text>`+"\n", num(ca.X0+2), num(ca.Y1-2), label(f.Min))
	printf("</g>\n")

	if f.RangeEnabled && len(rangeCurve) > 0 {
		printf(`<path class="range" d="`)
		path(rangeCurve)
		printf(`" fill="none" stroke="%s" stroke-width="%s" stroke-dasharray="4,2"/>`+"\n",
			st.RangeCurve, num(st.StrokeWidth))
	}
	if len(curve) > 0 {
		printf(`<path class="curve" d="`)
		path(curve)
		printf(`" fill="none" stroke="%s" stroke-width="%s"/>`+"\n", st.Curve, num(st.StrokeWidth))
	}

	handle := func(class string, pt curveedit.Point, fill string) {
		r := curveedit.HandleRect(pt)
		printf(`<rect class="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			class, num(r.X0), num(r.Y0), num(r.Width()), num(r.Height()), fill)
	}
	for _, pt := range f.RangePoints {
		handle("range-handle", pt, st.RangeHandle)
	}
	for _, pt := range f.Points {
		handle("handle", pt, st.Handle)
	}

	if s := f.Scan; s.Active {
		printf(`<g class="scan" stroke="%s" fill="%s">`+"\n", st.Scan, st.Scan)
		printf(`<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(s.Pos.X), num(ca.Y0), num(s.Pos.X), num(ca.Y1))
		printf(`<circle cx="%s" cy="%s" r="3"/>`+"\n", num(s.Pos.X), num(s.Pos.Y))
		printf(`<text x="%s" y="%s" stroke="none" font-family="sans-serif" font-size="%s">%s</text>`+"\n",
			num(s.Pos.X+6), num(s.Pos.Y-6), num(st.FontSize), html.EscapeString(s.Label()))
		if f.RangeEnabled {
			printf(`<circle cx="%s" cy="%s" r="3"/>`+"\n", num(s.RangePos.X), num(s.RangePos.Y))
			printf(`<text x="%s" y="%s" stroke="none" font-family="sans-serif" font-size="%s">%s</text>`+"\n",
				num(s.RangePos.X+6), num(s.RangePos.Y-6), num(st.FontSize), html.EscapeString(s.RangeLabel()))
		}
		printf("</g>\n")
	}

	printf("</svg>\n")
	return err
}

// SVG is like [WriteSVG] but returns the document.
func SVG(f curveedit.Frame, opts Options) []byte {
	var buf bytes.Buffer
	// Writing to a bytes.Buffer can't fail.
	_ = WriteSVG(&buf, f, opts)
	return buf.Bytes()
}

func label(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
