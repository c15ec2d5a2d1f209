package curveedit

import (
	"fmt"
	"log/slog"
)

// Button is a set of pointer buttons.
type Button uint8

const (
	// ButtonPrimary drags handles.
	ButtonPrimary Button = 1 << iota
	// ButtonSecondary scans the curve.
	ButtonSecondary
)

func (b Button) String() string {
	switch b {
	case 0:
		return "none"
	case ButtonPrimary:
		return "primary"
	case ButtonSecondary:
		return "secondary"
	case ButtonPrimary | ButtonSecondary:
		return "primary|secondary"
	default:
		return fmt.Sprintf("Button(%d)", uint8(b))
	}
}

// SessionState is the state of a drag or scan session.
type SessionState int

const (
	Idle SessionState = iota
	Dragging
	Scanning
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Scanning:
		return "scanning"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Controller translates pointer events into drags and scans of a [Model].
//
// It tracks two independent sessions. The drag session starts when the
// primary button is pressed over a handle and ends when it is released. The
// scan session starts when the secondary button is pressed anywhere and ends
// when it is released. Releasing one button never ends the other session.
//
// Positions are in the pixel space of the model's layout.
type Controller struct {
	model     *Model
	log       *slog.Logger
	divisions int

	scanning bool
	scanX    float64
}

type Option func(*Controller)

// WithLogger sets the logger that session transitions are logged to, at
// debug level. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithDivisions sets the number of samples per segment used by
// [Controller.Frame]. It panics if n isn't positive.
func WithDivisions(n int) Option {
	if n <= 0 {
		panic(fmt.Sprintf("invalid number of divisions %d", n))
	}
	return func(c *Controller) { c.divisions = n }
}

func NewController(m *Model, opts ...Option) *Controller {
	c := &Controller{
		model:     m,
		log:       slog.New(slog.DiscardHandler),
		divisions: DefaultDivisions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Model() *Model { return c.model }

// HitTest returns the handle whose glyph contains pos. When range mode is
// enabled, range handles take precedence. Among overlapping handles of the
// same kind, the one drawn last wins. Before the model is laid out all handles
// overlap, and drags of them don't move anything.
func (c *Controller) HitTest(pos Point) (*ControlPoint, Handle, bool) {
	m := c.model
	handles := []Handle{PrimaryHandle}
	if m.rangeEnabled {
		handles = []Handle{RangeHandle, PrimaryHandle}
	}
	for _, h := range handles {
		for i := len(m.points) - 1; i >= 0; i-- {
			p := m.points[i]
			if HandleRect(m.HandlePosition(p, h)).Contains(pos) {
				return p, h, true
			}
		}
	}
	return nil, 0, false
}

// PointerDown handles the press of a single button at pos. It reports
// whether the press started a session.
func (c *Controller) PointerDown(b Button, pos Point) bool {
	switch b {
	case ButtonPrimary:
		p, h, ok := c.HitTest(pos)
		if !ok {
			return false
		}
		grab := c.model.HandlePosition(p, h).Sub(pos)
		c.model.BeginDrag(p, h, grab)
		c.log.Debug("drag started",
			slog.Int("index", c.model.Index(p)),
			slog.String("handle", h.String()),
			slog.String("point", p.String()))
		c.model.UpdateDrag(pos)
		return true
	case ButtonSecondary:
		c.scanning = true
		c.scanX = pos.X
		c.log.Debug("scan started", slog.Float64("x", pos.X))
		return true
	default:
		return false
	}
}

// PointerMove handles pointer motion. held is the set of buttons that are
// currently pressed. A session whose button isn't held anymore ends, which
// covers releases that happened outside of the editor.
func (c *Controller) PointerMove(pos Point, held Button) {
	if _, _, ok := c.model.Dragging(); ok {
		if held&ButtonPrimary == 0 {
			c.endDrag("button not held")
		} else {
			c.model.UpdateDrag(pos)
		}
	}
	if c.scanning {
		if held&ButtonSecondary == 0 {
			c.endScan("button not held")
		} else {
			c.scanX = pos.X
		}
	}
}

// PointerUp handles the release of a single button.
func (c *Controller) PointerUp(b Button, pos Point) {
	switch b {
	case ButtonPrimary:
		if _, _, ok := c.model.Dragging(); ok {
			c.model.UpdateDrag(pos)
			c.endDrag("released")
		}
	case ButtonSecondary:
		if c.scanning {
			c.endScan("released")
		}
	}
}

// ReleaseAll ends both sessions, for example when the editor loses pointer
// capture.
func (c *Controller) ReleaseAll() {
	if _, _, ok := c.model.Dragging(); ok {
		c.endDrag("release all")
	}
	if c.scanning {
		c.endScan("release all")
	}
}

func (c *Controller) endDrag(reason string) {
	p, h, _ := c.model.Dragging()
	c.model.EndDrag()
	c.log.Debug("drag ended",
		slog.String("reason", reason),
		slog.String("handle", h.String()),
		slog.String("point", p.String()))
}

func (c *Controller) endScan(reason string) {
	c.scanning = false
	c.log.Debug("scan ended", slog.String("reason", reason), slog.Float64("x", c.scanX))
}

// DragState returns Dragging while a handle is being dragged and Idle
// otherwise.
func (c *Controller) DragState() SessionState {
	if _, _, ok := c.model.Dragging(); ok {
		return Dragging
	}
	return Idle
}

// ScanState returns Scanning while the secondary button is held and Idle
// otherwise.
func (c *Controller) ScanState() SessionState {
	if c.scanning {
		return Scanning
	}
	return Idle
}

// Scan evaluates the curve at the current scan position. The result isn't
// OK when no scan is in progress or the model has no points.
func (c *Controller) Scan() ScanResult {
	if !c.scanning {
		return ScanResult{}
	}
	return c.model.ScanAt(c.scanX)
}

// Frame returns the model's render data including the scan readout.
func (c *Controller) Frame() Frame {
	f := c.model.Frame(c.divisions)
	if res := c.Scan(); res.OK {
		f.Scan = ScanReadout{
			Active:     true,
			Time:       res.Time,
			Value:      res.Value,
			RangeValue: res.RangeValue,
			Pos:        res.Pos,
			RangePos:   res.RangePos,
		}
	}
	return f
}
