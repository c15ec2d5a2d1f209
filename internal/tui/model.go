// Package tui is a terminal front end for the curve editor. Terminal cells
// are mapped to a fixed number of pixels, so the engine works in the same
// pixel space it would in a graphical host.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"honnef.co/go/curveedit"
	"honnef.co/go/curveedit/config"
)

// Size of a terminal cell in pixels.
const (
	CellWidth  = 4
	CellHeight = 8
)

const (
	headerLines = 1
	footerLines = 2
)

type cell uint8

const (
	cellEmpty cell = iota
	cellGrid
	cellRangeCurve
	cellCurve
	cellScan
	cellRangeHandle
	cellHandle
)

// Model implements tea.Model.
type Model struct {
	ctrl     *curveedit.Controller
	model    *curveedit.Model
	readOnly config.ReadOnly
	log      *slog.Logger

	width    int
	height   int
	ready    bool
	quitting bool

	// held tracks pressed mouse buttons; terminals only report the button
	// that changed.
	held curveedit.Button
}

func New(ctrl *curveedit.Controller, readOnly config.ReadOnly, log *slog.Logger) Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return Model{
		ctrl:     ctrl,
		model:    ctrl.Model(),
		readOnly: readOnly,
		log:      log,
	}
}

// Run runs the editor until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		cols, rows := m.plotSize()
		m.model.SetLayout(curveedit.Sz(float64(cols*CellWidth), float64(rows*CellHeight)))
		m.log.Debug("resized", slog.Int("cols", cols), slog.Int("rows", rows))

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.held = 0
			m.ctrl.ReleaseAll()
		case "t":
			if !m.readOnly.Type {
				m.cycleType()
			}
		case "c":
			if !m.readOnly.Clamp {
				m.model.SetClamped(!m.model.Clamped())
				m.log.Info("clamp toggled", slog.Bool("clamp", m.model.Clamped()))
			}
		case "r":
			if !m.readOnly.Range {
				m.model.SetRangeEnabled(!m.model.RangeEnabled())
				m.log.Info("range toggled", slog.Bool("range", m.model.RangeEnabled()))
			}
		}
	}
	return m, nil
}

func (m *Model) cycleType() {
	next := curveedit.Linear
	if m.model.Type() == curveedit.Linear {
		next = curveedit.CatmullRom
	}
	m.model.SetType(next)
	m.log.Info("curve type changed", slog.String("type", next.String()))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	pos := cellCenter(msg.X, msg.Y-headerLines)

	var b curveedit.Button
	switch msg.Button {
	case tea.MouseButtonLeft:
		b = curveedit.ButtonPrimary
	case tea.MouseButtonRight:
		b = curveedit.ButtonSecondary
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if b == 0 {
			return
		}
		m.held |= b
		m.ctrl.PointerDown(b, pos)
	case tea.MouseActionRelease:
		// Some terminals don't say which button was released.
		released := b
		if released == 0 {
			released = m.held
		}
		for _, bb := range []curveedit.Button{curveedit.ButtonPrimary, curveedit.ButtonSecondary} {
			if released&bb != 0 {
				m.ctrl.PointerUp(bb, pos)
			}
		}
		m.held &^= released
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(pos, m.held)
	}
}

// cellCenter returns the pixel position of the centre of the plot cell at
// (col, row).
func cellCenter(col, row int) curveedit.Point {
	return curveedit.Pt((float64(col)+0.5)*CellWidth, (float64(row)+0.5)*CellHeight)
}

// plotSize returns the number of cells available for the plot.
func (m Model) plotSize() (cols, rows int) {
	return max(m.width, 0), max(m.height-headerLines-footerLines, 0)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	flagOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	flagOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	gridStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("237"))

	curveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	rangeCurveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("71"))

	handleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231"))

	rangeHandleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("151"))

	scanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

var cellGlyphs = [...]struct {
	r     string
	style lipgloss.Style
}{
	cellEmpty:       {" ", lipgloss.NewStyle()},
	cellGrid:        {"·", gridStyle},
	cellRangeCurve:  {"•", rangeCurveStyle},
	cellCurve:       {"•", curveStyle},
	cellScan:        {"│", scanStyle},
	cellRangeHandle: {"◆", rangeHandleStyle},
	cellHandle:      {"■", handleStyle},
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading...\n"
	}

	f := m.ctrl.Frame()
	var b strings.Builder
	b.WriteString(m.renderHeader(f))
	b.WriteString("\n")
	b.WriteString(m.renderPlot(f))
	b.WriteString(m.renderFooter(f))
	return b.String()
}

func (m Model) renderHeader(f curveedit.Frame) string {
	flag := func(name string, on, readOnly bool) string {
		s := name
		if readOnly {
			s += "(ro)"
		}
		if on {
			return flagOnStyle.Render(s)
		}
		return flagOffStyle.Render(s)
	}
	typ := f.Type.String()
	if m.readOnly.Type {
		typ += "(ro)"
	}
	return fmt.Sprintf("%s  %s [%g, %g]  %s  %s",
		headerStyle.Render("curveedit"),
		typ, f.Min, f.Max,
		flag("clamp", f.Clamped, m.readOnly.Clamp),
		flag("range", f.RangeEnabled, m.readOnly.Range))
}

func (m Model) renderFooter(f curveedit.Frame) string {
	var readout string
	if f.Scan.Active {
		readout = scanStyle.Render(f.Scan.Label())
		if f.RangeEnabled {
			readout += " " + rangeHandleStyle.Render(f.Scan.RangeLabel())
		}
	}
	help := helpStyle.Render("left: drag  right: scan  t: type  c: clamp  r: range  q: quit")
	return readout + "\n" + help
}

func (m Model) renderPlot(f curveedit.Frame) string {
	cols, rows := m.plotSize()
	if cols == 0 || rows == 0 {
		return ""
	}
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
	}
	set := func(pt curveedit.Point, c cell) {
		col := int(math.Floor(pt.X / CellWidth))
		row := int(math.Floor(pt.Y / CellHeight))
		if row < 0 || row >= rows || col < 0 || col >= cols {
			return
		}
		if c > grid[row][col] {
			grid[row][col] = c
		}
	}
	line := func(a, b curveedit.Point, c cell) {
		d := b.Sub(a)
		steps := int(math.Ceil(max(math.Abs(d.X)/CellWidth, math.Abs(d.Y)/CellHeight)*2)) + 1
		for i := 0; i <= steps; i++ {
			set(a.Lerp(b, float64(i)/float64(steps)), c)
		}
	}
	path := func(p curveedit.BezPath, c cell) {
		var prev curveedit.Point
		for i, pt := range p.Points() {
			if i > 0 {
				line(prev, pt, c)
			}
			prev = pt
		}
	}

	ca := f.ControlArea
	for i := 0; i <= 4; i++ {
		y := ca.Y0 + ca.Height()*float64(i)/4
		for x := ca.X0; x <= ca.X1; x += 2 * CellWidth {
			set(curveedit.Pt(x, y), cellGrid)
		}
	}
	if f.RangeEnabled {
		path(f.RangeCurve, cellRangeCurve)
	}
	path(f.Curve, cellCurve)
	if f.Scan.Active {
		line(curveedit.Pt(f.Scan.Pos.X, ca.Y0), curveedit.Pt(f.Scan.Pos.X, ca.Y1), cellScan)
	}
	for _, pt := range f.RangePoints {
		set(pt, cellRangeHandle)
	}
	for _, pt := range f.Points {
		set(pt, cellHandle)
	}

	var b strings.Builder
	for _, row := range grid {
		// Render runs of equal cells with a single style.
		for i := 0; i < len(row); {
			j := i
			for j < len(row) && row[j] == row[i] {
				j++
			}
			g := cellGlyphs[row[i]]
			b.WriteString(g.style.Render(strings.Repeat(g.r, j-i)))
			i = j
		}
		b.WriteString("\n")
	}
	return b.String()
}
