package tui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/curveedit"
	"honnef.co/go/curveedit/config"
)

func newEditor(t *testing.T, ro config.ReadOnly) (Model, *curveedit.Controller) {
	t.Helper()
	cfg := config.Default()
	ctrl := curveedit.NewController(cfg.NewModel(), curveedit.WithDivisions(8))
	m := New(ctrl, ro, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model), ctrl
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cellOf returns the terminal cell that shows pixel pt.
func cellOf(pt curveedit.Point) (x, y int) {
	return int(math.Floor(pt.X / CellWidth)), int(math.Floor(pt.Y/CellHeight)) + headerLines
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestResizeSetsLayout(t *testing.T) {
	_, ctrl := newEditor(t, config.ReadOnly{})
	assert.Equal(t, curveedit.Sz(80*CellWidth, 27*CellHeight), ctrl.Model().Layout())
}

func TestMouseDrag(t *testing.T) {
	m, ctrl := newEditor(t, config.ReadOnly{})
	model := ctrl.Model()
	p := model.Point(1)
	before := p.Value()

	x, y := cellOf(model.PixelPosition(p))
	m = send(t, m, mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
	require.Equal(t, curveedit.Dragging, ctrl.DragState())

	m = send(t, m, mouse(x, y-4, tea.MouseActionMotion, tea.MouseButtonLeft))
	assert.Greater(t, p.Value(), before)
	assert.InDelta(t, 0.5, p.Time(), 0.02)

	send(t, m, mouse(x, y-4, tea.MouseActionRelease, tea.MouseButtonNone))
	assert.Equal(t, curveedit.Idle, ctrl.DragState())
}

func TestMouseScan(t *testing.T) {
	m, ctrl := newEditor(t, config.ReadOnly{})
	m = send(t, m, mouse(40, 10, tea.MouseActionPress, tea.MouseButtonRight))
	require.Equal(t, curveedit.Scanning, ctrl.ScanState())
	assert.Contains(t, m.View(), "(v=")

	// Motion keeps scanning while the button is held.
	m = send(t, m, mouse(50, 10, tea.MouseActionMotion, tea.MouseButtonRight))
	assert.Equal(t, curveedit.Scanning, ctrl.ScanState())

	m = send(t, m, mouse(50, 10, tea.MouseActionRelease, tea.MouseButtonRight))
	assert.Equal(t, curveedit.Idle, ctrl.ScanState())
	assert.NotContains(t, m.View(), "(v=")
}

func TestKeys(t *testing.T) {
	m, ctrl := newEditor(t, config.ReadOnly{})
	model := ctrl.Model()

	m = send(t, m, key("t"), key("c"), key("r"))
	assert.Equal(t, curveedit.CatmullRom, model.Type())
	assert.True(t, model.Clamped())
	assert.True(t, model.RangeEnabled())
	assert.Contains(t, m.View(), "catmullrom")

	m = send(t, m, key("t"))
	assert.Equal(t, curveedit.Linear, model.Type())

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestReadOnlyKeys(t *testing.T) {
	m, ctrl := newEditor(t, config.ReadOnly{Type: true, Clamp: true, Range: true})
	model := ctrl.Model()
	m = send(t, m, key("t"), key("c"), key("r"))
	assert.Equal(t, curveedit.Linear, model.Type())
	assert.False(t, model.Clamped())
	assert.False(t, model.RangeEnabled())
	header, _, _ := strings.Cut(m.View(), "\n")
	assert.Contains(t, header, "linear(ro)")
	assert.Contains(t, header, "clamp(ro)")
	assert.Contains(t, header, "range(ro)")

	m, _ = newEditor(t, config.ReadOnly{Clamp: true})
	header, _, _ = strings.Cut(m.View(), "\n")
	assert.NotContains(t, header, "linear(ro)")
}

func TestView(t *testing.T) {
	m, _ := newEditor(t, config.ReadOnly{})
	out := m.View()
	// Header, plot rows, readout and help.
	assert.Equal(t, 1+27+2, strings.Count(out, "\n")+1)
	assert.Equal(t, 4, strings.Count(out, "■"))

	loading := New(curveedit.NewController(curveedit.NewModel(0, 1)), config.ReadOnly{}, nil)
	assert.Equal(t, "Loading...\n", loading.View())
}
