package export

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/curveedit"
)

func demoController(t *testing.T) (*curveedit.Model, *curveedit.Controller) {
	t.Helper()
	m := curveedit.NewModel(0, 100,
		curveedit.NewControlValue(0, 0),
		curveedit.NewControlValue(0.5, 30),
		curveedit.NewControlValue(0.8, 50),
		curveedit.NewControlValue(1, 60),
	)
	m.SetLayout(curveedit.Sz(210, 110))
	return m, curveedit.NewController(m, curveedit.WithDivisions(16))
}

func TestWriteSVG(t *testing.T) {
	_, c := demoController(t)
	f := c.Frame()

	out := string(SVG(f, Options{Style: DefaultStyle(), MaxPrecision: 6}))
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="210" height="110" viewBox="0 0 210 110">`))
	assert.Contains(t, out, `d="M5,105 L105,75 L165,55 L205,45"`)
	assert.Equal(t, 4, strings.Count(out, `class="handle"`))
	assert.Equal(t, 2*(GridDivisions-1), strings.Count(out, "<line "))
	assert.Contains(t, out, ">100</text>")
	assert.Contains(t, out, ">0</text>")
	assert.NotContains(t, out, `class="range"`)
	assert.NotContains(t, out, `class="scan"`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestWriteSVGScanAndRange(t *testing.T) {
	m, c := demoController(t)
	m.SetRangeEnabled(true)
	c.PointerDown(curveedit.ButtonSecondary, curveedit.Pt(135, 50))

	out := string(SVG(c.Frame(), Options{Style: DefaultStyle()}))
	assert.Contains(t, out, `class="range"`)
	assert.Equal(t, 4, strings.Count(out, `class="range-handle"`))
	assert.Contains(t, out, `class="scan"`)
	assert.Contains(t, out, "(v=40.00,t=0.65)")
}

func TestWriteSVGSmooth(t *testing.T) {
	m, c := demoController(t)
	m.SetType(curveedit.CatmullRom)

	smooth := string(SVG(c.Frame(), Options{Smooth: true, MaxPrecision: 3}))
	assert.Equal(t, 3, strings.Count(smooth, "C"), "expected one cubic per segment")

	// Clamped curves can't be represented by the Bézier form.
	m.SetClamped(true)
	clamped := string(SVG(c.Frame(), Options{Smooth: true}))
	assert.NotContains(t, clamped, " C")
}

func TestWriteSVGOvershoot(t *testing.T) {
	m := curveedit.NewModel(0, 100,
		curveedit.NewControlValue(0, 0),
		curveedit.NewControlValue(0.5, 100),
		curveedit.NewControlValue(1, 100),
	)
	m.SetLayout(curveedit.Sz(210, 110))
	m.SetType(curveedit.CatmullRom)
	c := curveedit.NewController(m, curveedit.WithDivisions(16))

	// The second segment overshoots the maximum by about 7%.
	out := string(SVG(c.Frame(), Options{Style: DefaultStyle()}))
	assert.Contains(t, out, `viewBox="0 -`)
	assert.NotContains(t, out, `height="110"`)

	m.SetClamped(true)
	out = string(SVG(c.Frame(), Options{Style: DefaultStyle()}))
	assert.Contains(t, out, `viewBox="0 0 210 110"`)
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(p), nil
}

func TestWriteSVGError(t *testing.T) {
	_, c := demoController(t)
	err := WriteSVG(&failingWriter{n: 3}, c.Frame(), Options{Style: DefaultStyle()})
	assert.EqualError(t, err, "disk full")
}

func TestSmoothCurve(t *testing.T) {
	pts := []curveedit.Point{curveedit.Pt(0, 0), curveedit.Pt(10, 10), curveedit.Pt(20, 0)}
	path := SmoothCurve(pts)
	require.Len(t, path, 3)
	assert.Equal(t, curveedit.MoveToKind, path[0].Kind)
	assert.Equal(t, pts[1], path[1].EndPoint())
	assert.Equal(t, pts[2], path[2].EndPoint())
	assert.Nil(t, SmoothCurve(nil))
}

func findBrowser() string {
	if p := os.Getenv("CURVEEDIT_CHROME"); p != "" {
		return p
	}
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

func TestRenderPNG(t *testing.T) {
	browser := findBrowser()
	if browser == "" {
		t.Skip("no Chrome or Chromium binary found")
	}
	_, c := demoController(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	data, err := RenderPNG(ctx, SVG(c.Frame(), Options{Style: DefaultStyle()}), PNGOptions{
		ExecPath:  browser,
		NoSandbox: true,
	})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
	assert.Positive(t, img.Bounds().Dy())
}
