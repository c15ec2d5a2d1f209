package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
)

// ErrEmptyScreenshot is returned when the browser produced no image data.
var ErrEmptyScreenshot = errors.New("screenshot is empty")

// PNGOptions configures [RenderPNG].
type PNGOptions struct {
	// ExecPath is the browser binary. It is looked up by chromedp if empty.
	ExecPath string
	// NoSandbox disables Chrome's sandbox, which is required when running as
	// root, as in many containers.
	NoSandbox bool
	Logger    *slog.Logger
}

// RenderPNG rasterizes an SVG document with headless Chrome. The returned
// image has the size of the document's root element.
func RenderPNG(ctx context.Context, svg []byte, opts PNGOptions) ([]byte, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &buf, chromedp.ByQuery),
	}
	log.Debug("rendering PNG", slog.Int("svg_bytes", len(svg)))
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp: %w", err)
	}
	if len(buf) == 0 {
		return nil, ErrEmptyScreenshot
	}
	log.Debug("rendered PNG", slog.Int("png_bytes", len(buf)))
	return buf, nil
}
