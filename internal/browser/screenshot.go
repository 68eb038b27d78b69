package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Default viewport for captures.
const (
	DefaultWidth  = 1440
	DefaultHeight = 1800
)

// Options selects what to capture.
type Options struct {
	URL      string
	Width    int
	Height   int
	Selector string // capture one element instead of the full page
}

// Screenshotter captures pages. An empty CDP URL launches a headless browser
// for every capture.
type Screenshotter struct {
	cdpURL  string
	timeout time.Duration
}

// NewScreenshotter creates a Screenshotter.
func NewScreenshotter(cdpURL string, timeout time.Duration) *Screenshotter {
	return &Screenshotter{cdpURL: cdpURL, timeout: timeout}
}

// Remote reports whether captures go to an already running browser.
func (s *Screenshotter) Remote() bool { return s.cdpURL != "" }

// Available checks that a browser can be reached without capturing anything.
func (s *Screenshotter) Available(ctx context.Context) error {
	if s.Remote() {
		if err := probeCDP(ctx, s.cdpURL); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	}
	if _, err := detectBrowser(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Screenshotter) allocator(ctx context.Context, width, height int) (context.Context, context.CancelFunc, error) {
	if s.Remote() {
		actx, cancel := chromedp.NewRemoteAllocator(ctx, s.cdpURL)
		return actx, cancel, nil
	}
	path, err := detectBrowser()
	if err != nil {
		return nil, nil, err
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(path),
		chromedp.WindowSize(width, height),
		chromedp.Flag("hide-scrollbars", true),
	)
	actx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return actx, cancel, nil
}

// Capture navigates to opts.URL and returns a PNG of the page, or of the
// first element matching opts.Selector.
func (s *Screenshotter) Capture(ctx context.Context, opts Options) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	allocCtx, allocCancel, err := s.allocator(ctx, opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	started := time.Now()
	var buf []byte
	tasks := chromedp.Tasks{
		emulation.SetDeviceMetricsOverride(int64(opts.Width), int64(opts.Height), 1, false),
		chromedp.Navigate(opts.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if opts.Selector != "" {
		tasks = append(tasks, chromedp.Screenshot(opts.Selector, &buf, chromedp.NodeVisible, chromedp.ByQuery))
	} else {
		tasks = append(tasks, chromedp.ActionFunc(func(ctx context.Context) error {
			data, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				Do(ctx)
			if err != nil {
				return err
			}
			buf = data
			return nil
		}))
	}

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return nil, fmt.Errorf("%w: capture %s: %v", ErrUnavailable, opts.URL, err)
	}
	slog.Info("screenshot captured", "url", opts.URL, "selector", opts.Selector,
		"bytes", len(buf), "remote", s.Remote(), "duration_ms", time.Since(started).Milliseconds())
	return buf, nil
}
