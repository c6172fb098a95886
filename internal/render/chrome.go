// internal/render/chrome.go
package render

import (
	"context"
	"fmt"

	"docgen-service/internal/common/config"
	apperrors "docgen-service/internal/common/errors"
	"docgen-service/internal/common/logger"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper size in inches for PrintToPDF.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// ChromeRenderer drives a headless Chrome/Chromium per render. A fresh
// browser context is acquired for every call and torn down by deferred
// cancels, so a failed or timed-out render cannot leak a process.
type ChromeRenderer struct {
	cfg    config.RendererConfig
	logger logger.Logger
}

func NewChromeRenderer(cfg config.RendererConfig, log logger.Logger) *ChromeRenderer {
	return &ChromeRenderer{cfg: cfg, logger: log}
}

func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, config.GetDuration(r.cfg.Timeout))
	defer cancelRun()

	// Start the browser before any page work so environment problems (a
	// missing or broken binary) surface as RENDERER_UNAVAILABLE instead of
	// a render failure.
	if err := chromedp.Run(runCtx); err != nil {
		return nil, apperrors.NewRendererUnavailableError(
			fmt.Errorf("browser start failed (check the Chrome/Chromium installation and renderer.exec_path): %w", err))
	}

	r.restrictResources(runCtx)

	var pdf []byte
	err := chromedp.Run(runCtx,
		fetch.Enable(),
		chromedp.EmulateViewport(
			int64(r.cfg.Viewport.Width),
			int64(r.cfg.Viewport.Height),
			chromedp.EmulateScale(r.cfg.Viewport.Scale),
		),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithScale(1).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewRenderError(
				fmt.Errorf("render exceeded the %dms timeout", r.cfg.Timeout))
		}
		return nil, apperrors.NewRenderError(err)
	}

	return pdf, nil
}

// restrictResources blocks every network fetch outside the allowed resource
// classes (document, stylesheet, image, font) so the renderer cannot make
// arbitrary outbound calls or stall on unrelated resources.
func (r *ChromeRenderer) restrictResources(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		paused, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}

		go func() {
			c := chromedp.FromContext(ctx)
			execCtx := cdp.WithExecutor(ctx, c.Target)

			switch paused.ResourceType {
			case network.ResourceTypeDocument,
				network.ResourceTypeStylesheet,
				network.ResourceTypeImage,
				network.ResourceTypeFont:
				_ = fetch.ContinueRequest(paused.RequestID).Do(execCtx)
			default:
				_ = fetch.FailRequest(paused.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
			}
		}()
	})
}
