package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpRenderer rasterizes rendered HTML with headless Chrome. The same
// HTML drives both the PDF export and the thumbnail capture.
type ChromedpRenderer struct {
	chromePath string
	styleDir   string
}

func NewChromedpRenderer(chromePath, styleDir string) *ChromedpRenderer {
	return &ChromedpRenderer{chromePath: chromePath, styleDir: styleDir}
}

func (r *ChromedpRenderer) newContext(ctx context.Context) (context.Context, []context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	tctx, cancelTimeout := context.WithTimeout(cctx, 60*time.Second)
	return tctx, []context.CancelFunc{cancelTimeout, cancelCtx, cancelAlloc}
}

// writeTempPage materializes the HTML (and the shared stylesheet, when
// available) under a temp dir so Chrome can load it via file://.
func (r *ChromedpRenderer) writeTempPage(html string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		cleanup()
		return "", nil, err
	}
	if b, err := os.ReadFile(filepath.Join(r.styleDir, "style.css")); err == nil {
		_ = os.WriteFile(filepath.Join(tmpDir, "style.css"), b, 0o644)
	}
	return htmlPath, cleanup, nil
}

// RenderHTMLToPDF prints the page to an A4 PDF.
func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	htmlPath, cleanup, err := r.writeTempPage(html)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cctx, cancels := r.newContext(ctx)
	for _, c := range cancels {
		defer c()
	}

	var pdfBuf []byte
	err = chromedp.Run(cctx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// RenderHTMLToPNG captures a full-page screenshot, used for résumé
// thumbnails in the dashboard.
func (r *ChromedpRenderer) RenderHTMLToPNG(ctx context.Context, html string) ([]byte, error) {
	htmlPath, cleanup, err := r.writeTempPage(html)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cctx, cancels := r.newContext(ctx)
	for _, c := range cancels {
		defer c()
	}

	var buf []byte
	err = chromedp.Run(cctx,
		chromedp.EmulateViewport(820, 1160),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
