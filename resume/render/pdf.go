package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"resumeforge/resume/model"
)

// A4 in inches.
const (
	paperWidth  = 8.27
	paperHeight = 11.69

	defaultPDFTimeout = 60 * time.Second
)

// PDFRenderer turns resume sections into a PDF document.
type PDFRenderer interface {
	PDF(ctx context.Context, sections model.Sections, header Header) ([]byte, error)
}

// Chromedp prints the HTML rendering through headless Chrome.
type Chromedp struct {
	// ExecPath overrides the Chrome binary; empty uses the chromedp lookup.
	ExecPath string
	Timeout  time.Duration
}

// NewChromedp constructs a Chromedp renderer.
func NewChromedp(execPath string, timeout time.Duration) *Chromedp {
	if timeout <= 0 {
		timeout = defaultPDFTimeout
	}
	return &Chromedp{ExecPath: execPath, Timeout: timeout}
}

// PDF implements PDFRenderer.
func (r *Chromedp) PDF(ctx context.Context, sections model.Sections, header Header) ([]byte, error) {
	doc, err := HTML(sections, header)
	if err != nil {
		return nil, err
	}
	return r.HTMLToPDF(ctx, doc)
}

// HTMLToPDF prints an HTML document to A4 PDF.
func (r *Chromedp) HTMLToPDF(ctx context.Context, doc string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resumeforge-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(doc), 0o600); err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	if len(pdfBuf) == 0 {
		return nil, errors.New("print pdf: empty document")
	}
	return pdfBuf, nil
}

var _ PDFRenderer = (*Chromedp)(nil)
