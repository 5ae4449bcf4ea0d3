// File: internal/browser/page.go
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/api/schemas"
	"github.com/sgrimault/webharvest/internal/config"
)

// Page is one live browser tab bound to a session identifier. All failures
// cross its boundary as *schemas.ToolError values carrying a taxonomy code.
type Page struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	net    config.NetworkConfig
	logger *zap.Logger
}

var _ schemas.PageSession = (*Page)(nil)

func newPage(id string, ctx context.Context, cancel context.CancelFunc, net config.NetworkConfig, logger *zap.Logger) *Page {
	return &Page{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		net:    net,
		logger: logger.Named("page").With(zap.String("session_id", id)),
	}
}

// ID returns the session identifier this page is bound to.
func (p *Page) ID() string { return p.id }

func (p *Page) close() { p.cancel() }

// Navigate loads rawURL and reports the landing URL, HTTP status, and title.
func (p *Page) Navigate(ctx context.Context, rawURL string) (*schemas.NavigationInfo, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, schemas.NewToolError(schemas.CodeInvalidURL,
			fmt.Sprintf("Only http(s) URLs are supported (got %q).", rawURL))
	}

	opCtx, cancel := p.opContext(ctx, p.net.NavigationTimeout)
	defer cancel()

	resp, err := chromedp.RunResponse(opCtx, chromedp.Navigate(rawURL))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, schemas.NewToolError(schemas.CodeNavigationTimeout,
				fmt.Sprintf("Navigation to %s timed out.", rawURL))
		}
		return nil, schemas.NewToolError(schemas.CodeNetworkError,
			fmt.Sprintf("Navigation failed for %s: %v", rawURL, err))
	}

	info := &schemas.NavigationInfo{}
	if resp != nil {
		info.Status = int(resp.Status)
	}
	if err := chromedp.Run(opCtx,
		chromedp.Location(&info.CurrentURL),
		chromedp.Title(&info.Title),
	); err != nil {
		return nil, schemas.NewToolError(schemas.CodeNetworkError,
			fmt.Sprintf("Failed to read page state after navigation: %v", err))
	}
	return info, nil
}

// Click clicks the first element matching selector. Missing, hidden, and
// disabled elements map to their dedicated error kinds.
func (p *Page) Click(ctx context.Context, selector string) error {
	opCtx, cancel := p.opContext(ctx, p.net.OperationTimeout)
	defer cancel()

	if err := p.requireElement(opCtx, selector); err != nil {
		return err
	}

	// Bring the target into view before the visibility check; a failed
	// scroll is not itself fatal.
	scrollCtx, scrollCancel := context.WithTimeout(opCtx, p.net.VisibilityTimeout)
	_ = chromedp.Run(scrollCtx, chromedp.ScrollIntoView(selector, chromedp.ByQuery))
	scrollCancel()

	if err := p.waitVisible(opCtx, selector); err != nil {
		return err
	}

	enabled, err := p.evalBool(opCtx, selector, "!el.disabled")
	if err != nil {
		return err
	}
	if !enabled {
		return schemas.NewToolError(schemas.CodeElementNotClickable,
			fmt.Sprintf("Element '%s' is disabled.", selector))
	}

	if err := chromedp.Run(opCtx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return schemas.NewToolError(schemas.CodeElementNotClickable,
				fmt.Sprintf("Element '%s' was not clickable.", selector))
		}
		return schemas.NewToolError(schemas.CodeInternalError,
			fmt.Sprintf("Clicking '%s' failed: %v", selector, err))
	}
	return nil
}

// Fill types value into the first element matching selector.
func (p *Page) Fill(ctx context.Context, selector, value string) error {
	opCtx, cancel := p.opContext(ctx, p.net.OperationTimeout)
	defer cancel()

	if err := p.requireElement(opCtx, selector); err != nil {
		return err
	}
	if err := p.waitVisible(opCtx, selector); err != nil {
		return err
	}

	editable, err := p.evalBool(opCtx, selector, "!el.disabled && !el.readOnly")
	if err != nil {
		return err
	}
	if !editable {
		return schemas.NewToolError(schemas.CodeElementNotEditable,
			fmt.Sprintf("Element '%s' is not editable.", selector))
	}

	if err := chromedp.Run(opCtx,
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	); err != nil {
		return schemas.NewToolError(schemas.CodeInternalError,
			fmt.Sprintf("Filling '%s' failed: %v", selector, err))
	}
	return nil
}

// HTML returns the rendered document markup after scripts have executed.
func (p *Page) HTML(ctx context.Context) (string, error) {
	opCtx, cancel := p.opContext(ctx, p.net.OperationTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(opCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", schemas.NewToolError(schemas.CodeInternalError,
			fmt.Sprintf("Reading page HTML failed: %v", err))
	}
	return html, nil
}

// Screenshot captures a PNG of the viewport or the full page.
func (p *Page) Screenshot(ctx context.Context, mode string) ([]byte, error) {
	opCtx, cancel := p.opContext(ctx, p.net.OperationTimeout)
	defer cancel()

	var buf []byte
	var err error
	if mode == schemas.ScreenshotFullpage {
		err = chromedp.Run(opCtx, chromedp.ActionFunc(func(ctx context.Context) error {
			var capErr error
			buf, capErr = cdppage.CaptureScreenshot().
				WithFormat(cdppage.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				Do(ctx)
			return capErr
		}))
	} else {
		err = chromedp.Run(opCtx, chromedp.CaptureScreenshot(&buf))
	}
	if err != nil {
		return nil, schemas.NewToolError(schemas.CodeInternalError,
			fmt.Sprintf("Screenshot failed: %v", err))
	}
	return buf, nil
}

// CurrentURL reports the page's present location.
func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	opCtx, cancel := p.opContext(ctx, p.net.OperationTimeout)
	defer cancel()

	var loc string
	if err := chromedp.Run(opCtx, chromedp.Location(&loc)); err != nil {
		return "", schemas.NewToolError(schemas.CodeInternalError,
			fmt.Sprintf("Reading page location failed: %v", err))
	}
	return loc, nil
}

// opContext bounds one browser operation. The tab context carries the CDP
// target; the caller context only contributes early cancellation.
func (p *Page) opContext(callerCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithTimeout(p.ctx, timeout)
	if callerCtx == nil {
		return opCtx, cancel
	}
	stop := context.AfterFunc(callerCtx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// requireElement fails with ELEMENT_NOT_FOUND when selector matches nothing.
func (p *Page) requireElement(ctx context.Context, selector string) error {
	script := fmt.Sprintf("document.querySelectorAll(%s).length", jsString(selector))
	var count int
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &count)); err != nil {
		return schemas.NewToolError(schemas.CodeInternalError,
			fmt.Sprintf("Querying selector '%s' failed: %v", selector, err))
	}
	if count == 0 {
		return schemas.NewToolError(schemas.CodeElementNotFound,
			fmt.Sprintf("No element matches selector '%s'.", selector))
	}
	return nil
}

func (p *Page) waitVisible(ctx context.Context, selector string) error {
	visCtx, cancel := context.WithTimeout(ctx, p.net.VisibilityTimeout)
	defer cancel()
	if err := chromedp.Run(visCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return schemas.NewToolError(schemas.CodeElementNotVisible,
			fmt.Sprintf("Element '%s' never became visible.", selector))
	}
	return nil
}

// evalBool evaluates a predicate against the first element matching
// selector; el is bound inside the script.
func (p *Page) evalBool(ctx context.Context, selector, predicate string) (bool, error) {
	script := fmt.Sprintf(
		"(function(){ const el = document.querySelector(%s); return !!(el && (%s)); })()",
		jsString(selector), predicate)
	var ok bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &ok)); err != nil {
		return false, schemas.NewToolError(schemas.CodeInternalError,
			fmt.Sprintf("Inspecting element '%s' failed: %v", selector, err))
	}
	return ok, nil
}

// jsString safely embeds a Go string into a JavaScript expression.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
