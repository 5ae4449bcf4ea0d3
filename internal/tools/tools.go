// File: internal/tools/tools.go
// The six page-automation capabilities. Each runner resolves its session,
// performs one page operation, and returns the payload forwarded inside the
// success envelope.
package tools

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/api/schemas"
)

func navigateTool(resolver schemas.SessionResolver) *Definition {
	return &Definition{
		Name:        "navigate",
		Description: "Navigate the page to the provided URL.",
		InputSchema: objectSchema(map[string]interface{}{
			"url": stringProperty("Destination URL (http or https)."),
		}, "url"),
		Run: func(ctx context.Context, args map[string]interface{}) (string, map[string]interface{}, error) {
			sid, err := sessionIDArg(args)
			if err != nil {
				return "", nil, err
			}
			url, err := requiredString(args, "url")
			if err != nil {
				return "", nil, err
			}
			id, page, err := resolver.Resolve(ctx, sid)
			if err != nil {
				return "", nil, err
			}
			info, err := page.Navigate(ctx, url)
			if err != nil {
				return id, nil, err
			}
			var status interface{}
			if info.Status > 0 {
				status = info.Status
			}
			return id, map[string]interface{}{
				"current_url": info.CurrentURL,
				"status":      status,
				"title":       info.Title,
			}, nil
		},
	}
}

func screenshotTool(resolver schemas.SessionResolver) *Definition {
	return &Definition{
		Name:        "screenshot",
		Description: "Capture a PNG screenshot of the current page.",
		InputSchema: objectSchema(map[string]interface{}{
			"mode": stringProperty("Screenshot mode: 'viewport' or 'fullpage'."),
		}),
		Run: func(ctx context.Context, args map[string]interface{}) (string, map[string]interface{}, error) {
			sid, err := sessionIDArg(args)
			if err != nil {
				return "", nil, err
			}
			mode, err := optionalString(args, "mode", schemas.ScreenshotViewport)
			if err != nil {
				return "", nil, err
			}
			if mode != schemas.ScreenshotViewport && mode != schemas.ScreenshotFullpage {
				return "", nil, invalidArgs("mode must be 'viewport' or 'fullpage'")
			}
			id, page, err := resolver.Resolve(ctx, sid)
			if err != nil {
				return "", nil, err
			}
			image, err := page.Screenshot(ctx, mode)
			if err != nil {
				return id, nil, err
			}
			currentURL, err := page.CurrentURL(ctx)
			if err != nil {
				return id, nil, err
			}
			return id, map[string]interface{}{
				"current_url": currentURL,
				"mode":        mode,
				"image_b64":   base64.StdEncoding.EncodeToString(image),
			}, nil
		},
	}
}

func extractLinksTool(resolver schemas.SessionResolver, logger *zap.Logger) *Definition {
	return &Definition{
		Name:        "extract_links",
		Description: "Return anchors on the page with text, URL, and external flag.",
		InputSchema: objectSchema(map[string]interface{}{
			"filter_contains": stringProperty("Only keep links containing this text (case-insensitive)."),
		}),
		Run: func(ctx context.Context, args map[string]interface{}) (string, map[string]interface{}, error) {
			sid, err := sessionIDArg(args)
			if err != nil {
				return "", nil, err
			}
			filter, err := optionalString(args, "filter_contains", "")
			if err != nil {
				return "", nil, err
			}
			id, page, err := resolver.Resolve(ctx, sid)
			if err != nil {
				return "", nil, err
			}
			html, err := page.HTML(ctx)
			if err != nil {
				return id, nil, err
			}
			currentURL, err := page.CurrentURL(ctx)
			if err != nil {
				return id, nil, err
			}
			links, err := collectLinks(html, currentURL, filter)
			if err != nil {
				return id, nil, err
			}
			logger.Debug("Extracted links.",
				zap.String("session_id", id), zap.Int("count", len(links)))
			return id, map[string]interface{}{"links": links}, nil
		},
	}
}

func fillTool(resolver schemas.SessionResolver) *Definition {
	return &Definition{
		Name:        "fill",
		Description: "Fill a text input or textarea using a CSS selector.",
		InputSchema: objectSchema(map[string]interface{}{
			"selector": stringProperty("CSS selector targeting the field to fill."),
			"value":    stringProperty("Value to type into the element."),
		}, "selector", "value"),
		Run: func(ctx context.Context, args map[string]interface{}) (string, map[string]interface{}, error) {
			sid, err := sessionIDArg(args)
			if err != nil {
				return "", nil, err
			}
			selector, err := requiredString(args, "selector")
			if err != nil {
				return "", nil, err
			}
			value, err := requiredString(args, "value")
			if err != nil {
				return "", nil, err
			}
			id, page, err := resolver.Resolve(ctx, sid)
			if err != nil {
				return "", nil, err
			}
			if err := page.Fill(ctx, selector, value); err != nil {
				return id, nil, err
			}
			return id, map[string]interface{}{"filled": true}, nil
		},
	}
}

func clickTool(resolver schemas.SessionResolver) *Definition {
	return &Definition{
		Name:        "click",
		Description: "Click a visible, enabled element identified by CSS selector.",
		InputSchema: objectSchema(map[string]interface{}{
			"selector": stringProperty("CSS selector targeting the element to click."),
		}, "selector"),
		Run: func(ctx context.Context, args map[string]interface{}) (string, map[string]interface{}, error) {
			sid, err := sessionIDArg(args)
			if err != nil {
				return "", nil, err
			}
			selector, err := requiredString(args, "selector")
			if err != nil {
				return "", nil, err
			}
			id, page, err := resolver.Resolve(ctx, sid)
			if err != nil {
				return "", nil, err
			}
			if err := page.Click(ctx, selector); err != nil {
				return id, nil, err
			}
			return id, map[string]interface{}{"clicked": true}, nil
		},
	}
}

func getHTMLTool(resolver schemas.SessionResolver) *Definition {
	return &Definition{
		Name:        "get_html",
		Description: "Return the HTML content after scripts have executed.",
		InputSchema: objectSchema(nil),
		Run: func(ctx context.Context, args map[string]interface{}) (string, map[string]interface{}, error) {
			sid, err := sessionIDArg(args)
			if err != nil {
				return "", nil, err
			}
			id, page, err := resolver.Resolve(ctx, sid)
			if err != nil {
				return "", nil, err
			}
			html, err := page.HTML(ctx)
			if err != nil {
				return id, nil, err
			}
			return id, map[string]interface{}{"html": html}, nil
		},
	}
}
