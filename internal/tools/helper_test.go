package tools

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sgrimault/webharvest/api/schemas"
)

// fakePage is a scripted schemas.PageSession.
type fakePage struct {
	id         string
	html       string
	currentURL string
	title      string
	image      []byte

	navigateErr error
	clickErr    error
	fillErr     error
	htmlErr     error

	fills  map[string]string
	clicks []string
}

func (p *fakePage) ID() string { return p.id }

func (p *fakePage) Navigate(ctx context.Context, url string) (*schemas.NavigationInfo, error) {
	if p.navigateErr != nil {
		return nil, p.navigateErr
	}
	p.currentURL = url
	return &schemas.NavigationInfo{CurrentURL: url, Status: 200, Title: p.title}, nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	if p.clickErr != nil {
		return p.clickErr
	}
	p.clicks = append(p.clicks, selector)
	return nil
}

func (p *fakePage) Fill(ctx context.Context, selector, value string) error {
	if p.fillErr != nil {
		return p.fillErr
	}
	if p.fills == nil {
		p.fills = map[string]string{}
	}
	p.fills[selector] = value
	return nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	if p.htmlErr != nil {
		return "", p.htmlErr
	}
	return p.html, nil
}

func (p *fakePage) Screenshot(ctx context.Context, mode string) ([]byte, error) {
	return p.image, nil
}

func (p *fakePage) CurrentURL(ctx context.Context) (string, error) {
	return p.currentURL, nil
}

// fakeResolver hands out a single fakePage and records the session ids it was
// asked to resolve.
type fakeResolver struct {
	page       *fakePage
	resolveErr error
	requested  []string
}

func (r *fakeResolver) Resolve(ctx context.Context, sessionID string) (string, schemas.PageSession, error) {
	r.requested = append(r.requested, sessionID)
	if r.resolveErr != nil {
		return "", nil, r.resolveErr
	}
	return r.page.id, r.page, nil
}

func (r *fakeResolver) Shutdown(ctx context.Context) error { return nil }

func setupService(t *testing.T, page *fakePage) (*Service, *fakeResolver, *observer.ObservedLogs) {
	t.Helper()
	if page == nil {
		page = &fakePage{id: "sess_abc123def456"}
	}
	resolver := &fakeResolver{page: page}
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	return NewService(NewRegistry(resolver, logger), logger), resolver, logs
}
