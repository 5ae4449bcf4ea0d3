// File: internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/api/schemas"
	"github.com/sgrimault/webharvest/internal/config"
)

// Manager owns the browser process lifecycle and the session-to-page
// mapping. It is constructed explicitly and injected wherever pages are
// needed; there is no process-wide singleton.
type Manager struct {
	cfg    *config.Config
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Page
	closed   bool

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	// Browser startup is deferred until the first session is requested.
	initOnce sync.Once
	initErr  error
}

var _ schemas.SessionResolver = (*Manager)(nil)

// NewManager creates a browser manager. The browser process is launched
// lazily on the first Resolve call.
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		logger:   logger.Named("browser_manager"),
		sessions: make(map[string]*Page),
	}
}

// initialize launches the Chrome process and the root browser context.
func (m *Manager) initialize() error {
	m.initOnce.Do(func() {
		m.logger.Info("Launching browser process.",
			zap.Bool("headless", m.cfg.Browser.Headless))

		opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		opts = append(opts,
			chromedp.Flag("headless", m.cfg.Browser.Headless),
			chromedp.WindowSize(m.cfg.Browser.ViewportWidth, m.cfg.Browser.ViewportHeight),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		for _, arg := range m.cfg.Browser.Args {
			name := strings.TrimLeft(arg, "-")
			if name != "" {
				opts = append(opts, chromedp.Flag(name, true))
			}
		}

		m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		m.browserCtx, m.browserCancel = chromedp.NewContext(m.allocCtx)

		// Force the browser process to start now so launch failures surface
		// here rather than inside the first tool call.
		if err := chromedp.Run(m.browserCtx); err != nil {
			m.browserCancel()
			m.allocCancel()
			m.initErr = fmt.Errorf("failed to launch browser: %w", err)
			return
		}
		m.logger.Info("Browser process started.")
	})
	return m.initErr
}

// Resolve returns the page bound to sessionID, creating a fresh isolated tab
// when the identifier is empty or unknown. A provided-but-unknown identifier
// is honored: the new page is registered under it.
func (m *Manager) Resolve(ctx context.Context, sessionID string) (string, schemas.PageSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", nil, fmt.Errorf("browser manager is shut down")
	}

	if sessionID != "" {
		if page, ok := m.sessions[sessionID]; ok {
			return sessionID, page, nil
		}
	}

	if err := m.initialize(); err != nil {
		return "", nil, err
	}

	id := sessionID
	if id == "" {
		id = mintSessionID()
	}

	tabCtx, tabCancel := chromedp.NewContext(m.browserCtx)
	// Materialize the tab eagerly so the session observes a stable target.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return "", nil, fmt.Errorf("failed to open page for session %s: %w", id, err)
	}

	page := newPage(id, tabCtx, tabCancel, m.cfg.Network, m.logger)
	m.sessions[id] = page

	m.logger.Info("New session created.", zap.String("session_id", id))
	return id, page, nil
}

// Shutdown releases every page and the browser process. It is idempotent:
// repeat calls and partially released state are tolerated.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	for id, page := range m.sessions {
		page.close()
		delete(m.sessions, id)
	}
	if m.browserCancel != nil {
		m.browserCancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}

	m.logger.Info("Browser manager shutdown complete.")
	return nil
}

func mintSessionID() string {
	return "sess_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
