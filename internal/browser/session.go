// Package browser manages the headless browser session for a crawl run:
// launch or remote-connect via Rod, hand out stealth pages, and shut
// down deterministically when the run ends.
package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/jonesrussell/matchcrawl/internal/adapter"
	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// ErrSessionClosed is returned when a page is requested after Close.
var ErrSessionClosed = errors.New("browser session is closed")

// Session owns one browser process for the lifetime of a crawl run.
// It is not safe for concurrent use; the orchestrator is the sole owner.
type Session struct {
	cfg     *config.BrowserConfig
	browser *rod.Browser
	lnch    *launcher.Launcher
	logger  logger.Interface
	closed  bool
}

// NewSession creates an unstarted session.
func NewSession(cfg *config.BrowserConfig, log logger.Interface) *Session {
	return &Session{
		cfg:    cfg,
		logger: log.WithComponent("browser"),
	}
}

// Start launches a local browser, or connects to the configured remote
// instance. A failure here is fatal for the whole run.
func (s *Session) Start(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.browser != nil {
		// Already started; Run and the discovery probe may share one
		// session within a single invocation.
		return nil
	}

	wsURL := s.cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().
			Headless(s.cfg.Headless).
			Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("failed to launch browser: %w", err)
		}
		s.lnch = l
		wsURL = u
		s.logger.Info("Launched local browser", "headless", s.cfg.Headless)
	} else {
		s.logger.Info("Connecting to remote browser", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		s.cleanup()
		return fmt.Errorf("failed to connect to browser: %w", err)
	}
	s.browser = b
	return nil
}

// NewPage opens a stealth page and returns it behind the adapter.Page
// contract. The caller owns the page and must Close it.
func (s *Session) NewPage(ctx context.Context) (adapter.Page, error) {
	if s.closed || s.browser == nil {
		return nil, ErrSessionClosed
	}

	p, err := stealth.Page(s.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if s.cfg.UserAgent != "" {
		err = p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.cfg.UserAgent})
		if err != nil {
			s.logger.Warn("Failed to override user agent", "error", err)
		}
	}

	return &page{p: p, cfg: s.cfg}, nil
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cleanup()
	s.logger.Info("Browser session closed")
	return nil
}

func (s *Session) cleanup() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Warn("Browser close failed", "error", err)
		}
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
}
