// Package common provides shared dependency construction for the CLI
// commands: configuration, logging, and the wired crawl components.
package common

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/matchcrawl/internal/adapter/scorepage"
	"github.com/jonesrussell/matchcrawl/internal/browser"
	"github.com/jonesrussell/matchcrawl/internal/catalog"
	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/crawler"
	"github.com/jonesrussell/matchcrawl/internal/dataset"
	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
	"github.com/jonesrussell/matchcrawl/internal/pagination"
	"github.com/jonesrussell/matchcrawl/internal/ratelimit"
)

// Deps bundles configuration and the logger for a command invocation.
type Deps struct {
	Config *config.Config
	Logger logger.Interface
}

// BuildDeps loads configuration from Viper and creates the logger.
func BuildDeps() (*Deps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.GetLogConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Deps{Config: cfg, Logger: log}, nil
}

// Components holds the wired crawl stack.
type Components struct {
	Session *browser.Session
	Adapter *scorepage.Adapter
	Store   *dataset.Store
	Cache   *catalog.Cache
	Crawler *crawler.Crawler
}

// BuildComponents wires the crawl stack from configuration. The browser
// session is created but not started; the orchestrator owns its
// lifecycle for the duration of a run.
func BuildComponents(deps *Deps) (*Components, error) {
	cfg := deps.Config
	log := deps.Logger

	session := browser.NewSession(cfg.GetBrowserConfig(), log)
	site := scorepage.New(cfg.GetCrawlerConfig().BaseURL, log)
	store := dataset.NewStore(cfg.GetStorageConfig().DataDir, log)

	cache, err := catalog.NewCache(
		cfg.GetStorageConfig().CacheDir,
		cfg.GetCrawlerConfig().CacheTTL,
		crawler.NewProbe(session, site, log),
		log,
	)
	if err != nil {
		return nil, err
	}

	var opts []crawler.Option
	if cfg.GetCrawlerConfig().RefetchNonFinal {
		opts = append(opts, crawler.WithIsFinal(func(m *domain.Match) bool {
			return m.Status.IsFinal()
		}))
	}

	orch := crawler.New(
		cfg.GetCrawlerConfig(),
		session,
		site,
		store,
		ratelimit.New(cfg.GetCrawlerConfig(), log),
		pagination.NewController(cfg.GetCrawlerConfig(), log),
		log,
		opts...,
	)

	return &Components{
		Session: session,
		Adapter: site,
		Store:   store,
		Cache:   cache,
		Crawler: orch,
	}, nil
}
