// Package app wires the configured components together for the commands.
package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/redis/go-redis/v9"

	"go-jobhunter/internal/ai"
	"go-jobhunter/internal/browser"
	"go-jobhunter/internal/config"
	"go-jobhunter/internal/dedup"
	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/memory"
	"go-jobhunter/internal/pipeline"
	"go-jobhunter/internal/scraper"
	"go-jobhunter/internal/scraper/linkedin"
	"go-jobhunter/internal/scraper/programs"
	"go-jobhunter/internal/scraper/research"
	"go-jobhunter/internal/store"
	"go-jobhunter/internal/telegram"
)

type App struct {
	Config    *config.Config
	Store     *store.Store
	Scorer    *filter.Scorer
	Learner   *memory.Learner
	Review    *store.Review
	Assistant *ai.Assistant
	Seen      dedup.SeenCache
	Bot       *telegram.Bot
	Pipeline  *pipeline.Pipeline

	closers []func() error
}

type Option func(*buildOptions)

type buildOptions struct {
	scrapers bool
	notify   bool
}

// WithoutScrapers skips fetcher, browser and scraper setup, for commands
// that only touch the stores.
func WithoutScrapers() Option {
	return func(o *buildOptions) { o.scrapers = false }
}

// WithoutNotifier skips the Telegram bot even when it is configured.
func WithoutNotifier() Option {
	return func(o *buildOptions) { o.notify = false }
}

// Build constructs every component from cfg. Optional collaborators that
// fail to start (Redis, Telegram, the browser) are logged and left out.
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	bo := buildOptions{scrapers: true, notify: true}
	for _, opt := range opts {
		opt(&bo)
	}

	a := &App{
		Config: cfg,
		Store:  store.New(cfg.Paths.DataDir),
		Scorer: filter.NewScorer(cfg.Preferences),
	}

	decisions, err := memory.OpenLog(ctx, cfg.Memory.Backend, cfg.Paths.DataDir, cfg.Memory.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open decision memory: %w", err)
	}
	a.Learner = memory.NewLearner(decisions)
	a.closers = append(a.closers, a.Learner.Close)
	log.Printf("🧠 Decision memory: %s", cfg.Memory.Backend)

	a.Review = store.NewReview(a.Store, a.Learner)

	if cfg.AI.GroqAPIKey != "" {
		var aiOpts []ai.GroqOption
		if cfg.AI.Model != "" {
			aiOpts = append(aiOpts, ai.WithModel(cfg.AI.Model))
		}
		if cfg.AI.BaseURL != "" {
			aiOpts = append(aiOpts, ai.WithBaseURL(cfg.AI.BaseURL))
		}
		a.Assistant = ai.NewAssistant(ai.NewGroqClient(cfg.AI.GroqAPIKey, aiOpts...))
		log.Println("✅ Groq assistant initialized")
	} else {
		a.Assistant = ai.NewAssistant(nil)
		log.Println("⚠️ GROQ_API_KEY not set - company research and email enhancement disabled")
	}

	a.Seen = a.seenCache(ctx)

	pipeOpts := []pipeline.Option{
		pipeline.WithProfile(cfg.Profile),
		pipeline.WithMemory(a.Learner),
		pipeline.WithSeenCache(a.Seen),
	}

	if bo.notify && cfg.Telegram.Configured() {
		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			a.Bot = bot
			pipeOpts = append(pipeOpts, pipeline.WithNotifier(bot))
			log.Println("🤖 Telegram Bot initialized.")
		}
	}

	if bo.scrapers {
		fetcher := a.fetcher(ctx)
		pipeOpts = append(pipeOpts, pipeline.WithScrapers(a.scrapers(fetcher)...))
	}

	a.Pipeline = pipeline.New(a.Store, a.Scorer, pipeOpts...)
	return a, nil
}

func (a *App) seenCache(ctx context.Context) dedup.SeenCache {
	if a.Config.RedisURL != "" {
		rdb, err := dedup.NewRedisClient(ctx, a.Config.RedisURL)
		if err == nil {
			a.closers = append(a.closers, func() error { return closeRedis(rdb) })
			log.Println("🗃️ Seen cache: redis")
			return dedup.NewRedisCache(rdb, dedup.DefaultTTL)
		}
		log.Printf("⚠️ Redis unavailable, falling back to file cache: %v", err)
	}
	return dedup.NewFileCache(a.Config.Paths.CacheDir, dedup.DefaultTTL)
}

func closeRedis(rdb *redis.Client) error {
	return rdb.Close()
}

// fetcher returns a playwright-backed fetcher when the browser is enabled
// and starts, otherwise plain HTTP.
func (a *App) fetcher(ctx context.Context) scraper.Fetcher {
	httpFetcher := scraper.NewHTTPFetcher(15 * time.Second)
	if !a.Config.Sources.Browser {
		return httpFetcher
	}

	pm, err := browser.NewPlaywright(ctx)
	if err != nil {
		log.Printf("⚠️ Browser unavailable, using HTTP fetcher: %v", err)
		return httpFetcher
	}
	a.closers = append(a.closers, pm.Close)

	var cookies []playwright.OptionalCookie
	cookieFile := filepath.Join(a.Config.Paths.CookiesDir, "cookies-linkedin.json")
	if loaded, err := browser.LoadCookies(cookieFile); err != nil {
		log.Printf("⚠️ Could not load linkedin cookies: %v. Continuing.", err)
	} else {
		log.Printf("🍪 Loaded linkedin cookies (%d)", len(loaded))
		cookies = loaded
	}

	bctx, err := pm.NewContext(cookies)
	if err != nil {
		log.Printf("⚠️ Browser context failed, using HTTP fetcher: %v", err)
		return httpFetcher
	}
	pf, err := browser.NewPageFetcher(bctx, true)
	if err != nil {
		log.Printf("⚠️ Browser page failed, using HTTP fetcher: %v", err)
		return httpFetcher
	}
	a.closers = append(a.closers, pf.Close)
	log.Println("✅ Browser initialized successfully!")
	return pf
}

func (a *App) scrapers(fetcher scraper.Fetcher) []scraper.Scraper {
	pause := scraper.RandomPause(2*time.Second, 4*time.Second)
	src := a.Config.Sources

	var out []scraper.Scraper
	if src.Enabled("linkedin") {
		queries := src.LinkedInQueries
		if len(queries) == 0 {
			queries = linkedin.DefaultQueries
		}
		out = append(out, linkedin.NewLinkedInScraper(fetcher, queries, a.Config.Preferences, linkedin.WithPacer(pause)))
	}
	if src.Enabled("research") {
		out = append(out, research.NewResearchScraper(fetcher, research.DefaultSites, pause))
	}
	if src.Enabled("programs") {
		out = append(out, programs.All(fetcher, pause)...)
	}
	return out
}

// Close releases resources in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("⚠️ Close failed: %v", err)
		}
	}
	a.closers = nil
}
