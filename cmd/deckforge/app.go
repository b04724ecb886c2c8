package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/assets"
	"github.com/lvillar/deckforge/config"
	"github.com/lvillar/deckforge/deckexport"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/metrics"
	"github.com/lvillar/deckforge/pdfexport"
	"github.com/lvillar/deckforge/store"
	"github.com/lvillar/deckforge/studio"
	"github.com/lvillar/deckforge/templates"
)

// app holds the dependencies every command shares.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Metrics
	store   *store.Store
	reg     *templates.Registry
	ws      *studio.Workspace
	pdf     *pdfexport.Exporter
	deck    *deckexport.Exporter
	format  geom.Format
}

// newApp loads the configuration and wires the workspace and both
// exporters. The persisted document and provider are restored.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
		cfg.Server.Debug = true
	}
	// stdout carries command output and the MCP protocol.
	cfg.Log.OutputPaths = []string{"stderr"}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	format, err := geom.ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(nil),
		reg:     templates.MustDefault(),
		format:  format,
	}

	a.store, err = store.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.ws = studio.New(ai.Offline{},
		studio.WithStore(a.store),
		studio.WithLogger(log),
		studio.WithMetrics(a.metrics),
		studio.WithStyle(cfg.Style))
	if err := a.restoreProvider(ctx); err != nil {
		a.close()
		return nil, err
	}

	a.wireExporters()
	return a, nil
}

// restoreProvider activates the saved provider, or the configured one when
// nothing was saved. The API key always comes from the environment. A
// provider that cannot be built leaves the offline generator in place.
func (a *app) restoreProvider(ctx context.Context) error {
	saved, err := a.ws.Restore(ctx)
	if err != nil {
		return err
	}
	pc := ai.Config{Provider: a.cfg.AI.Provider, Model: a.cfg.AI.Model, BaseURL: a.cfg.AI.BaseURL}
	if saved.Provider != "" {
		pc = saved
	}
	pc.APIKey = a.cfg.AI.APIKey

	if err := a.ws.Configure(ctx, pc, ai.WithTimeout(a.cfg.AI.Timeout)); err != nil {
		a.log.Warn("provider unavailable, using offline generator",
			logger.String("provider", pc.Provider), logger.Err(err))
	}
	return nil
}

func (a *app) wireExporters() {
	img := a.cfg.Images
	fetcher := assets.NewFetcher(
		assets.WithHTTPClient(&http.Client{Timeout: img.Timeout}),
		assets.WithRateLimit(img.RatePerSecond, img.Burst),
		assets.WithLocalFiles(img.AllowFiles))
	loader := assets.NewLoader(fetcher,
		assets.WithCache(assets.NewCache(img.CacheBytes)),
		assets.OnFailure(func(ref string, err error) {
			a.log.Debug("image unavailable", logger.String("ref", ref), logger.Err(err))
		}))

	resolver := assets.NewResolver()
	if img.GeneratorBase != "" {
		resolver.Base = img.GeneratorBase
	}

	exp := a.cfg.Export
	var settler pdfexport.Settler = pdfexport.DelaySettler{Delay: exp.SettleDelay}
	if exp.Settle == config.SettleLoad {
		settler = pdfexport.LoadSettler{Max: exp.SettleDelay}
	}

	a.pdf = pdfexport.New(a.reg,
		pdfexport.WithSettler(settler),
		pdfexport.WithImageLoader(loader),
		pdfexport.WithImageResolver(resolver.URL),
		pdfexport.WithCaptureScale(exp.CaptureScale),
		pdfexport.WithJPEGQuality(exp.JPEGQuality),
		pdfexport.WithBaselineRatio(exp.BaselineRatio),
		pdfexport.WithCreator("deckforge "+version),
		pdfexport.WithLogger(a.log),
		pdfexport.WithMetrics(a.metrics))
	a.deck = deckexport.New(a.reg,
		deckexport.WithImages(loader),
		deckexport.WithImageResolver(resolver.URL),
		deckexport.WithLogger(a.log),
		deckexport.WithMetrics(a.metrics))
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("closing store failed", logger.Err(err))
		}
	}
	_ = a.log.Sync()
}
