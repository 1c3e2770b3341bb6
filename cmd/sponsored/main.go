package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/sponsored-cli/internal/app"
	"github.com/glabrego/sponsored-cli/internal/config"
	"github.com/glabrego/sponsored-cli/internal/logging"
	"github.com/glabrego/sponsored-cli/internal/page"
	"github.com/glabrego/sponsored-cli/internal/recommend"
	"github.com/glabrego/sponsored-cli/internal/storage"
	"github.com/glabrego/sponsored-cli/internal/tui"
	"github.com/glabrego/sponsored-cli/internal/tui/platform"
	tuitheme "github.com/glabrego/sponsored-cli/internal/tui/theme"
	"github.com/glabrego/sponsored-cli/internal/tui/view"
	"github.com/glabrego/sponsored-cli/internal/widget"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, syncLog, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logging init error: %v", err)
	}
	defer func() { _ = syncLog() }()

	var source app.Source
	switch cfg.Provider {
	case config.ProviderCatalog:
		repo, err := storage.NewRepository(cfg.DBPath)
		if err != nil {
			log.Fatalf("storage init error: %v", err)
		}
		defer repo.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := repo.Init(ctx); err != nil {
			cancel()
			log.Fatalf("storage schema error: %v", err)
		}
		if cfg.CatalogSeed != "" {
			n, err := app.SeedCatalog(ctx, repo, cfg.CatalogSeed)
			if err != nil {
				cancel()
				log.Fatalf("catalog seed error: %v", err)
			}
			logger.Info("seeded catalog", "path", cfg.CatalogSeed, "recommendations", n)
		}
		total, err := repo.CountRecommendations(ctx)
		cancel()
		if err != nil {
			log.Fatalf("catalog count error: %v", err)
		}
		if total == 0 {
			fmt.Fprintf(os.Stderr, "warning: catalog %s is empty, set SPONSORED_CATALOG_SEED to load recommendations\n", cfg.DBPath)
		}
		source = app.NewCatalog(repo)
	default:
		source = recommend.NewClient(cfg.APIBaseURL, recommend.Endpoint{
			PublisherID: cfg.PublisherID,
			APIKey:      cfg.APIKey,
			AppType:     cfg.AppType,
			SourceType:  cfg.SourceType,
			SourceID:    cfg.SourceID,
			SourceURL:   cfg.SourceURL,
		}, nil)
	}

	service, err := app.NewService(source, cfg.Tuning.Provider.Policy(), logger)
	if err != nil {
		log.Fatalf("service init error: %v", err)
	}

	doc, err := page.Load(cfg.PagePath)
	if err != nil {
		log.Fatalf("host page error: %v", err)
	}

	tuning := cfg.Tuning
	board := view.NewBoard(tuitheme.Default())
	responsive := widget.NewResponsive(widget.ResponsiveConfig{
		Breakpoint:      tuning.Breakpoint,
		ScrollThreshold: tuning.ScrollThreshold,
		CollapseOffset:  tuning.CollapseOffset,
		ExpandDelta:     tuning.ExpandDelta,
		BottomProximity: tuning.BottomProximity,
		TabDelay:        tuning.TabDelay,
	}, board, logger)

	ctrl, err := widget.NewController(service, board, platform.NewBrowser(), widget.Options{
		Count:        tuning.Count,
		MaxRetries:   tuning.MaxRetries,
		RetryDelay:   tuning.RetryDelay,
		FetchTimeout: tuning.FetchTimeout,
		Replace:      tuning.Replace.Policy(),
		Behavior:     responsive,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("widget init error: %v", err)
	}

	model := tui.NewModel(ctrl, responsive, board, doc, tui.Options{
		CellWidth:  tuning.CellWidth,
		LineHeight: tuning.LineHeight,
		Logger:     logger,
	})

	logger.Info("starting", "provider", cfg.Provider, "count", tuning.Count)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
