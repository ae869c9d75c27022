package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tadabbur/tadabbur/internal/config"
	"github.com/tadabbur/tadabbur/internal/engine"
	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/gen"
	"github.com/tadabbur/tadabbur/internal/hydrate"
	"github.com/tadabbur/tadabbur/internal/journal"
	"github.com/tadabbur/tadabbur/internal/logging"
	"github.com/tadabbur/tadabbur/internal/otel"
	"github.com/tadabbur/tadabbur/internal/prefetch"
	"github.com/tadabbur/tadabbur/internal/source"
	"github.com/tadabbur/tadabbur/internal/ui"
	"github.com/tadabbur/tadabbur/internal/visibility"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tadabbur: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := logging.Init(); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()

	dataDir := config.Dir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Observability: JSONL event log plus in-memory ring for the overlay
	eventsPath := filepath.Join(dataDir, "events.jsonl")
	eventsFile, err := os.OpenFile(eventsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer eventsFile.Close()

	logger := otel.NewLogger(eventsFile)
	defer logger.Close()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	logger.SetRingBuffer(ring)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	jr, err := journal.Open(filepath.Join(dataDir, "tadabbur.db"))
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jr.Close()

	picker := buildPicker(cfg)

	curated := source.NewCurated()
	var src source.Source = curated
	if len(picker.Available()) > 0 {
		src = source.NewLayered(source.NewGenerated(picker, logger), curated)
	}

	store := feed.NewStore()
	controller := prefetch.New(store, src, logger,
		prefetch.WithBatchSizes(cfg.Feed.EntryBatch, cfg.Feed.TabBatch, cfg.Feed.SteadyBatch),
		prefetch.WithArchiver(jr),
	)
	tracker := visibility.New(cfg.Feed.Trailing)

	// The read callback fires from a timer goroutine after the program
	// exists; the guard covers only startup.
	var program *tea.Program
	hydrator := hydrate.New(store, src, logger,
		hydrate.WithDwell(time.Duration(cfg.Feed.DwellSeconds)*time.Second),
		hydrate.WithKeeper(jr),
		hydrate.WithReadCallback(func(id string) {
			if program != nil {
				program.Send(ui.ReadMarked{ID: id})
			}
		}),
	)

	eng := engine.New(store, controller, tracker, hydrator, logger)

	logger.Info(otel.KindStartup, "main", fmt.Sprintf("providers=%v", picker.Available()))
	logging.Info("starting", "data_dir", dataDir, "providers", picker.Available())

	app := ui.NewApp(eng, ring)
	program = tea.NewProgram(app, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		logger.Error(otel.KindError, "main", err)
		return fmt.Errorf("run ui: %w", err)
	}

	logger.Info(otel.KindShutdown, "main", "")
	return nil
}

// buildPicker registers the configured generation providers in priority
// order. An empty picker is valid; the feed then runs curated-only.
func buildPicker(cfg *config.Config) *gen.Picker {
	picker := gen.NewPicker()

	if p := cfg.Providers.Anthropic; p.Enabled && p.APIKey != "" {
		picker.Add(gen.NewAnthropic(p.APIKey, p.Model))
	}
	if p := cfg.Providers.OpenAI; p.Enabled && p.APIKey != "" {
		picker.Add(gen.NewOpenAI(p.APIKey, p.Model, p.Endpoint))
	}
	if p := cfg.Providers.Ollama; p.Enabled {
		picker.Add(gen.NewOllama(p.Endpoint, p.Model))
	}

	if order := cfg.EnabledProviders(); len(order) > 0 {
		picker.SetPreferred(order[0])
	}
	return picker
}
