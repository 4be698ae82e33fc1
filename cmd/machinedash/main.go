package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/speedwagon-io/machinedash/internal/classify"
	"github.com/speedwagon-io/machinedash/internal/collector"
	"github.com/speedwagon-io/machinedash/internal/collector/adapters"
	"github.com/speedwagon-io/machinedash/internal/config"
	"github.com/speedwagon-io/machinedash/internal/dashboard"
	"github.com/speedwagon-io/machinedash/internal/health"
	"github.com/speedwagon-io/machinedash/internal/lib/logger/sl"
	"github.com/speedwagon-io/machinedash/internal/model"
	"github.com/speedwagon-io/machinedash/internal/parser"
	"github.com/speedwagon-io/machinedash/internal/render"
	"github.com/speedwagon-io/machinedash/internal/tui"
	"github.com/speedwagon-io/machinedash/internal/view"
	"github.com/speedwagon-io/machinedash/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	dryRun := flag.Bool("dry-run", false, "print every view as text instead of serving it")
	tuiMode := flag.Bool("tui", false, "run the terminal dashboard")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log, closeLog := setupLogger(cfg.Log, *tuiMode)
	defer closeLog()

	log.Info("starting machinedash",
		slog.String("env", cfg.Env),
		slog.String("source", cfg.Source.URL),
		slog.Bool("dry_run", *dryRun),
		slog.Bool("tui", *tuiMode),
	)

	menu := config.MustLoadMenu(cfg.Menu.ConfigPath)

	log.Info("loaded menu config",
		slog.Int("machines", len(menu.Machines)),
		slog.Int("views", len(menu.Views)),
	)

	controller := dashboard.NewController(log, view.Options{SampleInterval: cfg.Aggregate.SampleInterval})

	source := adapters.NewCSVFeedAdapter(log, cfg.Source.URL, cfg.Source.Timeout)
	manager := collector.NewManager(
		log,
		source,
		parser.New(cfg.Parser.Delimiter),
		classify.New(cfg.Classify.StateColumns...),
		controller,
	)

	switch {
	case *dryRun:
		runDryRun(log, controller, manager, menu, os.Stdout)
	case *tuiMode:
		runTUI(log, controller, manager, menu)
	default:
		runServer(log, cfg, controller, manager, menu)
	}
}

func setupLogger(cfg config.LogConfig, tuiMode bool) (*slog.Logger, func()) {
	if cfg.File == "" {
		if tuiMode {
			return sl.New(io.Discard, cfg.Level, cfg.Format), func() {}
		}
		return sl.SetupLogger(cfg.Level, cfg.Format), func() {}
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		panic("failed to open log file: " + err.Error())
	}
	return sl.New(f, cfg.Level, cfg.Format), func() { f.Close() }
}

// runDryRun fetches once and prints every view without a machine, then every
// machine and view combination.
func runDryRun(log *slog.Logger, controller *dashboard.Controller, manager *collector.Manager, menu *config.MenuConfig, out io.Writer) {
	defer manager.Stop()

	if err := manager.Load(context.Background()); err != nil {
		log.Error("dry-run fetch failed, rendering empty dataset", sl.Err(err))
	}

	renderer := render.NewTextRenderer(log)
	show := func() {
		if err := renderer.Render(out, controller.Snapshot()); err != nil {
			log.Error("failed to render view", sl.Err(err))
		}
		io.WriteString(out, "\n")
	}

	controller.Reset()
	show()

	for _, v := range menu.Views {
		controller.ChooseView(model.View(v.ID))
		show()
	}

	for _, m := range menu.Machines {
		controller.ChooseMachine(model.Machine(m.ID))
		for _, v := range menu.Views {
			controller.ChooseView(model.View(v.ID))
			show()
		}
	}

	controller.Close()
	log.Info("dry-run finished")
}

func runTUI(log *slog.Logger, controller *dashboard.Controller, manager *collector.Manager, menu *config.MenuConfig) {
	defer manager.Stop()

	m := tui.New(controller, menu, manager.Load)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Error("terminal ui error", sl.Err(err))
		os.Exit(1)
	}

	controller.Close()
	log.Info("terminal ui stopped")
}

func runServer(log *slog.Logger, cfg *config.Config, controller *dashboard.Controller, manager *collector.Manager, menu *config.MenuConfig) {
	healthServer := health.NewServer(log, cfg.Health.Address)
	healthServer.AddChecker(health.NewDatasetHealthChecker(func() health.DatasetState {
		snap := controller.Snapshot()
		return health.DatasetState{
			Loaded:  snap.Loaded,
			Rows:    snap.Dataset.Len(),
			LastErr: snap.LastError,
		}
	}))

	if err := healthServer.Start(); err != nil {
		log.Error("failed to start health server", sl.Err(err))
		os.Exit(1)
	}

	webServer := web.NewServer(log, cfg.HTTP.Address, controller, render.NewHTMLRenderer(log, menu))
	if err := webServer.Start(); err != nil {
		log.Error("failed to start web server", sl.Err(err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	manager.Start(ctx)

	<-ctx.Done()
	log.Info("received signal, shutting down")

	controller.Close()
	manager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := webServer.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop web server", sl.Err(err))
	}

	if err := healthServer.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop health server", sl.Err(err))
	}

	log.Info("machinedash stopped")
}
