package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/colonysim/firestarter/internal/config"
	"github.com/colonysim/firestarter/internal/core/clock"
	"github.com/colonysim/firestarter/internal/core/event"
	coresys "github.com/colonysim/firestarter/internal/core/system"
	"github.com/colonysim/firestarter/internal/data"
	gonet "github.com/colonysim/firestarter/internal/net"
	"github.com/colonysim/firestarter/internal/net/packet"
	"github.com/colonysim/firestarter/internal/persist"
	"github.com/colonysim/firestarter/internal/rng"
	"github.com/colonysim/firestarter/internal/scripting"
	"github.com/colonysim/firestarter/internal/system"
	"github.com/colonysim/firestarter/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name, version string) {
	fmt.Println()
	fmt.Println("\033[31;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[31;1m  │\033[0m  %-40s \033[31;1m│\033[0m\n", "firestarter colony server v"+version)
	fmt.Println("\033[31;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mworld:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	v := fmt.Sprint(value)
	dotsLen := 42 - len(label) - len(v)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), v)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("FIRESTARTER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging, cfg.Server.Name)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.Version)

	// 3. Random source, scripts, world
	printSection("world")

	seed := cfg.Simulation.Seed
	if seed == 0 {
		if seed, err = rng.NewSeed(); err != nil {
			return err
		}
	}
	rnd := rng.New(seed)
	printStat("seed", seed)

	lua, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer lua.Close()
	if lua.Has("calc_ignition") {
		printOK("ignition script loaded")
	}

	layout, err := data.LoadLayout(cfg.World.Layout)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	ws, err := world.FromLayout(layout, lua)
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	printStat("grid", fmt.Sprintf("%dx%d", layout.Width, layout.Height))
	printStat("entities", ws.EntityCount())
	printStat("flammable", ws.FlammableCount())
	fmt.Println()

	// 4. Optional PostgreSQL
	var (
		ignitionRepo *persist.IgnitionRepo
		stateRepo    *persist.SystemStateRepo
	)
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")
		applied, err := persist.RunMigrations(ctx, db.Pool, log)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printStat("migrations applied", applied)
		fmt.Println()
		ignitionRepo = persist.NewIgnitionRepo(db)
		stateRepo = persist.NewSystemStateRepo(db)
	}

	// 5. Optional spectator feed
	bus := event.NewBus()
	var spectators *system.SpectatorSystem
	if cfg.Spectator.Enabled {
		cs, err := packet.LookupCharset(cfg.Spectator.Charset)
		if err != nil {
			return fmt.Errorf("spectator: %w", err)
		}
		srv, err := gonet.NewServer(cfg.Spectator.BindAddress, cfg.Spectator.OutQueueSize, cfg.Spectator.MaxSpectators, log)
		if err != nil {
			return fmt.Errorf("spectator server: %w", err)
		}
		defer srv.Shutdown()
		go srv.AcceptLoop()
		spectators = system.NewSpectatorSystem(bus, srv, ws.Grid(), cs, system.SpectatorHello{
			ServerName:   cfg.Server.Name,
			TickRateMs:   int32(cfg.Simulation.TickRate / time.Millisecond),
			TicksPerHour: cfg.Simulation.TicksPerHour,
		}, log)
	}

	// 6. Create systems
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))

	catalog := coresys.NewCatalog()
	var firestarter *system.FirestarterSystem
	if cfg.Firestarter.Enabled {
		minLayer, err := world.ParseLayer(cfg.Firestarter.MinLayer)
		if err != nil {
			return fmt.Errorf("firestarter: %w", err)
		}
		deps := system.FirestarterDeps{
			Bus:      bus,
			Registry: system.WorldFlammables{State: ws},
			Oxygen:   ws,
			Rng:      rnd,
			Log:      log.With(zap.String("system", system.FirestarterSysID)),
		}
		if cfg.Firestarter.FocusCamera && spectators != nil {
			deps.Focus = spectators
		}
		if err := catalog.Register(system.FirestarterSysID, func() (coresys.System, error) {
			firestarter = system.NewFirestarterSystem(deps, cfg.Period(), minLayer, cfg.Firestarter.MinOxygen)
			return firestarter, nil
		}); err != nil {
			return err
		}
	}
	n, err := catalog.Build(runner, cfg.Server.Sandbox, log)
	if err != nil {
		return err
	}
	if firestarter != nil && cfg.Server.Sandbox {
		firestarter = nil // dropped by the catalog
	}

	if spectators != nil {
		runner.Register(spectators)
	}
	var persistence *system.PersistenceSystem
	if ignitionRepo != nil {
		persistence = system.NewPersistenceSystem(bus, ignitionRepo, log, cfg.Persistence.FlushIntervalTicks, cfg.Persistence.MaxPending)
		runner.Register(persistence)
	}
	runner.Register(system.NewCleanupSystem(ws.ECS()))

	printSection("systems")
	printStat("catalog", n)
	printStat("total", runner.Len())
	if firestarter != nil {
		printStat("fire period (ticks)", cfg.Period())
	}

	if firestarter != nil && stateRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		fireIn, ok, err := stateRepo.Load(ctx, system.FirestarterSysID, cfg.Server.Version)
		cancel()
		if err != nil {
			return err
		}
		if ok {
			firestarter.ResumeIn(0, fireIn)
			printStat("next fire in (ticks)", fireIn)
		}
	}

	// 7. Areas ready: dormant systems start ticking from here on
	areas := ws.BuildAreas(layout.Areas, bus)
	printStat("areas", areas)
	fmt.Println()

	// 8. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	clk := clock.New(cfg.Simulation.TickRate, cfg.Simulation.TicksPerHour)
	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()
	clk.Start(time.Now())

	printSection("ready")
	if spectators != nil {
		printReady(fmt.Sprintf("spectators on %s", cfg.Spectator.BindAddress))
	}
	printReady(fmt.Sprintf("game loop running (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	for {
		select {
		case now := <-ticker.C:
			t, ok := clk.Advance(now)
			if !ok {
				continue
			}
			if t.Skipped > 0 {
				log.Debug("game loop behind", zap.Int64("tick", t.Now), zap.Int("skipped", t.Skipped))
			}
			runner.Tick(t)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()), zap.Int64("tick", clk.Now()))
			shutdown(cfg, clk, bus, firestarter, stateRepo, persistence, spectators, runner, log)
			return nil
		}
	}
}

func shutdown(cfg *config.Config, clk *clock.Clock, bus *event.Bus, fs *system.FirestarterSystem, stateRepo *persist.SystemStateRepo,
	persistence *system.PersistenceSystem, spectators *system.SpectatorSystem, runner *coresys.Runner, log *zap.Logger) {
	if fs != nil && stateRepo != nil {
		if fireIn := fs.FireIn(clk.Now()); fireIn > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := stateRepo.Save(ctx, system.FirestarterSysID, fireIn, cfg.Server.Version); err != nil {
				log.Error("save firestarter state failed", zap.Error(err))
			}
			cancel()
		}
	}
	system.Stop(bus, runner, persistence, spectators, "server shutting down")
	log.Info("server stopped")
}

// newLogger builds the process logger. Sampling stays off: the firestarter
// repeats the same warning every cycle while nothing can burn, and each one
// must reach the log.
func newLogger(cfg config.LoggingConfig, worldName string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Sampling = nil
		zapCfg.InitialFields = map[string]any{"world": worldName}
	} else {
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
