package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
	"github.com/Dream2Nightmare/brainbot/internal/autonomy"
	"github.com/Dream2Nightmare/brainbot/internal/config"
	"github.com/Dream2Nightmare/brainbot/internal/dream"
	"github.com/Dream2Nightmare/brainbot/internal/gateway"
	"github.com/Dream2Nightmare/brainbot/internal/inquiry"
	"github.com/Dream2Nightmare/brainbot/internal/proc"
	"github.com/Dream2Nightmare/brainbot/internal/scan"
	"github.com/Dream2Nightmare/brainbot/internal/senses"
	"github.com/Dream2Nightmare/brainbot/internal/tracing"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the agent: idle scan, dream cycle, craving loop, gateway",
		Run: func(cmd *cobra.Command, args []string) {
			runAgent()
		},
	}
}

func runAgent() {
	cfg := loadConfig()
	runID := uuid.NewString()
	slog.Info("brainbot waking up", "run_id", runID, "base", cfg.BaseDir)

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing.Endpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer shutdownTracing(ctx)

	bot := buildBot(cfg)
	startupInquiry(bot)

	scanInterval, _ := cfg.ScanIntervalDuration()
	scanner := scan.NewService(scan.Config{
		Roots:    cfg.ScanRoots,
		Interval: scanInterval,
	}, bot)

	dreamInterval, _ := cfg.DreamIntervalDuration()
	engine := dream.NewEngine(bot)
	scheduler := dream.NewScheduler(dream.Schedule{
		Interval: dreamInterval,
		Expr:     cfg.DreamCron,
	}, engine)

	craving := autonomy.NewService(bot, buildSeeker(cfg))
	supervisor := proc.NewSupervisor(cfg.Helpers, 0)

	senseInterval, _ := cfg.SenseIntervalDuration()
	senseLoop := senses.NewService(senses.NewController(bot, nil, nil, nil), senseInterval)

	scanner.Start()
	if err := scheduler.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Craving.Enabled {
		craving.Start()
	}
	if cfg.Senses.Enabled {
		senseLoop.Start()
	}
	if len(cfg.Helpers) > 0 {
		supervisor.Start()
	}

	var gw *gateway.Server
	if cfg.Gateway.Enabled {
		gw = gateway.NewServer(cfg.Gateway.Addr, bot, engine, scanner)
		if err := gw.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Hot reload covers the watched roots and the craving/sense toggles;
	// interval changes need a restart.
	if watcher, err := config.NewWatcher(resolveConfigPath()); err == nil {
		watcher.OnChange(func(next *config.Config) {
			scanner.SetRoots(next.ScanRoots)
			if next.Craving.Enabled {
				craving.Start()
			} else {
				craving.Stop()
			}
			if next.Senses.Enabled {
				senseLoop.Start()
			} else {
				senseLoop.Stop()
			}
			slog.Info("config reloaded", "roots", next.ScanRoots, "craving", next.Craving.Enabled, "senses", next.Senses.Enabled)
		})
		if err := watcher.Start(); err != nil {
			slog.Warn("config watcher not started", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("brainbot going to sleep")
	if gw != nil {
		gw.Stop()
	}
	supervisor.Stop()
	senseLoop.Stop()
	craving.Stop()
	scheduler.Stop()
	scanner.Stop()

	// One last dream so nothing observed today is lost in short-term memory.
	dreamCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := engine.Dream(dreamCtx); err != nil {
		slog.Warn("final dream failed", "error", err)
	}
}

// startupInquiry walks the inquiry chain once when the agent wakes, picking
// the thread back up where the last run left it.
func startupInquiry(bot *agent.Bot) []string {
	walker := inquiry.NewWalker(bot.Answered(), bot.InquiryCursor())
	asked := walker.Walk()
	if len(asked) > 0 {
		slog.Info("startup inquiry", "questions", len(asked))
	}
	return asked
}
