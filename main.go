package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bcdannyboy/fdquant/config"
	"github.com/bcdannyboy/fdquant/fdm"
	"github.com/bcdannyboy/fdquant/portfolio"
	"github.com/bcdannyboy/fdquant/pricer"
	fdslack "github.com/bcdannyboy/fdquant/slack"
	"golang.org/x/exp/rand"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %s\n", err.Error())
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("fdquant failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	defaults := pricer.Request{GridPoints: cfg.GridPoints, TimeSteps: cfg.TimeSteps, Scheme: cfg.Scheme}

	if cfg.Convergence {
		return convergence(cfg, logger)
	}

	if cfg.SlackEnabled() {
		logger.Info("starting slack bot")
		bot := fdslack.NewSlackBot(cfg.SlackAppToken, cfg.SlackBotToken, defaults, logger)
		return bot.Start(ctx)
	}

	var positions []portfolio.Position
	if cfg.Portfolio != "" {
		loaded, err := portfolio.Load(cfg.Portfolio)
		if err != nil {
			return err
		}
		positions = loaded
	} else {
		seed := uint64(time.Now().UnixNano())
		logger.Info("no portfolio file, pricing a random book", "positions", cfg.DemoPositions, "seed", seed)
		positions = portfolio.RandomBook(rand.New(rand.NewSource(seed)), cfg.DemoPositions)
	}

	report, err := portfolio.Evaluate(ctx, positions, portfolio.Defaults{
		GridPoints: cfg.GridPoints,
		TimeSteps:  cfg.TimeSteps,
		Scheme:     cfg.Scheme,
	}, portfolio.Config{
		Workers:  cfg.Workers,
		Progress: cfg.Progress,
		Logger:   logger,
		Options:  []pricer.Option{pricer.WithLogger(logger)},
	})
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", cfg.Output, err)
	}
	defer f.Close()
	if err := portfolio.WriteReport(f, report); err != nil {
		return err
	}

	logger.Info("report written", "path", cfg.Output, "positions", len(report.Positions), "failed", report.Failed)
	return nil
}

// convergence prices the at-the-money reference call across doubling grids.
func convergence(cfg config.Config, logger *slog.Logger) error {
	req := pricer.Request{
		Type:         fdm.Call,
		Spot:         100,
		Strike:       100,
		RiskFreeRate: 0.1,
		ResidualTime: 1,
		Volatility:   0.2,
		TimeSteps:    cfg.TimeSteps,
		Scheme:       cfg.Scheme,
	}
	study, err := pricer.Convergence(req, []int{51, 101, 201, 401, 801, 1601}, pricer.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Printf("closed form: %.6f\n", study.Reference)
	for _, p := range study.Points {
		fmt.Printf("N=%5d  value=%.6f  error=%+.6f\n", p.GridPoints, p.Value, p.Error)
	}
	fmt.Printf("max abs error: %.6f\n", study.MaxAbsError())
	return nil
}
