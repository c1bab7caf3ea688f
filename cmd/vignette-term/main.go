// Package main runs the orbit vignette in a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/orbit-vignette/internal/assets"
	"github.com/Faultbox/orbit-vignette/internal/config"
	"github.com/Faultbox/orbit-vignette/internal/engine/clock"
	"github.com/Faultbox/orbit-vignette/internal/logger"
	"github.com/Faultbox/orbit-vignette/internal/termview"
)

const refreshRate = 30

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to tcell, so logs only go to the file.
	logFile := cfg.Logging.LogFile
	if logFile == "" {
		logFile = "vignette-term.log"
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, logger.DefaultFileConfig(logFile), false); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("terminal preview failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	view, err := termview.New(screen, cfg, clock.NewWall(), logger.Named("termview"))
	if err != nil {
		return err
	}

	loader := assets.NewLoader(assets.Options{
		Root:           cfg.Assets.Root,
		Workers:        cfg.Assets.Workers,
		MaxTextureSize: cfg.Assets.MaxTextureSize,
		Logger:         logger.Named("assets"),
	})
	defer loader.Close()
	for _, req := range termview.Requests(cfg) {
		loader.Load(req)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("terminal preview started")
	if err := view.Run(ctx, loader, refreshRate); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("terminal preview closed",
		zap.Uint64("ticks", view.Scheduler().Stats().Ticks))
	return nil
}
