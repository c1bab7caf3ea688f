// Package main is the entry point for the orbit vignette.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/orbit-vignette/internal/config"
	"github.com/Faultbox/orbit-vignette/internal/logger"
	"github.com/Faultbox/orbit-vignette/internal/vignette"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration; invalid settings stop us before the first frame.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Orbit Vignette ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := vignette.New(cfg)
	if err != nil {
		logger.Error("failed to start vignette", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		logger.Error("vignette error", zap.Error(err))
		return
	}

	logger.Info("vignette closed normally")
}
