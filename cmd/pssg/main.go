package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/masajid/masajid-seo/internal/pkg/errors"
	"github.com/masajid/masajid-seo/internal/pkg/logger"
	"github.com/masajid/masajid-seo/internal/pssg/build"
	"github.com/masajid/masajid-seo/internal/pssg/config"
)

func main() {
	configPath := flag.String("config", "pssg.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("Failed to load config", err)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Generate
	if err := build.NewBuilder(cfg, log).Build(ctx); err != nil {
		log.Error("Build failed", zap.String("code", errors.CodeOf(err)), zap.Error(err))
		log.Sync()
		stop()
		os.Exit(1)
	}
}

// fail reports an error that happened before the configured logger exists.
func fail(msg string, err error) {
	log, lerr := logger.New("info")
	if lerr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}
	log.Error(msg, zap.String("code", errors.CodeOf(err)), zap.Error(err))
	_ = log.Sync()
	os.Exit(1)
}
