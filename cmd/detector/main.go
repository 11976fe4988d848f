package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fishdetector/internal/app"
	"fishdetector/internal/config"
	"fishdetector/internal/logger"
	"fishdetector/internal/model"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 2
	}

	l, err := logger.NewLogger(cfg)
	if err != nil {
		log.Printf("Failed to create logger: %v", err)
		return 2
	}
	defer l.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(cfg, l)
	if err != nil {
		l.Error("Failed to start: %v", err)
		return 2
	}
	defer application.Close()

	result, err := application.Run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrConfiguration):
			l.Error("❌ Configuration error: %v", err)
			return 2
		case errors.Is(err, context.Canceled):
			l.Warning("Interrupted")
			return 130
		default:
			l.Error("❌ Run failed: %v", err)
			return 1
		}
	}

	fmt.Printf("🏆 Winner: %s (left: %d, right: %d)\n", result.Winner, result.Left, result.Right)
	fmt.Printf("✅ Done! Result saved to %s\n", result.OutputPath)
	return 0
}
