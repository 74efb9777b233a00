package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/covergram/covergram/internal/config"
	"github.com/covergram/covergram/internal/logger"
	"github.com/covergram/covergram/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := logger.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("covergram is starting", map[string]interface{}{
		"log_level":      cfg.LogLevel,
		"webhook_port":   cfg.WebhookPort,
		"has_image_host": cfg.HasImageHostConfig(),
	})

	bot, err := telegram.NewBot(cfg)
	if err != nil {
		logger.Error("Failed to create Telegram bot", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Failed to create Telegram bot: %v", err)
	}

	logger.InfoMsg("🖼 Ready to manage video covers!")

	if err := bot.Start(); err != nil {
		logger.Error("Failed to start bot", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Failed to start bot: %v", err)
	}

	// Block until the process is asked to shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutdown signal received", map[string]interface{}{
		"signal": sig.String(),
	})

	if err := bot.Stop(); err != nil {
		logger.Error("Bot shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
