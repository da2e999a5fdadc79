package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/starsgrow/libertad-financiera/internal/config"
	"github.com/starsgrow/libertad-financiera/internal/discord"
	"github.com/starsgrow/libertad-financiera/internal/storage"
	"github.com/starsgrow/libertad-financiera/internal/syncer"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	store, err := storage.Open(cfg.DatabasePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open the database: %v\n", err)
		os.Exit(1)
	}

	var sy *syncer.Syncer
	if cfg.GoogleCredentialsFile != "" {
		client, err := syncer.NewDriveClient(context.Background(), logger,
			option.WithCredentialsFile(cfg.GoogleCredentialsFile))
		if err != nil {
			logger.WithError(err).Warn("Drive sync unavailable, continuing without it")
		} else {
			sy = syncer.New(store, client, logger)
		}
	}

	bot, err := discord.NewBot(cfg, store, sy, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize the discord bot: %v\n", err)
		os.Exit(1)
	}
	if err := bot.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start bot: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Bot is running...")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
	if err := store.Close(); err != nil {
		logger.WithError(err).Error("failed to close the database")
	}
	fmt.Println("Bot stopped.")
}
