package config

import (
	"fmt"
	"os"
)

type Config struct {
	DatabasePath          string
	DiscordBotToken       string
	DiscordChannelId      string
	GoogleCredentialsFile string
}

func Load() (*Config, error) {
	botToken := os.Getenv("DISCORD_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("Bot token is not set")
	}
	channelID := os.Getenv("DISCORD_CHANNEL_ID")
	if channelID == "" {
		return nil, fmt.Errorf("Channel ID is not set")
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "libertad.db"
	}

	return &Config{
		DatabasePath:          dbPath,
		DiscordBotToken:       botToken,
		DiscordChannelId:      channelID,
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
	}, nil
}
