package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"perf-manage/internal/model"
)

// Config keeps runtime settings for the bot and the CLI.
type Config struct {
	TelegramToken  string
	DatabaseURL    string
	DigestTime     string
	DigestInterval time.Duration
	SessionTTL     time.Duration
	AdminIDs       []int64
	HeadIDs        []int64
	Debug          bool
}

// Load reads configuration from a .env file, if present, and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[warn] read .env: %v", err)
	}

	cfg := Config{
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DigestTime:     strings.TrimSpace(os.Getenv("DIGEST_TIME")),
		DigestInterval: parseHours(strings.TrimSpace(os.Getenv("DIGEST_INTERVAL_HOURS"))),
		SessionTTL:     12 * time.Hour,
		AdminIDs:       parseIDs(os.Getenv("ADMIN_IDS")),
		HeadIDs:        parseIDs(os.Getenv("HEAD_IDS")),
		Debug:          os.Getenv("BOT_DEBUG") == "true",
	}

	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl < 0 {
			return cfg, fmt.Errorf("invalid SESSION_TTL %q", raw)
		}
		cfg.SessionTTL = ttl
	}

	if cfg.DigestTime == "" && cfg.DigestInterval == 0 {
		cfg.DigestTime = "09:00"
	}

	return cfg, nil
}

// ValidateBot checks the settings the Telegram bot cannot start without.
func (c Config) ValidateBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	return nil
}

// Allows reports whether the Telegram user may log in as role. An empty
// allowlist leaves the role open to everyone.
func (c Config) Allows(telegramID int64, role model.Role) bool {
	var ids []int64
	switch role {
	case model.RoleAdmin:
		ids = c.AdminIDs
	case model.RoleHead:
		ids = c.HeadIDs
	default:
		return true
	}
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if id == telegramID {
			return true
		}
	}
	return false
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
