package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings postboard reads at startup.
type Config struct {
	APIBind           string
	LogFile           string
	LogLevel          string
	NotificationsPoll time.Duration
	Listen            string
}

const (
	defaultConfigPath = "~/.config/postboard/config.toml"
	defaultLogFile    = "~/.local/share/postboard/postboard.log"
	defaultLogLevel   = "info"
	defaultAPIBind    = "127.0.0.1:7480"
	defaultListen     = "127.0.0.1:7480"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:  defaultAPIBind,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: defaultLogLevel,
		Listen:   defaultListen,
	}
}

// Load locates and parses the postboard config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind           string `toml:"api_bind"`
		LogFile           string `toml:"log_file"`
		LogLevel          string `toml:"log_level"`
		NotificationsPoll int    `toml:"notifications_poll"`
		Listen            string `toml:"listen"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Listen); v != "" {
		cfg.Listen = v
	}
	if raw.NotificationsPoll < 0 {
		return Config{}, fmt.Errorf("notifications_poll must not be negative, got %d", raw.NotificationsPoll)
	}
	cfg.NotificationsPoll = time.Duration(raw.NotificationsPoll) * time.Second

	return cfg, nil
}

// PollingEnabled reports whether the background notifications poller should run.
func (c Config) PollingEnabled() bool {
	return c.NotificationsPoll > 0
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
