package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Port            int  `toml:"port"`
	UsernameIsEmail bool `toml:"username_is_email"`
}

// APIConfig points the shell at the Outpost backend
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout_seconds"`
}

type IMAPConfig struct {
	Server string `toml:"server"`
	Port   int    `toml:"port"`
}

type JWTConfig struct {
	Secret     string `toml:"secret"` // For JWT signing
	TTLMinutes int    `toml:"ttl_minutes"`
}

type SessionsConfig struct {
	Folder string `toml:"folder"`
}

type AvatarConfig struct {
	MaxWidth     int `toml:"max_width"`
	CacheMinutes int `toml:"cache_minutes"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	API      APIConfig      `toml:"api"`
	IMAP     IMAPConfig     `toml:"imap"`
	JWT      JWTConfig      `toml:"jwt"`
	Sessions SessionsConfig `toml:"sessions"`
	Avatar   AvatarConfig   `toml:"avatar"`
	Log      LogConfig      `toml:"log"`
}

func LoadConfig(filepath string) (*Config, error) {
	var config Config

	// Set default values
	config.Server.Port = 3000
	config.Server.UsernameIsEmail = true
	config.API.BaseURL = "http://localhost:8025"
	config.API.Timeout = 15
	config.IMAP.Port = 993
	config.JWT.TTLMinutes = 60
	config.Sessions.Folder = "./sessions"
	config.Avatar.MaxWidth = 96
	config.Avatar.CacheMinutes = 60
	config.Log.Level = "info"

	// Load config file
	_, err := toml.DecodeFile(filepath, &config)
	if err != nil {
		return nil, err
	}

	// OUTPOST_API_URL overrides the configured backend, matching the
	// environment-driven setup used in development.
	if env := os.Getenv("OUTPOST_API_URL"); env != "" {
		config.API.BaseURL = env
	}
	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	return &config, nil
}

// APITimeout returns the configured backend request timeout
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.Timeout) * time.Second
}

// JWTTTL returns the configured token lifetime
func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWT.TTLMinutes) * time.Minute
}

// AvatarCacheTTL returns how long optimized avatars stay cached
func (c *Config) AvatarCacheTTL() time.Duration {
	return time.Duration(c.Avatar.CacheMinutes) * time.Minute
}
