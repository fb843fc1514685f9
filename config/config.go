package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OzoneBaseURL   string `json:"ozone_base_url"`
	NeoBaseURL     string `json:"neo_base_url"`
	ChainRPCURL    string `json:"chain_rpc_url"`
	FallbackRPCURL string `json:"fallback_rpc_url"`

	AuthSecretHex string `json:"auth_secret_hex"`
	UserAgent     string `json:"user_agent"`
	WebOrigin     string `json:"web_origin"`

	AccountsFile string `json:"accounts_file"`
	ProxyFile    string `json:"proxy_file"`
	TopicsDir    string `json:"topics_dir"`
	StateFile    string `json:"state_file"`

	DailyChatCap       int     `json:"daily_chat_cap"`
	ChatDelaySec       int     `json:"chat_delay_sec"`
	ThrottleStreak     int     `json:"throttle_streak"`
	StakeMin           float64 `json:"stake_min"`
	UnstakeAfterHours  int     `json:"unstake_after_hours"`
	CycleIntervalHours int     `json:"cycle_interval_hours"`

	ReceiptPollRetries  int `json:"receipt_poll_retries"`
	ReceiptPollDelaySec int `json:"receipt_poll_delay_sec"`
	RequestTimeoutSec   int `json:"request_timeout_sec"`

	Timezone string `json:"timezone"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		OzoneBaseURL:   "https://ozone-point-system.prod.gokite.ai",
		NeoBaseURL:     "https://neo.prod.gokite.ai",
		ChainRPCURL:    "https://rpc-testnet.gokite.ai/",
		FallbackRPCURL: "https://nodes.pancakeswap.info/",

		AuthSecretHex: "6a1c35292b7c5b769ff47d89a17e7bc4f0adfe1b462981d28e0e9f7ff20b8f8a",
		UserAgent:     "Mozilla/5.0 (X11; Linux x86_64) KITE-AI/3.0",
		WebOrigin:     "https://testnet.gokite.ai",

		AccountsFile: "accounts.txt",
		ProxyFile:    "proxy.txt",
		TopicsDir:    ".",
		StateFile:    "staking_state.json",

		DailyChatCap:       9,
		ChatDelaySec:       2,
		ThrottleStreak:     5,
		StakeMin:           1.0,
		UnstakeAfterHours:  24,
		CycleIntervalHours: 24,

		ReceiptPollRetries:  5,
		ReceiptPollDelaySec: 8,
		RequestTimeoutSec:   60,

		Timezone: "Asia/Jakarta",
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("OZONE_BASE_URL"); val != "" {
		c.OzoneBaseURL = val
	}
	if val := os.Getenv("NEO_BASE_URL"); val != "" {
		c.NeoBaseURL = val
	}
	if val := os.Getenv("CHAIN_RPC_URL"); val != "" {
		c.ChainRPCURL = val
	}
	if val := os.Getenv("FALLBACK_RPC_URL"); val != "" {
		c.FallbackRPCURL = val
	}

	if val := os.Getenv("KITE_AUTH_SECRET"); val != "" {
		c.AuthSecretHex = val
	}
	if val := os.Getenv("KITEFARM_USER_AGENT"); val != "" {
		c.UserAgent = val
	}
	if val := os.Getenv("KITEFARM_WEB_ORIGIN"); val != "" {
		c.WebOrigin = val
	}

	if val := os.Getenv("KITEFARM_ACCOUNTS_FILE"); val != "" {
		c.AccountsFile = val
	}
	if val := os.Getenv("KITEFARM_PROXY_FILE"); val != "" {
		c.ProxyFile = val
	}
	if val := os.Getenv("KITEFARM_TOPICS_DIR"); val != "" {
		c.TopicsDir = val
	}
	if val := os.Getenv("KITEFARM_STATE_FILE"); val != "" {
		c.StateFile = val
	}

	if val := os.Getenv("KITEFARM_DAILY_CHAT_CAP"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.DailyChatCap = v
		}
	}
	if val := os.Getenv("KITEFARM_CHAT_DELAY_SEC"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.ChatDelaySec = v
		}
	}
	if val := os.Getenv("KITEFARM_THROTTLE_STREAK"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.ThrottleStreak = v
		}
	}
	if val := os.Getenv("KITEFARM_STAKE_MIN"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.StakeMin = v
		}
	}
	if val := os.Getenv("KITEFARM_UNSTAKE_AFTER_HOURS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.UnstakeAfterHours = v
		}
	}
	if val := os.Getenv("KITEFARM_CYCLE_INTERVAL_HOURS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.CycleIntervalHours = v
		}
	}

	if val := os.Getenv("KITEFARM_RECEIPT_POLL_RETRIES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.ReceiptPollRetries = v
		}
	}
	if val := os.Getenv("KITEFARM_RECEIPT_POLL_DELAY_SEC"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.ReceiptPollDelaySec = v
		}
	}
	if val := os.Getenv("KITEFARM_REQUEST_TIMEOUT_SEC"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RequestTimeoutSec = v
		}
	}

	if val := os.Getenv("KITEFARM_TIMEZONE"); val != "" {
		c.Timezone = val
	}
}

// Validate checks the values a run cannot start without.
func (c *Config) Validate() error {
	key, err := hex.DecodeString(c.AuthSecretHex)
	if err != nil {
		return fmt.Errorf("auth secret is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("auth secret must be 32 bytes, got %d", len(key))
	}
	if c.OzoneBaseURL == "" || c.NeoBaseURL == "" || c.ChainRPCURL == "" {
		return fmt.Errorf("service base URLs must not be empty")
	}
	if c.AccountsFile == "" {
		return fmt.Errorf("accounts file path must not be empty")
	}
	if c.DailyChatCap < 1 {
		return fmt.Errorf("daily chat cap must be at least 1, got %d", c.DailyChatCap)
	}
	if c.ThrottleStreak < 1 {
		return fmt.Errorf("throttle streak must be at least 1, got %d", c.ThrottleStreak)
	}
	if c.StakeMin <= 0 {
		return fmt.Errorf("stake minimum must be positive, got %v", c.StakeMin)
	}
	if c.UnstakeAfterHours < 1 {
		return fmt.Errorf("unstake hold must be at least 1 hour, got %d", c.UnstakeAfterHours)
	}
	if c.CycleIntervalHours < 1 {
		return fmt.Errorf("cycle interval must be at least 1 hour, got %d", c.CycleIntervalHours)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured time zone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// ChatDelay returns the pause inserted between chat attempts.
func (c *Config) ChatDelay() time.Duration {
	return time.Duration(c.ChatDelaySec) * time.Second
}

// UnstakeHold returns how long a position must be held before unstaking.
func (c *Config) UnstakeHold() time.Duration {
	return time.Duration(c.UnstakeAfterHours) * time.Hour
}

// CycleInterval returns the wait between full account passes.
func (c *Config) CycleInterval() time.Duration {
	return time.Duration(c.CycleIntervalHours) * time.Hour
}

// ReceiptPollDelay returns the pause between settlement lookups.
func (c *Config) ReceiptPollDelay() time.Duration {
	return time.Duration(c.ReceiptPollDelaySec) * time.Second
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.TopicsDir, filepath.Dir(c.StateFile)}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" || path == "." {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
