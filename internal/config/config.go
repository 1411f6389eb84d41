package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Defaults for tunables. Each can be overridden by env or config file.
const (
	DefaultMaxRecentMessages = 50
	DefaultMaxSearchResults  = 10
	DefaultMaxStoredTextLen  = 4000
	DefaultHTTPPort          = 8080
	DefaultMessagesPerMinute = 10
)

// Config holds runtime configuration. Secrets (DB passphrase, OCR API key)
// come from the environment or the config dir at runtime; never committed.
type Config struct {
	// ConfigDir is where config.json and the database live
	// (project-local .stashbot if present, else ~/.config/stashbot).
	ConfigDir string `json:"-"`
	// DBPath is the path to stashbot.db.
	DBPath string `json:"-"`
	// DBPassphrase, when set, opens the database through SQLCipher
	// (encryption at rest). Empty means a plain SQLite file.
	DBPassphrase string `json:"-"`

	// MaxRecentMessages caps the `recent` command regardless of the
	// caller-supplied count.
	MaxRecentMessages int `json:"max_recent_messages"`
	// MaxSearchResults caps `search` output.
	MaxSearchResults int `json:"max_search_results"`
	// MaxStoredTextLen is the truncation threshold for inbound text.
	MaxStoredTextLen int `json:"max_stored_text_len"`

	// MessagesPerMinute is the per-user ingestion rate limit.
	MessagesPerMinute int `json:"messages_per_minute"`

	// OCRServiceURL and OCRAPIKey configure the external OCR endpoint used
	// for image messages. Empty URL disables image ingestion.
	OCRServiceURL string `json:"ocr_service_url"`
	OCRAPIKey     string `json:"-"`

	// HTTPPort is the keep-alive/health server port.
	HTTPPort int `json:"http_port"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
}

// DefaultConfigDir returns the default config directory (project-local
// .stashbot if present, else ~/.config/stashbot).
func DefaultConfigDir() string {
	cwd, _ := os.Getwd()
	local := filepath.Join(cwd, ".stashbot")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stashbot")
}

// New builds config from env and the optional config.json in configDir.
// configDir can be empty to use STASHBOT_CONFIG_DIR or the default.
// Priority: defaults < env < config file.
func New(configDir string) *Config {
	if configDir == "" {
		if d := os.Getenv("STASHBOT_CONFIG_DIR"); d != "" {
			configDir = d
		} else {
			configDir = DefaultConfigDir()
		}
	}
	cfg := &Config{
		ConfigDir:         configDir,
		DBPath:            filepath.Join(configDir, "stashbot.db"),
		DBPassphrase:      os.Getenv("STASHBOT_DB_PASSPHRASE"),
		MaxRecentMessages: envInt("STASHBOT_MAX_RECENT_MESSAGES", DefaultMaxRecentMessages),
		MaxSearchResults:  envInt("STASHBOT_MAX_SEARCH_RESULTS", DefaultMaxSearchResults),
		MaxStoredTextLen:  envInt("STASHBOT_MAX_STORED_TEXT_LEN", DefaultMaxStoredTextLen),
		MessagesPerMinute: envInt("STASHBOT_MESSAGES_PER_MINUTE", DefaultMessagesPerMinute),
		OCRServiceURL:     os.Getenv("STASHBOT_OCR_URL"),
		OCRAPIKey:         os.Getenv("STASHBOT_OCR_API_KEY"),
		HTTPPort:          envInt("STASHBOT_HTTP_PORT", DefaultHTTPPort),
		LogLevel:          os.Getenv("STASHBOT_LOG_LEVEL"),
	}
	if p := os.Getenv("STASHBOT_DB_PATH"); p != "" {
		cfg.DBPath = p
	}

	// Config file overlay: keys present in JSON overwrite env/defaults,
	// missing keys leave the struct untouched.
	configPath := filepath.Join(configDir, "config.json")
	if data, err := os.ReadFile(configPath); err == nil {
		_ = json.Unmarshal(data, cfg)
	}
	cfg.clamp()
	return cfg
}

// clamp keeps tunables in sane ranges so a broken config file cannot
// disable the guards.
func (c *Config) clamp() {
	if c.MaxRecentMessages < 1 {
		c.MaxRecentMessages = DefaultMaxRecentMessages
	}
	if c.MaxSearchResults < 1 {
		c.MaxSearchResults = DefaultMaxSearchResults
	}
	if c.MaxStoredTextLen < 1 {
		c.MaxStoredTextLen = DefaultMaxStoredTextLen
	}
	if c.MessagesPerMinute < 1 {
		c.MessagesPerMinute = DefaultMessagesPerMinute
	}
	if c.HTTPPort <= 0 {
		c.HTTPPort = DefaultHTTPPort
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
