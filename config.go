package fundpush

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings of a run.
type Config struct {
	LogLevel     string         `toml:"log_level"`
	Ledger       string         `toml:"ledger"`        // path to the holdings file
	TargetReturn float64        `toml:"target_return"` // annualized return, in percent, a holding must reach to be listed in the performance summary
	Push         PushConfig     `toml:"push"`
	Archive      ArchiveConfig  `toml:"archive"`
	Bark         BarkConfig     `toml:"bark"`
	Gotify       GotifyConfig   `toml:"gotify"`
	WeCom        WeComConfig    `toml:"wecom"`
	Delivery     DeliveryConfig `toml:"delivery"`
}

// PushConfig enables the delivery of reports through notification channels.
type PushConfig struct {
	Enabled bool `toml:"enabled"`
}

// ArchiveConfig enables writing reports to disk.
type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	ByFund  bool   `toml:"by_fund"`
	ByUser  bool   `toml:"by_user"`
}

// BarkConfig configures the Bark channel.
type BarkConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Token   string `toml:"token"` // device key
}

// GotifyConfig configures the Gotify channel.
type GotifyConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Token    string `toml:"token"` // application token
	Priority int    `toml:"priority"`
}

// WeComConfig configures the WeCom (enterprise WeChat) channel.
type WeComConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"` // API base, usually a proxy
	CorpID  string `toml:"corp_id"`
	AgentID string `toml:"agent_id"`
	Secret  string `toml:"secret"`
}

// DeliveryConfig holds the limits applied to network calls and messages.
type DeliveryConfig struct {
	MaxMessageBytes int    `toml:"max_message_bytes"`
	MaxRetries      int    `toml:"max_retries"` // extra attempts after the first one
	RetryDelay      string `toml:"retry_delay"`
	Timeout         string `toml:"timeout"` // per network call
	Pacing          string `toml:"pacing"`  // minimum delay between two pushes
}

// GetRetryDelay parses and returns the delay between two attempts.
func (c *DeliveryConfig) GetRetryDelay() time.Duration { return duration(c.RetryDelay, 5*time.Second) }

// GetTimeout parses and returns the per call timeout.
func (c *DeliveryConfig) GetTimeout() time.Duration { return duration(c.Timeout, 10*time.Second) }

// GetPacing parses and returns the delay between two pushes.
func (c *DeliveryConfig) GetPacing() time.Duration { return duration(c.Pacing, 500*time.Millisecond) }

func duration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// DefaultConfig returns a Config with the default limits and nothing enabled.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		Ledger:       "funds.txt",
		TargetReturn: 5.0,
		Archive: ArchiveConfig{
			Dir:    "report",
			ByFund: true,
			ByUser: true,
		},
		Bark:   BarkConfig{URL: "https://api.day.app"},
		Gotify: GotifyConfig{Priority: 5},
		Delivery: DeliveryConfig{
			MaxMessageBytes: 2048,
			MaxRetries:      3,
			RetryDelay:      "5s",
			Timeout:         "10s",
			Pacing:          "500ms",
		},
	}
}

// LoadConfig reads the TOML file at path over the defaults, then applies the environment
// overrides. A missing file is not an error. Variables from a ".env" file in the working
// directory are loaded first, without overriding the ones already set.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(config)
	return config, nil
}

// Encode writes c as TOML.
func (c *Config) Encode() ([]byte, error) { return toml.Marshal(c) }

// applyEnvOverrides applies FUNDPUSH_* environment variables to config.
func applyEnvOverrides(config *Config) {
	strs := map[string]*string{
		"FUNDPUSH_LOG_LEVEL":     &config.LogLevel,
		"FUNDPUSH_LEDGER":        &config.Ledger,
		"FUNDPUSH_BARK_URL":      &config.Bark.URL,
		"FUNDPUSH_BARK_TOKEN":    &config.Bark.Token,
		"FUNDPUSH_GOTIFY_URL":    &config.Gotify.URL,
		"FUNDPUSH_GOTIFY_TOKEN":  &config.Gotify.Token,
		"FUNDPUSH_WECOM_URL":     &config.WeCom.URL,
		"FUNDPUSH_WECOM_CORPID":  &config.WeCom.CorpID,
		"FUNDPUSH_WECOM_AGENTID": &config.WeCom.AgentID,
		"FUNDPUSH_WECOM_SECRET":  &config.WeCom.Secret,
	}
	for key, field := range strs {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
	if v := os.Getenv("FUNDPUSH_TARGET_RETURN"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.TargetReturn = f
		}
	}
}

// Channels returns the names of the enabled notification channels.
func (c *Config) Channels() []string {
	var names []string
	if c.Bark.Enabled {
		names = append(names, "bark")
	}
	if c.Gotify.Enabled {
		names = append(names, "gotify")
	}
	if c.WeCom.Enabled {
		names = append(names, "wecom")
	}
	return names
}

// Validate checks that the configuration describes a run that can be executed.
func (c *Config) Validate() error {
	var errs []error
	if !c.Push.Enabled && !c.Archive.Enabled {
		errs = append(errs, errors.New("nothing to do: enable push or archive"))
	}
	if c.Push.Enabled {
		if len(c.Channels()) == 0 {
			errs = append(errs, errors.New("push is enabled but no channel is: enable at least one of bark, gotify or wecom"))
		}
		if c.Bark.Enabled && (c.Bark.URL == "" || c.Bark.Token == "") {
			errs = append(errs, errors.New("bark: url and token are required"))
		}
		if c.Gotify.Enabled && (c.Gotify.URL == "" || c.Gotify.Token == "") {
			errs = append(errs, errors.New("gotify: url and token are required"))
		}
		if c.WeCom.Enabled && (c.WeCom.URL == "" || c.WeCom.CorpID == "" || c.WeCom.AgentID == "" || c.WeCom.Secret == "") {
			errs = append(errs, errors.New("wecom: url, corp_id, agent_id and secret are required"))
		}
	}
	if c.Archive.Enabled {
		if !c.Archive.ByFund && !c.Archive.ByUser {
			errs = append(errs, errors.New("archive is enabled but neither by_fund nor by_user is"))
		}
		if c.Archive.Dir == "" {
			errs = append(errs, errors.New("archive: dir is required"))
		}
	}
	if c.Delivery.MaxMessageBytes <= 0 {
		errs = append(errs, fmt.Errorf("delivery: max_message_bytes must be positive, got %d", c.Delivery.MaxMessageBytes))
	}
	if c.Delivery.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("delivery: max_retries must not be negative, got %d", c.Delivery.MaxRetries))
	}
	for key, s := range map[string]string{"retry_delay": c.Delivery.RetryDelay, "timeout": c.Delivery.Timeout, "pacing": c.Delivery.Pacing} {
		if _, err := time.ParseDuration(s); err != nil {
			errs = append(errs, fmt.Errorf("delivery: invalid %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
