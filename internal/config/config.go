package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Alias1177/fxscalper/internal/api/oanda"
	"github.com/Alias1177/fxscalper/internal/indicators"
	"github.com/Alias1177/fxscalper/internal/strategy"
	"github.com/Alias1177/fxscalper/internal/trading/risk"
	"github.com/Alias1177/fxscalper/internal/utils"
)

var defaultSymbols = []string{
	"EUR_USD", "GBP_USD", "USD_JPY", "AUD_USD", "USD_CAD",
	"USD_CHF", "NZD_USD", "EUR_GBP", "EUR_JPY", "GBP_JPY",
}

// Config holds all application configuration
type Config struct {
	OANDA          OANDAConfig       `yaml:"oanda"`
	Symbols        []string          `yaml:"symbols"`
	Granularity    string            `yaml:"granularity"`
	CandleCount    int               `yaml:"candle_count"`
	PollInterval   time.Duration     `yaml:"poll_interval"`
	Strategy       StrategyConfig    `yaml:"strategy"`
	Sizing         risk.SizingConfig `yaml:"sizing"`
	Units          int64             `yaml:"units"`
	RequestTimeout int               `yaml:"request_timeout"` // seconds
	RequestsPerSec int               `yaml:"requests_per_sec"`
	LogLevel       string            `yaml:"log_level"`
	MetricsAddr    string            `yaml:"metrics_addr"`
	Telegram       TelegramConfig    `yaml:"telegram"`
	DryRun         bool              `yaml:"dry_run"`
}

type OANDAConfig struct {
	AccessKey string `yaml:"access_key"`
	AccountID string `yaml:"account_id"`
	Env       string `yaml:"env"` // practice or live
	BaseURL   string `yaml:"base_url"`
}

// StrategyConfig selects the signal variant and its parameters. Periods of
// zero use the variant default.
type StrategyConfig struct {
	Name         string  `yaml:"name"`
	Lookback     int     `yaml:"lookback"`
	ZThreshold   float64 `yaml:"z_threshold"`
	ATRPeriod    int     `yaml:"atr_period"`
	RSIPeriod    int     `yaml:"rsi_period"`
	BBPeriod     int     `yaml:"bb_period"`
	BBStdDev     float64 `yaml:"bb_std_dev"`
	Backcandles  int     `yaml:"backcandles"`
	RSIBuyBelow  float64 `yaml:"rsi_buy_below"`
	RSISellAbove float64 `yaml:"rsi_sell_above"`
	VWAPAnchor   string  `yaml:"vwap_anchor"`
	VWAPStraddle string  `yaml:"vwap_straddle"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		OANDA:        OANDAConfig{Env: "practice"},
		Symbols:      append([]string(nil), defaultSymbols...),
		Granularity:  "M1",
		CandleCount:  500,
		PollInterval: time.Minute,
		Strategy: StrategyConfig{
			Name:         strategy.MeanReversionName,
			Lookback:     15,
			ZThreshold:   2.0,
			ATRPeriod:    14,
			BBPeriod:     14,
			BBStdDev:     2.0,
			Backcandles:  15,
			RSIBuyBelow:  45,
			RSISellAbove: 55,
			VWAPAnchor:   string(indicators.AnchorNone),
			VWAPStraddle: string(strategy.StraddleChop),
		},
		Sizing:         risk.DefaultSizingConfig(),
		Units:          1000,
		RequestTimeout: 30,
		RequestsPerSec: 10,
		LogLevel:       "info",
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (or CONFIG_FILE), then environment variables. A .env file is loaded first
// when present.
func Load(path string) (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	for i, sym := range cfg.Symbols {
		cfg.Symbols[i] = utils.NormalizeSymbol(sym)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("Loaded config file")
	return nil
}

func (c *Config) applyEnv() {
	c.OANDA.AccessKey = getEnvWithDefault("OANDA_ACCESS_KEY", c.OANDA.AccessKey)
	c.OANDA.AccountID = getEnvWithDefault("OANDA_ACCOUNT_ID", c.OANDA.AccountID)
	c.OANDA.Env = getEnvWithDefault("OANDA_ENV", c.OANDA.Env)
	c.OANDA.BaseURL = getEnvWithDefault("OANDA_BASE_URL", c.OANDA.BaseURL)

	c.Symbols = getEnvListWithDefault("SYMBOLS", c.Symbols)
	c.Granularity = getEnvWithDefault("GRANULARITY", c.Granularity)
	c.CandleCount = getEnvIntWithDefault("CANDLE_COUNT", c.CandleCount)
	c.PollInterval = getEnvDurationWithDefault("POLL_INTERVAL", c.PollInterval)

	s := &c.Strategy
	s.Name = getEnvWithDefault("STRATEGY", s.Name)
	s.Lookback = getEnvIntWithDefault("LOOKBACK", s.Lookback)
	s.ZThreshold = getEnvFloatWithDefault("Z_THRESHOLD", s.ZThreshold)
	s.ATRPeriod = getEnvIntWithDefault("ATR_PERIOD", s.ATRPeriod)
	s.RSIPeriod = getEnvIntWithDefault("RSI_PERIOD", s.RSIPeriod)
	s.BBPeriod = getEnvIntWithDefault("BB_PERIOD", s.BBPeriod)
	s.BBStdDev = getEnvFloatWithDefault("BB_STD_DEV", s.BBStdDev)
	s.Backcandles = getEnvIntWithDefault("BACKCANDLES", s.Backcandles)
	s.RSIBuyBelow = getEnvFloatWithDefault("RSI_BUY_BELOW", s.RSIBuyBelow)
	s.RSISellAbove = getEnvFloatWithDefault("RSI_SELL_ABOVE", s.RSISellAbove)
	s.VWAPAnchor = getEnvWithDefault("VWAP_ANCHOR", s.VWAPAnchor)
	s.VWAPStraddle = getEnvWithDefault("VWAP_STRADDLE", s.VWAPStraddle)

	z := &c.Sizing
	z.Mode = risk.SizingMode(getEnvWithDefault("SIZING_MODE", string(z.Mode)))
	z.SLMultiplier = getEnvFloatWithDefault("SL_MULTIPLIER", z.SLMultiplier)
	z.TPMultiplier = getEnvFloatWithDefault("TP_MULTIPLIER", z.TPMultiplier)
	z.SLMinPips = getEnvFloatWithDefault("SL_MIN_PIPS", z.SLMinPips)
	z.SLMaxPips = getEnvFloatWithDefault("SL_MAX_PIPS", z.SLMaxPips)
	z.TPMinPips = getEnvFloatWithDefault("TP_MIN_PIPS", z.TPMinPips)
	z.SLPips = getEnvFloatWithDefault("SL_PIPS", z.SLPips)
	z.TPPips = getEnvFloatWithDefault("TP_PIPS", z.TPPips)

	c.Units = int64(getEnvIntWithDefault("UNITS", int(c.Units)))
	c.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", c.RequestTimeout)
	c.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", c.RequestsPerSec)
	c.LogLevel = getEnvWithDefault("LOG_LEVEL", c.LogLevel)
	c.MetricsAddr = getEnvWithDefault("METRICS_ADDR", c.MetricsAddr)
	c.Telegram.BotToken = getEnvWithDefault("TELEGRAM_BOT_TOKEN", c.Telegram.BotToken)
	c.Telegram.ChatID = int64(getEnvIntWithDefault("TELEGRAM_CHAT_ID", int(c.Telegram.ChatID)))
	c.DryRun = getEnvBoolWithDefault("DRY_RUN", c.DryRun)
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("no symbols configured")
	}
	if c.Granularity == "" {
		return errors.New("granularity is empty")
	}
	if c.CandleCount <= 0 {
		return fmt.Errorf("candle_count (%d) must be positive", c.CandleCount)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval (%s) must be positive", c.PollInterval)
	}
	if c.Units <= 0 {
		return fmt.Errorf("units (%d) must be positive", c.Units)
	}

	s := c.Strategy
	if _, err := strategy.Build(s.Name, strategy.Params{}); err != nil {
		return err
	}
	if s.Lookback < 2 {
		return fmt.Errorf("lookback (%d) must be at least 2", s.Lookback)
	}
	if s.ZThreshold <= 0 {
		return fmt.Errorf("z_threshold (%f) must be positive", s.ZThreshold)
	}
	for name, v := range map[string]int{
		"atr_period":  s.ATRPeriod,
		"rsi_period":  s.RSIPeriod,
		"bb_period":   s.BBPeriod,
		"backcandles": s.Backcandles,
	} {
		if v < 0 {
			return fmt.Errorf("%s (%d) cannot be negative", name, v)
		}
	}
	if s.BBStdDev < 0 {
		return fmt.Errorf("bb_std_dev (%f) cannot be negative", s.BBStdDev)
	}
	if _, err := indicators.ParseAnchor(s.VWAPAnchor); err != nil {
		return err
	}
	if _, err := strategy.ParseStraddle(s.VWAPStraddle); err != nil {
		return err
	}

	if err := c.Sizing.Validate(); err != nil {
		return fmt.Errorf("sizing: %w", err)
	}

	switch c.OANDA.Env {
	case "practice", "live":
	default:
		return fmt.Errorf("unknown oanda env %q", c.OANDA.Env)
	}
	if !c.DryRun && (c.OANDA.AccessKey == "" || c.OANDA.AccountID == "") {
		return errors.New("OANDA_ACCESS_KEY and OANDA_ACCOUNT_ID are required unless DRY_RUN is set")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID is required with TELEGRAM_BOT_TOKEN")
	}
	return nil
}

// StrategyParams converts the strategy section. Call Validate first.
func (c *Config) StrategyParams() strategy.Params {
	s := c.Strategy
	anchor, _ := indicators.ParseAnchor(s.VWAPAnchor)
	straddle, _ := strategy.ParseStraddle(s.VWAPStraddle)
	return strategy.Params{
		Lookback:     s.Lookback,
		Threshold:    s.ZThreshold,
		ATRPeriod:    s.ATRPeriod,
		RSIPeriod:    s.RSIPeriod,
		BBPeriod:     s.BBPeriod,
		BBStdDev:     s.BBStdDev,
		Backcandles:  s.Backcandles,
		RSIBuyBelow:  s.RSIBuyBelow,
		RSISellAbove: s.RSISellAbove,
		Anchor:       anchor,
		Straddle:     straddle,
	}
}

// OANDABaseURL is the explicit base URL or the one selected by env
func (c *Config) OANDABaseURL() string {
	if c.OANDA.BaseURL != "" {
		return strings.TrimRight(c.OANDA.BaseURL, "/")
	}
	if c.OANDA.Env == "live" {
		return oanda.LiveURL
	}
	return oanda.PracticeURL
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid integer")
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid number")
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid duration")
	}
	return defaultValue
}

func getEnvListWithDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
