package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SignalKind selects which signal generator drives the engine.
type SignalKind string

const (
	SignalCrossover SignalKind = "xma-crossover"
	SignalUTBot     SignalKind = "ut-bot"
)

// StrategyConfig enumerates every recognized strategy option. Percent
// thresholds use ATR%-style units (0.5 means 0.5%), FallbackStopLoss
// is a fraction of entry price.
type StrategyConfig struct {
	Signal SignalKind `json:"signal"`

	// Indicator warm-up lengths, shared by both timeframes.
	MALength  int `json:"length_ma"`
	EMALength int `json:"length_ema"`
	ATRLength int `json:"atr_len"`

	// Crossover entry filters.
	MinATRPct float64 `json:"min_atr_pct"`
	MinSepPct float64 `json:"min_sep_pct"`

	// Neutral-regime breakout path.
	NeutralMinATRPct      float64 `json:"neutral_min_atr_pct"`
	NeutralBreakoutWindow int     `json:"neutral_breakout_window"`

	// Higher-timeframe regime neutral band, percent of close.
	RegimeBandPct float64 `json:"regime_band_pct"`

	// Stop-loss ratchet.
	InitialStopATR   float64 `json:"initial_stop_atr"`
	LockInStopATR    float64 `json:"lock_in_stop_atr"`
	LockInTrigger    float64 `json:"lock_in_trigger"`
	BreakEvenTrigger float64 `json:"break_even_trigger"`
	FallbackStopLoss float64 `json:"fallback_stoploss"`
	MaxStopLossPct   float64 `json:"max_stoploss_pct"`

	// Leverage sizing.
	LeverageHardCap        float64 `json:"leverage_hard_cap"`
	LeverageATRFloor       float64 `json:"leverage_atr_floor"`
	LeverageFallbackATRPct float64 `json:"leverage_fallback_atr_pct"`

	// UT Bot inputs, used when Signal is ut-bot.
	UTBot UTBotConfig `json:"ut_bot"`
}

// UTBotConfig holds the UT Bot trailing-line inputs.
type UTBotConfig struct {
	KeyValue  float64 `json:"key_value"`
	ATRPeriod int     `json:"atr_period"`
}

// ExchangeConfig holds the market-data connection settings. Credentials
// come from the environment, never from the config file.
type ExchangeConfig struct {
	Name      string `json:"name"`
	Category  string `json:"category"` // spot, linear, inverse
	Testnet   bool   `json:"testnet"`
	Demo      bool   `json:"demo"`
	APIKey    string `json:"-"`
	APISecret string `json:"-"`
}

// MonitoringConfig holds the metrics endpoint settings.
type MonitoringConfig struct {
	MetricsPort int `json:"metrics_port"`
}

// Config is the root configuration for one bot process.
type Config struct {
	Symbol         string           `json:"symbol"`
	Interval       string           `json:"interval"`        // base timeframe
	HigherInterval string           `json:"higher_interval"` // regime timeframe
	Strategy       StrategyConfig   `json:"strategy"`
	Exchange       ExchangeConfig   `json:"exchange"`
	Monitoring     MonitoringConfig `json:"monitoring"`
}

// DefaultStrategy returns the reference parameter set of the xMA
// crossover strategy.
func DefaultStrategy() StrategyConfig {
	return StrategyConfig{
		Signal:                 SignalCrossover,
		MALength:               10,
		EMALength:              10,
		ATRLength:              14,
		MinATRPct:              0.30,
		MinSepPct:              0.05,
		NeutralMinATRPct:       0.50,
		NeutralBreakoutWindow:  20,
		RegimeBandPct:          0.05,
		InitialStopATR:         2.0,
		LockInStopATR:          1.0,
		LockInTrigger:          2.0,
		BreakEvenTrigger:       3.0,
		FallbackStopLoss:       0.02,
		MaxStopLossPct:         10.0,
		LeverageHardCap:        10.0,
		LeverageATRFloor:       0.4,
		LeverageFallbackATRPct: 0.5,
		UTBot: UTBotConfig{
			KeyValue:  1.0,
			ATRPeriod: 10,
		},
	}
}

// Default returns a full configuration with reference values.
func Default() *Config {
	return &Config{
		Symbol:         "BTCUSDT",
		Interval:       "15m",
		HigherInterval: "1h",
		Strategy:       DefaultStrategy(),
		Exchange: ExchangeConfig{
			Name:     "bybit",
			Category: "linear",
			Demo:     true,
		},
		Monitoring: MonitoringConfig{
			MetricsPort: 8080,
		},
	}
}

// Load reads a JSON config file on top of the defaults, then applies
// environment overrides for credentials.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BYBIT_API_KEY"); v != "" {
		c.Exchange.APIKey = v
	}
	if v := os.Getenv("BYBIT_API_SECRET"); v != "" {
		c.Exchange.APISecret = v
	}
}

// Validate checks every recognized option at load time so the engine
// never has to re-validate parameters per cycle.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Interval == "" || c.HigherInterval == "" {
		return fmt.Errorf("interval and higher_interval are required")
	}
	if c.Interval == c.HigherInterval {
		return fmt.Errorf("higher_interval must differ from interval")
	}
	if err := c.Strategy.Validate(); err != nil {
		return err
	}
	if c.Monitoring.MetricsPort < 0 || c.Monitoring.MetricsPort > 65535 {
		return fmt.Errorf("metrics port must be a valid port number, got %d", c.Monitoring.MetricsPort)
	}
	return nil
}

// Validate checks the strategy parameter ranges.
func (s *StrategyConfig) Validate() error {
	switch s.Signal {
	case SignalCrossover, SignalUTBot:
	case "":
		s.Signal = SignalCrossover
	default:
		return fmt.Errorf("unknown signal kind %q (want %s or %s)",
			s.Signal, SignalCrossover, SignalUTBot)
	}

	if s.MALength < 2 {
		return fmt.Errorf("length_ma must be at least 2, got %d", s.MALength)
	}
	if s.EMALength < 1 {
		return fmt.Errorf("length_ema must be at least 1, got %d", s.EMALength)
	}
	if s.ATRLength < 2 {
		return fmt.Errorf("atr_len must be at least 2, got %d", s.ATRLength)
	}
	if s.MinATRPct < 0 || s.MinSepPct < 0 || s.NeutralMinATRPct < 0 {
		return fmt.Errorf("ATR and separation filters must be non-negative")
	}
	if s.NeutralBreakoutWindow < 2 {
		return fmt.Errorf("neutral_breakout_window must be at least 2, got %d", s.NeutralBreakoutWindow)
	}
	if s.RegimeBandPct < 0 {
		return fmt.Errorf("regime_band_pct must be non-negative, got %.4f", s.RegimeBandPct)
	}
	if s.InitialStopATR <= 0 {
		return fmt.Errorf("initial_stop_atr must be positive, got %.2f", s.InitialStopATR)
	}
	if s.LockInStopATR <= 0 || s.LockInStopATR > s.InitialStopATR {
		return fmt.Errorf("lock_in_stop_atr must be in (0, initial_stop_atr], got %.2f", s.LockInStopATR)
	}
	if s.LockInTrigger <= 0 || s.BreakEvenTrigger <= s.LockInTrigger {
		return fmt.Errorf("triggers must satisfy 0 < lock_in_trigger < break_even_trigger, got %.2f and %.2f",
			s.LockInTrigger, s.BreakEvenTrigger)
	}
	if s.FallbackStopLoss <= 0 || s.FallbackStopLoss >= 1 {
		return fmt.Errorf("fallback_stoploss must be a fraction in (0, 1), got %.4f", s.FallbackStopLoss)
	}
	if s.MaxStopLossPct <= 0 || s.MaxStopLossPct > 100 {
		return fmt.Errorf("max_stoploss_pct must be in (0, 100], got %.2f", s.MaxStopLossPct)
	}
	if s.LeverageHardCap < 1 {
		return fmt.Errorf("leverage_hard_cap must be at least 1, got %.2f", s.LeverageHardCap)
	}
	if s.LeverageATRFloor <= 0 {
		return fmt.Errorf("leverage_atr_floor must be positive, got %.4f", s.LeverageATRFloor)
	}
	if s.LeverageFallbackATRPct <= 0 {
		return fmt.Errorf("leverage_fallback_atr_pct must be positive, got %.4f", s.LeverageFallbackATRPct)
	}
	if s.Signal == SignalUTBot {
		if s.UTBot.KeyValue <= 0 {
			return fmt.Errorf("ut_bot.key_value must be positive, got %.2f", s.UTBot.KeyValue)
		}
		if s.UTBot.ATRPeriod < 1 {
			return fmt.Errorf("ut_bot.atr_period must be at least 1, got %d", s.UTBot.ATRPeriod)
		}
	}
	return nil
}

// ParseSignalKind parses a string into a SignalKind.
func ParseSignalKind(s string) (SignalKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xma-crossover", "crossover", "xma":
		return SignalCrossover, nil
	case "ut-bot", "utbot", "ut":
		return SignalUTBot, nil
	default:
		return "", fmt.Errorf("unknown signal kind: %s", s)
	}
}
