package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/services/engine"
)

// InstrumentConfig describes one tradable instrument: its strategy roster
// class, consensus quorum, pip geometry, and risk parameters.
type InstrumentConfig struct {
	Symbol           string                 `yaml:"symbol" validate:"required"`
	Class            models.InstrumentClass `yaml:"class" default:"major" validate:"oneof=major cross metal energy"`
	Quorum           int                    `yaml:"quorum" default:"2" validate:"gt=0"`
	PipSize          float64                `yaml:"pip_size" default:"0.0001" validate:"gt=0"`
	CommissionPerLot float64                `yaml:"commission_per_lot" default:"0" validate:"gte=0"`
	Size             engine.SizeConfig      `yaml:"size"`
	Bounds           engine.LevelBounds     `yaml:"bounds"`
}

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Logging     struct {
		Level      string `yaml:"level" default:"info"`
		Format     string `yaml:"format" default:"json"`
		Output     string `yaml:"output" default:"stdout"`
		TimeFormat string `yaml:"time_format"`
	} `yaml:"logging"`
	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Engine struct {
		CycleInterval    time.Duration          `yaml:"cycle_interval" default:"60s"`
		Timeframe        string                 `yaml:"timeframe" default:"M5"`
		ConfirmTimeframe string                 `yaml:"confirm_timeframe" default:"H1"`
		Regime           engine.RegimeConfig    `yaml:"regime"`
		Score            engine.ScoreConfig     `yaml:"score"`
		Admission        engine.AdmissionConfig `yaml:"admission"`
	} `yaml:"engine"`
	Instruments []InstrumentConfig `yaml:"instruments" validate:"min=1,dive"`
	Feed        struct {
		WebSocketURL   string        `yaml:"websocket_url"`
		APIKey         string        `yaml:"api_key"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
	} `yaml:"feed"`
	Account struct {
		Backend        string  `yaml:"backend" default:"static" validate:"oneof=static"`
		InitialBalance float64 `yaml:"initial_balance" default:"10000" validate:"gt=0"`
	} `yaml:"account"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"trade-intents"`
		RequiredAcks int      `yaml:"required_acks" default:"1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"100ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"tradecore"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
	Cache struct {
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		TTL     time.Duration `yaml:"ttl" default:"5m"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db" default:"0"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file. Defaults are applied
// before parsing, structural validation and cross-field rules after.
// Configuration errors are fatal; nothing is silently defaulted away.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Values absent from the file keep their defaults; values present
	// override them. A second pass fills nested structs the file
	// introduced with partial content.
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FEED_API_KEY"); v != "" {
		c.Feed.APIKey = v
	}
	if v := os.Getenv("FEED_WEBSOCKET_URL"); v != "" {
		c.Feed.WebSocketURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	return c, nil
}

// Validate checks the cross-field rules the struct tags cannot express.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Instruments))
	for _, inst := range c.Instruments {
		if seen[inst.Symbol] {
			return fmt.Errorf("instrument %s listed twice", inst.Symbol)
		}
		seen[inst.Symbol] = true

		rosterSize := len(engine.Roster(inst.Class))
		if inst.Quorum > rosterSize {
			return fmt.Errorf("instrument %s: quorum %d exceeds roster size %d", inst.Symbol, inst.Quorum, rosterSize)
		}
		if inst.Size.RiskFraction <= 0 || inst.Size.RiskFraction > 1 {
			return fmt.Errorf("instrument %s: risk_fraction must be in (0,1], got %v", inst.Symbol, inst.Size.RiskFraction)
		}
		if inst.Size.LotMin > inst.Size.LotMax {
			return fmt.Errorf("instrument %s: lot_min %v exceeds lot_max %v", inst.Symbol, inst.Size.LotMin, inst.Size.LotMax)
		}
		if inst.Bounds.SLMinPips > inst.Bounds.SLMaxPips {
			return fmt.Errorf("instrument %s: sl_min_pips %v exceeds sl_max_pips %v", inst.Symbol, inst.Bounds.SLMinPips, inst.Bounds.SLMaxPips)
		}
		if inst.Bounds.TPMinPips > inst.Bounds.TPMaxPips {
			return fmt.Errorf("instrument %s: tp_min_pips %v exceeds tp_max_pips %v", inst.Symbol, inst.Bounds.TPMinPips, inst.Bounds.TPMaxPips)
		}
	}

	for i, w := range c.Engine.Admission.Sessions {
		if w.From < 0 || w.From > 23 || w.To < 0 || w.To > 24 {
			return fmt.Errorf("session window %d: hours out of range", i)
		}
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka enabled but no brokers configured")
	}
	if c.Engine.CycleInterval <= 0 {
		return fmt.Errorf("engine.cycle_interval must be positive")
	}
	return nil
}

// Instrument returns the configuration for one symbol, or nil.
func (c *Config) Instrument(symbol string) *InstrumentConfig {
	for i := range c.Instruments {
		if c.Instruments[i].Symbol == symbol {
			return &c.Instruments[i]
		}
	}
	return nil
}

// Symbols lists the configured instruments in file order. Admission runs in
// this order, which keeps cycle output deterministic.
func (c *Config) Symbols() []string {
	out := make([]string, 0, len(c.Instruments))
	for _, inst := range c.Instruments {
		out = append(out, inst.Symbol)
	}
	return out
}
