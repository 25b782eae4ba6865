/*
Package config loads server configuration.

PRECEDENCE (lowest to highest):
  1. Built-in defaults
  2. .env file in the working directory (optional)
  3. Environment variables
  4. Command-line flags

ENVIRONMENT:
  SUPPLY_PORT            HTTP port (8080)
  SUPPLY_DB              SQLite path (polaris.db), ":memory:" allowed
  SUPPLY_INITIAL_CASH    Starting cash balance (50000)
  SUPPLY_SEED            Inventory generation seed (137)
  SUPPLY_COVERAGE        Fraction of supplies stocked (1.0)
  SUPPLY_SEED_ON_START   Reset and seed the store at startup (false)
  SUPPLY_CATALOG_FILE    JSON supply list (built-in list when empty)
  SUPPLY_DISCOUNT_FILE   JSON discount table (built-in table when empty)
  SUPPLY_LOG_LEVEL       logrus level (info)
  SUPPLY_LOG_FORMAT      "json" or "text" (text)
  SUPPLY_REPORT_INTERVAL Scheduled valuation report interval (1h, 0 disables)
  SUPPLY_WRITE_RATE      Write requests per second (50, 0 disables)
  SUPPLY_WRITE_BURST     Write burst size (100)
*/
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port         int     `validate:"gt=0,lte=65535"`
	DBPath       string  `validate:"required"`
	InitialCash  float64 `validate:"gte=0"`
	Seed         int64
	Coverage     float64 `validate:"gte=0,lte=1"`
	SeedOnStart  bool
	CatalogFile  string
	DiscountFile string
	LogLevel     string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat    string `validate:"oneof=json text"`

	ReportInterval time.Duration `validate:"gte=0"`
	WriteRate      float64       `validate:"gte=0"`
	WriteBurst     int           `validate:"gte=0"`
}

func Default() Config {
	return Config{
		Port:        8080,
		DBPath:      "polaris.db",
		InitialCash: 50000.0,
		Seed:        137,
		Coverage:    1.0,
		LogLevel:    "info",
		LogFormat:   "text",

		ReportInterval: time.Hour,
		WriteRate:      50,
		WriteBurst:     100,
	}
}

// Load builds the configuration from .env, the environment and args
// (usually os.Args[1:]).
func Load(args []string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.Float64Var(&cfg.InitialCash, "initial-cash", cfg.InitialCash, "Starting cash balance")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Inventory generation seed")
	fs.Float64Var(&cfg.Coverage, "coverage", cfg.Coverage, "Fraction of supplies to stock")
	fs.BoolVar(&cfg.SeedOnStart, "seed-on-start", cfg.SeedOnStart, "Reset and seed the store at startup")
	fs.StringVar(&cfg.CatalogFile, "catalog", cfg.CatalogFile, "JSON supply list")
	fs.StringVar(&cfg.DiscountFile, "discounts", cfg.DiscountFile, "JSON discount table")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json|text)")
	fs.Float64Var(&cfg.WriteRate, "write-rate", cfg.WriteRate, "Write requests per second (0 disables)")
	fs.IntVar(&cfg.WriteBurst, "write-burst", cfg.WriteBurst, "Write burst size")
	fs.DurationVar(&cfg.ReportInterval, "report-interval", cfg.ReportInterval, "Scheduled valuation report interval (0 disables)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var err error
	parse := func(key string, fn func(string) error) {
		if v, ok := lookup(key); ok && v != "" && err == nil {
			if perr := fn(v); perr != nil {
				err = fmt.Errorf("%s: %w", key, perr)
			}
		}
	}

	parse("SUPPLY_PORT", func(v string) (e error) { c.Port, e = strconv.Atoi(v); return })
	str("SUPPLY_DB", &c.DBPath)
	parse("SUPPLY_INITIAL_CASH", func(v string) (e error) { c.InitialCash, e = strconv.ParseFloat(v, 64); return })
	parse("SUPPLY_SEED", func(v string) (e error) { c.Seed, e = strconv.ParseInt(v, 10, 64); return })
	parse("SUPPLY_COVERAGE", func(v string) (e error) { c.Coverage, e = strconv.ParseFloat(v, 64); return })
	parse("SUPPLY_SEED_ON_START", func(v string) (e error) { c.SeedOnStart, e = strconv.ParseBool(v); return })
	str("SUPPLY_CATALOG_FILE", &c.CatalogFile)
	str("SUPPLY_DISCOUNT_FILE", &c.DiscountFile)
	str("SUPPLY_LOG_LEVEL", &c.LogLevel)
	str("SUPPLY_LOG_FORMAT", &c.LogFormat)
	parse("SUPPLY_WRITE_RATE", func(v string) (e error) { c.WriteRate, e = strconv.ParseFloat(v, 64); return })
	parse("SUPPLY_WRITE_BURST", func(v string) (e error) { c.WriteBurst, e = strconv.Atoi(v); return })
	parse("SUPPLY_REPORT_INTERVAL", func(v string) (e error) { c.ReportInterval, e = time.ParseDuration(v); return })
	return err
}

// NewLogger builds the process logger from the configured level and format.
func (c Config) NewLogger() (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
