package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host           string `mapstructure:"host"`
		Port           string `mapstructure:"port"`
		User           string `mapstructure:"user"`
		Password       string `mapstructure:"password"`
		Name           string `mapstructure:"name"`
		SSLMode        string `mapstructure:"sslmode"`
		MigrationsPath string `mapstructure:"migrations_path"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey string        `mapstructure:"secret_key"`
		TTL       time.Duration `mapstructure:"ttl"`
	} `mapstructure:"jwt"`
	Redis struct {
		Host     string        `mapstructure:"host"`
		Port     string        `mapstructure:"port"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		Enabled  bool          `mapstructure:"enabled"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	Ledger    LedgerConfig `mapstructure:"ledger"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"rate_limit"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// LedgerConfig holds the tunables of the ledger engine.
type LedgerConfig struct {
	AccountNumberLength   int    `mapstructure:"account_number_length"`
	MaxAllocationAttempts int    `mapstructure:"max_allocation_attempts"`
	MinimumAmount         string `mapstructure:"minimum_amount"`
	DefaultDailyLimit     string `mapstructure:"default_daily_limit"`
	Timezone              string `mapstructure:"timezone"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "banking")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrations_path", "file://db/migrations")

	v.SetDefault("server.port", "8080")

	v.SetDefault("jwt.secret_key", "change-me")
	v.SetDefault("jwt.ttl", time.Hour)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.cache_ttl", 5*time.Minute)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "ledger_entries")

	v.SetDefault("ledger.account_number_length", 7)
	v.SetDefault("ledger.max_allocation_attempts", 100)
	v.SetDefault("ledger.minimum_amount", "1")
	v.SetDefault("ledger.default_daily_limit", "50000")
	v.SetDefault("ledger.timezone", "Local")

	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("log.level", "info")
}

// LoadConfig reads config.yml from path, overlays environment variables
// (DATABASE_HOST, LEDGER_DEFAULT_DAILY_LIMIT, ...) and stores the result in AppConfig.
// A missing config file is not an error; defaults and the environment still apply.
func LoadConfig(path string) error {
	// .env is optional, it only seeds the process environment.
	_ = godotenv.Load(path + "/.env")

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode into struct: %w", err)
	}
	AppConfig = cfg
	return nil
}

// Location resolves the ledger timezone used for calendar-day and month boundaries.
func (c LedgerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// DatabaseURL returns the URL form used by golang-migrate.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name, c.Database.SSLMode)
}
