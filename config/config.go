package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Transfer TransferConfig `yaml:"transfer"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Cart     CartConfig     `yaml:"cart"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	// Migrate applies the embedded schema on start.
	Migrate bool `yaml:"migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers         []string `yaml:"brokers"`
	CartEventsTopic string   `yaml:"cart_events_topic"`
	GroupID         string   `yaml:"group_id"`
}

// TransferConfig holds the booking rules. Zero values mean the defaults below.
type TransferConfig struct {
	Timezone                 string `yaml:"timezone"`
	MinLeadTimeMinutes       int    `yaml:"min_lead_time_minutes"`
	MinReturnGapMinutes      int    `yaml:"min_return_gap_minutes"`
	MaxReturnWindowDays      int    `yaml:"max_return_window_days"`
	SlotIntervalMinutes      int    `yaml:"slot_interval_minutes"`
	DraftTTLMinutes          int    `yaml:"draft_ttl_minutes"`
	DraftLockSeconds         int    `yaml:"draft_lock_seconds"`
	ResumeSnapshotTTLMinutes int    `yaml:"resume_snapshot_ttl_minutes"`
	RoutesCacheTTLSeconds    int    `yaml:"routes_cache_ttl_seconds"`
	RouteFetchAttempts       int    `yaml:"route_fetch_attempts"`
}

type PricingConfig struct {
	QuoteURL            string `yaml:"quote_url"`
	QuoteTimeoutSeconds int    `yaml:"quote_timeout_seconds"`
}

type CartConfig struct {
	HoldTTLMinutes    int `yaml:"hold_ttl_minutes"`
	SubmitLockSeconds int `yaml:"submit_lock_seconds"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		c.HTTP.Address = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Kafka.CartEventsTopic == "" {
		c.Kafka.CartEventsTopic = "transfer-cart-events"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "transfer-notifications"
	}
	t := &c.Transfer
	if t.Timezone == "" {
		t.Timezone = "Local"
	}
	setDefault(&t.MinLeadTimeMinutes, 120)
	setDefault(&t.MinReturnGapMinutes, 120)
	setDefault(&t.MaxReturnWindowDays, 30)
	setDefault(&t.SlotIntervalMinutes, 30)
	setDefault(&t.DraftTTLMinutes, 120)
	setDefault(&t.DraftLockSeconds, 5)
	setDefault(&t.ResumeSnapshotTTLMinutes, 60*24)
	setDefault(&t.RoutesCacheTTLSeconds, 300)
	setDefault(&t.RouteFetchAttempts, 3)
	setDefault(&c.Pricing.QuoteTimeoutSeconds, 5)
	setDefault(&c.Cart.HoldTTLMinutes, 30)
	setDefault(&c.Cart.SubmitLockSeconds, 30)
	setDefault(&c.Worker.ExpirationSweepMinutes, 1)
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// Location resolves the configured timezone used for "today" in booking rules.
func (t TransferConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", t.Timezone, err)
	}
	return loc, nil
}

func Minutes(n int) time.Duration { return time.Duration(n) * time.Minute }

func Seconds(n int) time.Duration { return time.Duration(n) * time.Second }
