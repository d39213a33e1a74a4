package config

import (
    "os"
    "strconv"
    "time"

    yaml "gopkg.in/yaml.v3"
)

// FeedConfig sizes the collaborator fan-out path.
type FeedConfig struct {
    QueueSize  int     `yaml:"queue_size"`
    RatePerSec float64 `yaml:"rate_per_sec"`
}

// AnchorConfig configures the ledger gateway worker.
type AnchorConfig struct {
    Enabled     bool   `yaml:"enabled"`
    GatewayURL  string `yaml:"gateway_url"`
    Secret      string `yaml:"secret"`
    MaxAttempts int    `yaml:"max_attempts"`
}

// Config is the host configuration. Values come from an optional YAML file
// with environment variables taking precedence, so containerized deploys
// can stay file-free.
type Config struct {
    Listen       string        `yaml:"listen"`
    DatabaseURL  string        `yaml:"database_url"`
    RedisURL     string        `yaml:"redis_url"`
    TickInterval time.Duration `yaml:"tick_interval"`
    SimStep      time.Duration `yaml:"sim_step"`
    BatteryDrain float64       `yaml:"battery_drain"`
    Feed         FeedConfig    `yaml:"feed"`
    Anchor       AnchorConfig  `yaml:"anchor"`
}

// Default returns the demo-friendly configuration: 3s wall-clock ticks,
// each advancing simulated time by 3s.
func Default() Config {
    return Config{
        Listen:       ":8080",
        TickInterval: 3 * time.Second,
        SimStep:      3 * time.Second,
        BatteryDrain: 0.5,
        Feed:         FeedConfig{QueueSize: 256, RatePerSec: 0},
        Anchor:       AnchorConfig{MaxAttempts: 10},
    }
}

// Load reads path (if non-empty) over the defaults, then applies env
// overrides. A missing file is an error; an empty path is not.
func Load(path string) (Config, error) {
    cfg := Default()
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil { return Config{}, err }
        if err := yaml.Unmarshal(b, &cfg); err != nil { return Config{}, err }
    }
    cfg.applyEnv()
    if cfg.TickInterval <= 0 { cfg.TickInterval = 3 * time.Second }
    if cfg.SimStep <= 0 { cfg.SimStep = cfg.TickInterval }
    if cfg.BatteryDrain <= 0 { cfg.BatteryDrain = 0.5 }
    return cfg, nil
}

func (c *Config) applyEnv() {
    if v := os.Getenv("PORT"); v != "" { c.Listen = ":" + v }
    if v := os.Getenv("DATABASE_URL"); v != "" { c.DatabaseURL = v }
    if v := os.Getenv("REDIS_URL"); v != "" { c.RedisURL = v }
    if v := os.Getenv("TICK_INTERVAL"); v != "" {
        if d, err := time.ParseDuration(v); err == nil { c.TickInterval = d }
    }
    if v := os.Getenv("SIM_STEP"); v != "" {
        if d, err := time.ParseDuration(v); err == nil { c.SimStep = d }
    }
    if v := os.Getenv("BATTERY_DRAIN"); v != "" {
        if f, err := strconv.ParseFloat(v, 64); err == nil { c.BatteryDrain = f }
    }
    if v := os.Getenv("ANCHOR_GATEWAY_URL"); v != "" {
        c.Anchor.GatewayURL = v
        c.Anchor.Enabled = true
    }
    if v := os.Getenv("ANCHOR_SECRET"); v != "" { c.Anchor.Secret = v }
    if v := os.Getenv("ANCHOR_MAX_ATTEMPTS"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 { c.Anchor.MaxAttempts = n }
    }
}
