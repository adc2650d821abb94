package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Pair is an asset monitored against a benchmark.
type Pair struct {
	Asset string `yaml:"asset"`
	Bench string `yaml:"bench"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		Benchmark string `yaml:"benchmark"`
		Period    string `yaml:"period"`
	} `yaml:"data_source"`
	Monitor struct {
		Pairs      []Pair   `yaml:"pairs"`
		Sectors    []string `yaml:"sectors"`
		Window     int      `yaml:"window"`
		YellowBand float64  `yaml:"yellow_band"`
		MinRows    int      `yaml:"min_rows"`
		Credit     struct {
			High   string  `yaml:"high"`
			Low    string  `yaml:"low"`
			Warn   float64 `yaml:"warn"`
			Danger float64 `yaml:"danger"`
		} `yaml:"credit"`
	} `yaml:"monitor"`
	Cache struct {
		TTL           time.Duration `yaml:"ttl"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
	} `yaml:"cache"`
	Schedule struct {
		DailyCron    string `yaml:"daily_cron"`
		RotationCron string `yaml:"rotation_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env (if present) and the YAML file, then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := newDefault()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// newDefault seeds numeric settings before the YAML is decoded so that an explicit
// zero in the file survives and reaches Validate.
func newDefault() *Config {
	cfg := &Config{}
	cfg.Monitor.Window = 50
	cfg.Monitor.YellowBand = 0.0002
	cfg.Monitor.MinRows = 80
	cfg.Monitor.Credit.Warn = 5.0
	cfg.Monitor.Credit.Danger = 7.0
	cfg.Cache.TTL = 30 * time.Minute
	return cfg
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("BENCHMARK"); v != "" {
		c.DataSource.Benchmark = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("YELLOW_BAND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse YELLOW_BAND: %w", err)
		}
		c.Monitor.YellowBand = f
	}
	if v := os.Getenv("RS_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse RS_WINDOW: %w", err)
		}
		c.Monitor.Window = n
	}
	if v := os.Getenv("SECTORS"); v != "" {
		c.Monitor.Sectors = splitSymbols(v)
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse CACHE_TTL: %w", err)
		}
		c.Cache.TTL = d
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		c.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		c.API.Addr = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Benchmark == "" {
		c.DataSource.Benchmark = "SPY"
	}
	if c.DataSource.Period == "" {
		c.DataSource.Period = "2y"
	}
	if len(c.Monitor.Pairs) == 0 {
		c.Monitor.Pairs = []Pair{{Asset: "FCX", Bench: c.DataSource.Benchmark}}
	}
	for i := range c.Monitor.Pairs {
		if c.Monitor.Pairs[i].Bench == "" {
			c.Monitor.Pairs[i].Bench = c.DataSource.Benchmark
		}
	}
	if len(c.Monitor.Sectors) == 0 {
		c.Monitor.Sectors = []string{"XLE", "XLB", "XLI"}
	}
	if c.Monitor.Credit.High == "" {
		c.Monitor.Credit.High = "HYG"
	}
	if c.Monitor.Credit.Low == "" {
		c.Monitor.Credit.Low = "LQD"
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
	if c.Schedule.RotationCron == "" {
		c.Schedule.RotationCron = "0 0 8 * * 1"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/rs_sentinel.db"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Monitor.Window <= 0 {
		return fmt.Errorf("monitor.window must be positive")
	}
	if c.Monitor.YellowBand < 0 {
		return fmt.Errorf("monitor.yellow_band must not be negative")
	}
	if c.Monitor.MinRows < c.Monitor.Window {
		return fmt.Errorf("monitor.min_rows (%d) must be at least monitor.window (%d)", c.Monitor.MinRows, c.Monitor.Window)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Monitor.Credit.Warn > c.Monitor.Credit.Danger {
		return fmt.Errorf("monitor.credit.warn must not exceed monitor.credit.danger")
	}
	for _, p := range c.Monitor.Pairs {
		if p.Asset == "" {
			return fmt.Errorf("monitor.pairs: asset is required")
		}
		if p.Asset == p.Bench {
			return fmt.Errorf("monitor.pairs: %s cannot be its own benchmark", p.Asset)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
