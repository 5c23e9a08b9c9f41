package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/storefront/internal/platform/envutil"
)

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	s := strings.TrimSpace(node.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if node.ShortTag() == "!!int" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		d.Duration = time.Duration(n)
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		API: APIConfig{
			BaseURL:    "http://localhost:8000/api",
			Timeout:    Duration{Duration: 10 * time.Second},
			MaxRetries: 2,
			UserID:     1,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    defaultStorePath(),
		},
		HTTP: HTTPConfig{
			Addr:              "127.0.0.1:8090",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			ShutdownTimeout:   Duration{Duration: 10 * time.Second},
			AllowOrigins: []string{
				"http://localhost:8000",
				"http://127.0.0.1:8000",
			},
		},
		Notify: NotifyConfig{
			Sinks:        []string{"log"},
			RedisChannel: "storefront.notifications",
			AMQPQueue:    "storefront_notifications",
		},
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "storefront.db"
	}
	return filepath.Join(dir, "storefront", "storefront.db")
}

// Load resolves configuration: defaults, then the file named by STOREFRONT_CONFIG
// (or ./config/storefront.yaml when present), then environment overrides.
func Load() (*Config, error) {
	return LoadFile(strings.TrimSpace(os.Getenv("STOREFRONT_CONFIG")))
}

func LoadFile(cfgPath string) (*Config, error) {
	cfg := defaultConfig()

	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "storefront.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		// Decoding over the defaults keeps anything the file leaves out.
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.API.BaseURL = envutil.String("STOREFRONT_API_URL", cfg.API.BaseURL)
	cfg.API.APIKey = envutil.String("STOREFRONT_API_KEY", cfg.API.APIKey)
	cfg.API.Timeout.Duration = envutil.Duration("STOREFRONT_API_TIMEOUT", cfg.API.Timeout.Duration)
	cfg.API.MaxRetries = envutil.Int("STOREFRONT_API_MAX_RETRIES", cfg.API.MaxRetries)
	cfg.API.UserID = int64(envutil.Int("STOREFRONT_USER_ID", int(cfg.API.UserID)))

	cfg.Store.Driver = envutil.String("STOREFRONT_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = envutil.String("STOREFRONT_STORE_DSN", cfg.Store.DSN)
	cfg.Store.RedisAddr = envutil.String("REDIS_ADDR", cfg.Store.RedisAddr)
	cfg.Store.Namespace = envutil.String("STOREFRONT_STORE_NAMESPACE", cfg.Store.Namespace)

	cfg.HTTP.Addr = envutil.String("STOREFRONT_HTTP_ADDR", cfg.HTTP.Addr)
	if origins := envutil.List("STOREFRONT_ALLOW_ORIGINS"); len(origins) > 0 {
		cfg.HTTP.AllowOrigins = origins
	}

	if sinks := envutil.List("STOREFRONT_NOTIFY_SINKS"); len(sinks) > 0 {
		cfg.Notify.Sinks = sinks
	}
	cfg.Notify.RedisAddr = envutil.String("REDIS_ADDR", cfg.Notify.RedisAddr)
	cfg.Notify.RedisChannel = envutil.String("REDIS_CHANNEL", cfg.Notify.RedisChannel)
	cfg.Notify.AMQPURL = envutil.String("AMQP_URL", cfg.Notify.AMQPURL)
	cfg.Notify.AMQPQueue = envutil.String("AMQP_QUEUE", cfg.Notify.AMQPQueue)
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not an absolute URL", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Duration <= 0 {
		cfg.API.Timeout = Duration{Duration: 10 * time.Second}
	}
	if cfg.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}
	if cfg.API.UserID <= 0 {
		cfg.API.UserID = 1
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	switch cfg.Store.Driver {
	case "", "sqlite":
		cfg.Store.Driver = "sqlite"
		if strings.TrimSpace(cfg.Store.DSN) == "" {
			cfg.Store.DSN = defaultStorePath()
		}
	case "postgres":
		if strings.TrimSpace(cfg.Store.DSN) == "" {
			return errors.New("store.dsn is required for the postgres driver")
		}
	case "redis":
		if strings.TrimSpace(cfg.Store.RedisAddr) == "" {
			return errors.New("store.redis_addr is required for the redis driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store.driver %q", cfg.Store.Driver)
	}
	if strings.TrimSpace(cfg.Store.Namespace) == "" {
		cfg.Store.Namespace = u.Host
	}

	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = "127.0.0.1:8090"
	}
	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{Duration: 10 * time.Second}
	}

	sinks := make([]string, 0, len(cfg.Notify.Sinks))
	for _, s := range cfg.Notify.Sinks {
		s = strings.ToLower(strings.TrimSpace(s))
		switch s {
		case "":
			continue
		case "log":
		case "redis":
			if cfg.Notify.RedisAddr == "" {
				cfg.Notify.RedisAddr = cfg.Store.RedisAddr
			}
			if cfg.Notify.RedisAddr == "" {
				return errors.New("notify sink redis needs notify.redis_addr")
			}
		case "amqp":
			if strings.TrimSpace(cfg.Notify.AMQPURL) == "" {
				return errors.New("notify sink amqp needs notify.amqp_url")
			}
		default:
			return fmt.Errorf("unknown notify sink %q", s)
		}
		sinks = append(sinks, s)
	}
	if len(sinks) == 0 {
		sinks = []string{"log"}
	}
	cfg.Notify.Sinks = sinks
	return nil
}
