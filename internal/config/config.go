package config

import "time"

type Duration struct {
	Duration time.Duration
}

type APIConfig struct {
	// BaseURL is the storefront API root, e.g. "http://localhost:8000/api".
	BaseURL string `yaml:"base_url" json:"base_url"`

	// APIKey is optional; when set it is sent as a bearer token.
	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty"`

	Timeout Duration `yaml:"timeout" json:"timeout"`

	// MaxRetries applies to idempotent reads only. Order and registration POSTs are sent once.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// UserID is the fixed owner id orders are placed for until the API grows real sessions.
	UserID int64 `yaml:"user_id" json:"user_id"`
}

type StoreConfig struct {
	// Driver is one of "sqlite", "postgres", "redis", "memory".
	Driver string `yaml:"driver" json:"driver"`

	// DSN is the sqlite file path or the postgres connection string.
	DSN string `yaml:"dsn,omitempty" json:"dsn,omitempty"`

	RedisAddr string `yaml:"redis_addr,omitempty" json:"redis_addr,omitempty"`

	// Namespace scopes keys the way a browser origin scopes localStorage.
	// Defaults to the API host.
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr" json:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout" json:"read_header_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	AllowOrigins      []string `yaml:"allow_origins,omitempty" json:"allow_origins,omitempty"`
}

type NotifyConfig struct {
	// Sinks lists where notifications go: "log", "redis", "amqp".
	Sinks        []string `yaml:"sinks" json:"sinks"`
	RedisAddr    string   `yaml:"redis_addr,omitempty" json:"redis_addr,omitempty"`
	RedisChannel string   `yaml:"redis_channel,omitempty" json:"redis_channel,omitempty"`
	AMQPURL      string   `yaml:"amqp_url,omitempty" json:"amqp_url,omitempty"`
	AMQPQueue    string   `yaml:"amqp_queue,omitempty" json:"amqp_queue,omitempty"`
}

type Config struct {
	Env    string       `yaml:"env" json:"env"`
	API    APIConfig    `yaml:"api" json:"api"`
	Store  StoreConfig  `yaml:"store" json:"store"`
	HTTP   HTTPConfig   `yaml:"http" json:"http"`
	Notify NotifyConfig `yaml:"notify" json:"notify"`
}
