package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Storage drivers
// SupportedPlatforms are the platform names a platform list may contain
var SupportedPlatforms = []string{"twitter", "linkedin", "facebook", "instagram", "youtube", "telegram", "whatsapp"}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	App       AppConfig       `yaml:"app"`
	Logging   LoggingConfig   `yaml:"logging"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	Worker    WorkerConfig    `yaml:"worker"`
	Reel      ReelConfig      `yaml:"reel"`
	Enhancer  EnhancerConfig  `yaml:"enhancer"`
	Platforms PlatformsConfig `yaml:"platforms"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// IsProduction reports whether error details must be hidden from clients
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// StorageConfig selects the draft store and its retention
type StorageConfig struct {
	Driver        string        `yaml:"driver"`
	Retention     time.Duration `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RabbitMQConfig holds RabbitMQ connection and exchange/queue configuration
type RabbitMQConfig struct {
	Enabled    bool             `yaml:"enabled"`
	Host       string           `yaml:"host"`
	Port       int              `yaml:"port"`
	User       string           `yaml:"user"`
	Password   string           `yaml:"password"`
	VHost      string           `yaml:"vhost"`
	Exchange   ExchangeConfig   `yaml:"exchange"`
	Queue      QueueConfig      `yaml:"queue"`
	RoutingKey string           `yaml:"routing_key"`
	Connection ConnectionConfig `yaml:"connection"`
	Publish    PublishConfig    `yaml:"publish"`
	Consumer   ConsumerConfig   `yaml:"consumer"`
}

// ExchangeConfig holds RabbitMQ exchange configuration
type ExchangeConfig struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Durable    bool   `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
}

// QueueConfig holds RabbitMQ queue configuration
type QueueConfig struct {
	Name       string `yaml:"name"`
	Durable    bool   `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
	Exclusive  bool   `yaml:"exclusive"`
}

// ConnectionConfig holds RabbitMQ connection settings
type ConnectionConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	Heartbeat         time.Duration `yaml:"heartbeat"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
}

// PublishConfig holds RabbitMQ publish retry settings
type PublishConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
}

// ConsumerConfig holds RabbitMQ consumer settings
type ConsumerConfig struct {
	PrefetchCount int `yaml:"prefetch_count"`
}

// WorkerConfig holds worker service configuration
type WorkerConfig struct {
	Concurrency     int           `yaml:"concurrency"`
	EventTimeout    time.Duration `yaml:"event_timeout"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ReelConfig controls reel rendering and uploads
type ReelConfig struct {
	OutputDir        string   `yaml:"output_dir"`
	UploadDir        string   `yaml:"upload_dir"`
	MaxUploadBytes   int64    `yaml:"max_upload_bytes"`
	PublicBaseURL    string   `yaml:"public_base_url"`
	DefaultStyle     string   `yaml:"default_style"`
	DefaultPlatforms []string `yaml:"default_platforms"`
}

// EnhancerConfig controls the optional text-generation call
type EnhancerConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// PlatformsConfig holds settings shared by platform clients
type PlatformsConfig struct {
	HTTPTimeout           time.Duration     `yaml:"http_timeout"`
	InstagramPublishDelay time.Duration     `yaml:"instagram_publish_delay"`
	WhatsAppEnabled       bool              `yaml:"whatsapp_enabled"`
	PlainPostPlatforms    []string          `yaml:"plain_post_platforms"`
	BaseURLs              map[string]string `yaml:"base_urls"`
}

// RateLimitConfig holds the per-client request budget
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Default returns the values used when a key is missing from the file
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    50 << 20,
		},
		App: AppConfig{
			Name:        "jobreel-api",
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		Storage: StorageConfig{
			Driver:        StorageMemory,
			Retention:     7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "jobreel:",
		},
		Worker: WorkerConfig{
			Concurrency:     4,
			EventTimeout:    30 * time.Second,
			SweepInterval:   time.Hour,
			ShutdownTimeout: 30 * time.Second,
		},
		Reel: ReelConfig{
			OutputDir:        "./generated_reels",
			UploadDir:        "./uploads",
			MaxUploadBytes:   50 << 20,
			DefaultStyle:     "professional",
			DefaultPlatforms: []string{"instagram", "youtube", "facebook", "telegram"},
		},
		Enhancer: EnhancerConfig{
			BaseURL:   "https://api.openai.com/v1",
			Model:     "gpt-4",
			MaxTokens: 500,
			Timeout:   30 * time.Second,
		},
		Platforms: PlatformsConfig{
			InstagramPublishDelay: 10 * time.Second,
			PlainPostPlatforms:    []string{"twitter", "linkedin", "facebook", "whatsapp"},
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 100,
			Window:   15 * time.Minute,
		},
	}
}

// Validate checks the configuration needed by the API service and normalizes its platform lists
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if c.Storage.Retention <= 0 {
		return fmt.Errorf("storage retention must be greater than 0")
	}

	if c.Reel.OutputDir == "" {
		return fmt.Errorf("reel output_dir is required")
	}

	if c.Reel.UploadDir == "" {
		return fmt.Errorf("reel upload_dir is required")
	}

	platforms, err := normalizePlatforms("reel default_platforms", c.Reel.DefaultPlatforms)
	if err != nil {
		return err
	}
	c.Reel.DefaultPlatforms = platforms

	platforms, err = normalizePlatforms("platforms plain_post_platforms", c.Platforms.PlainPostPlatforms)
	if err != nil {
		return err
	}
	c.Platforms.PlainPostPlatforms = platforms

	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate_limit requests and window must be greater than 0")
	}

	if c.RabbitMQ.Enabled {
		return c.validateRabbitMQ()
	}

	return nil
}

// normalizePlatforms lowercases and deduplicates names, keeping first-seen order
func normalizePlatforms(field string, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if !slices.Contains(SupportedPlatforms, n) {
			return nil, fmt.Errorf("%s: unknown platform %q", field, n)
		}
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s must not be empty", field)
	}
	return out, nil
}

// ValidateWorkerConfig checks the configuration needed by the worker service
func (c *Config) ValidateWorkerConfig() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if !c.RabbitMQ.Enabled {
		return fmt.Errorf("rabbitmq must be enabled for the worker service")
	}

	if err := c.validateRabbitMQ(); err != nil {
		return err
	}

	if c.Worker.Concurrency <= 0 {
		return fmt.Errorf("worker concurrency must be greater than 0")
	}

	if c.Worker.EventTimeout <= 0 {
		return fmt.Errorf("worker event_timeout must be greater than 0")
	}

	if c.Worker.SweepInterval <= 0 {
		return fmt.Errorf("worker sweep_interval must be greater than 0")
	}

	if c.Worker.ShutdownTimeout <= 0 {
		return fmt.Errorf("worker shutdown_timeout must be greater than 0")
	}

	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case StorageMemory:
		return nil
	case StoragePostgres:
		return c.validateDatabase()
	case StorageRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
}

func (c *Config) validateDatabase() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < MinPort || c.Database.Port > MaxPort {
		return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	return nil
}

func (c *Config) validateRabbitMQ() error {
	if c.RabbitMQ.Host == "" {
		return fmt.Errorf("rabbitmq host is required")
	}

	if c.RabbitMQ.Port < MinPort || c.RabbitMQ.Port > MaxPort {
		return fmt.Errorf("invalid rabbitmq port: %d (must be between %d and %d)", c.RabbitMQ.Port, MinPort, MaxPort)
	}

	if c.RabbitMQ.Exchange.Name == "" {
		return fmt.Errorf("rabbitmq exchange name is required")
	}

	if c.RabbitMQ.Queue.Name == "" {
		return fmt.Errorf("rabbitmq queue name is required")
	}

	return nil
}
