package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod test"`
	Http    HttpConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Upload  UploadConfig  `yaml:"upload"`
	Cache   CacheConfig   `yaml:"cache"`
	Decoder DecoderConfig `yaml:"decoder"`
	Clients ClientsConfig `yaml:"clients"`
}

type HttpConfig struct {
	Addr         string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8000" validate:"required"`
	BodyLimitMB  int           `yaml:"body_limit_mb" env:"HTTP_BODY_LIMIT_MB" env-default:"32" validate:"gt=0"`
	AllowOrigins []string      `yaml:"allow_origins" env:"HTTP_ALLOW_ORIGINS" env-default:"*" env-separator:","`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text" validate:"oneof=text json"`
}

type UploadConfig struct {
	// RatePerSecond <= 0 disables upload rate limiting.
	RatePerSecond float64 `yaml:"rate_per_second" env:"UPLOAD_RATE_PER_SECOND" env-default:"2"`
	Burst         int     `yaml:"burst" env:"UPLOAD_BURST" env-default:"5" validate:"gte=0"`
	PreloadFile   string  `yaml:"preload_file" env:"UPLOAD_PRELOAD_FILE"`
}

type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"10m"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"CACHE_CLEANUP_INTERVAL" env-default:"5m"`
}

type DecoderConfig struct {
	FillMergedCells bool `yaml:"fill_merged_cells" env:"DECODER_FILL_MERGED_CELLS" env-default:"false"`
}

type ClientsConfig struct {
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

type RabbitMQConfig struct {
	// Url empty disables summary events.
	Url         string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange    string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"space-summary"`
	RoutingKey  string        `yaml:"routing_key" env:"RABBITMQ_ROUTING_KEY" env-default:"summary.updated"`
	// DialTimeout bounds each connection attempt; failed attempts back off up to MaxBackoff.
	DialTimeout time.Duration `yaml:"dial_timeout" env:"RABBITMQ_DIAL_TIMEOUT" env-default:"2s"`
	MaxBackoff  time.Duration `yaml:"max_backoff" env:"RABBITMQ_MAX_BACKOFF" env-default:"1m"`
	QueueSize   int           `yaml:"queue_size" env:"RABBITMQ_QUEUE_SIZE" env-default:"64" validate:"gte=0"`
}

// Load reads .env (if any), then CONFIG_PATH (if set) or the environment, and validates
// the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (this *Config) BodyLimit() int {
	return this.Http.BodyLimitMB * 1024 * 1024
}
