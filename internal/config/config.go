package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMongo    = "mongo"

	PublisherNone = "none"
	PublisherNATS = "nats"
	PublisherAMQP = "amqp"
)

type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	Env             string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DBUrl         string `mapstructure:"DB_URL"`
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisKey      string `mapstructure:"REDIS_KEY"`
	MongoURI      string `mapstructure:"MONGODB_URI"`
	MongoDatabase string `mapstructure:"MONGODB_DATABASE"`

	Publisher    string `mapstructure:"PUBLISHER"`
	NatsURL      string `mapstructure:"NATS_URL"`
	NatsSubject  string `mapstructure:"NATS_SUBJECT"`
	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`

	IndexMinChildren int `mapstructure:"INDEX_MIN_CHILDREN"`
	IndexMaxChildren int `mapstructure:"INDEX_MAX_CHILDREN"`
}

var defaults = map[string]any{
	"SERVER_PORT":        "8080",
	"ENV":                "development",
	"LOG_LEVEL":          "info",
	"SHUTDOWN_TIMEOUT":   "5s",
	"STORAGE_DRIVER":     StorageMemory,
	"DB_URL":             "",
	"REDIS_URL":          "",
	"REDIS_KEY":          "driver_locations",
	"MONGODB_URI":        "",
	"MONGODB_DATABASE":   "tracking",
	"PUBLISHER":          PublisherNone,
	"NATS_URL":           "nats://127.0.0.1:4222",
	"NATS_SUBJECT":       "drivers.location",
	"AMQP_URL":           "",
	"AMQP_EXCHANGE":      "driver_topic",
	"INDEX_MIN_CHILDREN": 25,
	"INDEX_MAX_CHILDREN": 50,
}

// Load reads .env from the working directory, if present, and lets the
// environment override it.
func Load() (Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// AutomaticEnv only binds keys viper already knows about.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DBUrl == "" {
			return errors.New("DB_URL is required for the postgres storage driver")
		}
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis storage driver")
		}
	case StorageMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.Publisher {
	case PublisherNone, PublisherNATS:
	case PublisherAMQP:
		if c.AMQPURL == "" {
			return errors.New("AMQP_URL is required for the amqp publisher")
		}
	default:
		return fmt.Errorf("unknown PUBLISHER %q", c.Publisher)
	}

	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
