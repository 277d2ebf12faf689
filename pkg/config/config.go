package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file,
// panicking on failure.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // the .env file is optional

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return nil
}

// Config holds the configuration for the matching engine process.
type Config struct {
	// Market is the hex-encoded address of the market this engine matches.
	Market string `env:"MARKET,required"`

	OrderIngest    KafkaConfig          `envPrefix:"KAFKA_"`
	MatchPublisher MatchPublisherConfig `envPrefix:"MATCH_"`
	Redis          RedisConfig          `envPrefix:"REDIS_"`
	Settlement     SettlementConfig     `envPrefix:"SETTLEMENT_"`
}

// KafkaConfig holds the configuration for the order ingestion consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER,required"`
}

// MatchPublisherConfig holds the configuration for the fill event producer.
type MatchPublisherConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}

// RedisConfig holds the configuration for the snapshot store client.
type RedisConfig struct {
	Addrs    string `env:"ADDRESS,required"` // Comma-separated list of Redis addresses
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}

// SettlementConfig holds the endpoints of the external validation and
// settlement collaborators.
type SettlementConfig struct {
	// CheckURL is the base URL of the order validity checker; orders are
	// POSTed to CheckURL + "/check".
	CheckURL string `env:"CHECK_URL,required"`
	// ExecutionerURL receives matched maker/taker pairs.
	ExecutionerURL string `env:"EXECUTIONER_URL,required"`

	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}
