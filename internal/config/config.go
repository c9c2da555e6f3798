package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Shortener ShortenerConfig
	LogSink   LogSinkConfig
	Kafka     KafkaConfig
	OTel      OTelConfig
}

type AppConfig struct {
	Name     string
	Version  string
	Env      string
	LogLevel string
}

type ServerConfig struct {
	Port string
	Host string
}

type MongoDBConfig struct {
	URI      string
	Database string
}

type ShortenerConfig struct {
	BaseURL         string
	SlugLength      int
	RedirectStatus  int // 301 or 302
	DefaultValidity time.Duration
	MaxValidity     time.Duration
}

// LogSinkConfig describes the remote endpoint that receives structured
// operation events. An empty URL disables remote delivery.
type LogSinkConfig struct {
	URL         string
	AccessToken string
	Stack       string
	Timeout     time.Duration
	MaxInFlight int
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	ClickTopic    string
	ConsumerGroup string

	// Consumer tuning, used by cmd/click_consumer only.
	FetchMaxWait     time.Duration
	OperationTimeout time.Duration
	RetryBackoff     time.Duration
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	port := GetEnv("APP_PORT", "8080")

	cfg := &Config{
		App: AppConfig{
			Name:     GetEnv("APP_NAME", "shortlinks"),
			Version:  GetEnv("APP_VERSION", "0.1.0"),
			Env:      GetEnv("APP_ENV", "development"),
			LogLevel: GetEnv("LOG_LEVEL", ""),
		},
		Server: ServerConfig{
			Port: port,
			Host: GetEnv("APP_HOST", "localhost"),
		},
		MongoDB: MongoDBConfig{
			URI:      GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: GetEnv("MONGODB_DATABASE", "shortlinks"),
		},
		Shortener: ShortenerConfig{
			BaseURL:         strings.TrimRight(GetEnv("SHORTENER_BASE_URL", "http://localhost:"+port), "/"),
			SlugLength:      GetEnvInt("SLUG_LENGTH", 6),
			RedirectStatus:  GetEnvInt("REDIRECT_STATUS", 302),
			DefaultValidity: GetEnvMinutes("DEFAULT_VALIDITY_MINUTES", 30*time.Minute),
			MaxValidity:     GetEnvMinutes("MAX_VALIDITY_MINUTES", 0),
		},
		LogSink: LogSinkConfig{
			URL:         GetEnv("LOG_URL", ""),
			AccessToken: GetEnv("LOG_ACCESS_TOKEN", ""),
			Stack:       GetEnv("LOG_STACK", "backend"),
			Timeout:     GetEnvDuration("LOG_TIMEOUT", 2*time.Second),
			MaxInFlight: GetEnvInt("LOG_MAX_IN_FLIGHT", 64),
		},
		Kafka: KafkaConfig{
			Enabled:       GetEnvBool("KAFKA_ENABLED", false),
			Brokers:       SplitCSV(GetEnv("KAFKA_BROKERS", "localhost:9092")),
			ClickTopic:    GetEnv("KAFKA_CLICK_TOPIC", "clicks.recorded"),
			ConsumerGroup: GetEnv("KAFKA_CONSUMER_GROUP", "shortlinks-click-rollup"),

			FetchMaxWait:     GetEnvDuration("KAFKA_CONSUMER_MAX_WAIT", 500*time.Millisecond),
			OperationTimeout: GetEnvDuration("KAFKA_CONSUMER_OPERATION_TIMEOUT", 5*time.Second),
			RetryBackoff:     GetEnvDuration("KAFKA_CONSUMER_BACKOFF", 500*time.Millisecond),
		},
		OTel: OTelConfig{
			Enabled:  GetEnvBool("OTEL_ENABLED", false),
			Endpoint: GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Shortener.RedirectStatus != 301 && c.Shortener.RedirectStatus != 302 {
		return fmt.Errorf("REDIRECT_STATUS must be 301 or 302 (got %d)", c.Shortener.RedirectStatus)
	}
	if c.Shortener.SlugLength < 4 || c.Shortener.SlugLength > 32 {
		return fmt.Errorf("SLUG_LENGTH must be between 4 and 32 (got %d)", c.Shortener.SlugLength)
	}
	if c.Shortener.DefaultValidity <= 0 {
		return fmt.Errorf("DEFAULT_VALIDITY_MINUTES must be > 0")
	}
	// MAX_VALIDITY_MINUTES=0 disables the upper bound.
	if c.Shortener.MaxValidity < 0 || (c.Shortener.MaxValidity > 0 && c.Shortener.MaxValidity < c.Shortener.DefaultValidity) {
		return fmt.Errorf("MAX_VALIDITY_MINUTES must be 0 or >= DEFAULT_VALIDITY_MINUTES")
	}
	if c.LogSink.Timeout <= 0 {
		return fmt.Errorf("LOG_TIMEOUT must be > 0")
	}
	if c.LogSink.MaxInFlight <= 0 {
		return fmt.Errorf("LOG_MAX_IN_FLIGHT must be > 0")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
		}
		if strings.TrimSpace(c.Kafka.ClickTopic) == "" {
			return fmt.Errorf("KAFKA_CLICK_TOPIC must not be empty")
		}
		if strings.TrimSpace(c.Kafka.ConsumerGroup) == "" {
			return fmt.Errorf("KAFKA_CONSUMER_GROUP must not be empty")
		}
		if c.Kafka.OperationTimeout <= 0 {
			return fmt.Errorf("KAFKA_CONSUMER_OPERATION_TIMEOUT must be > 0")
		}
	}
	return nil
}
