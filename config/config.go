package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	defaultRoomCount              = 100
	defaultRetentionDays          = 183
	defaultCustomerIDMaxAttempts  = 10
	defaultTransactionMaxRetry    = 3
	defaultCacheTTLSeconds        = 60
	defaultPostgresMaxRetry       = 3
	defaultPostgresRetryWaitTime  = 2
	defaultPostgresMigrationTable = "schema_migrations"
	defaultServerPort             = "8080"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Hotel struct {
		RoomCount             int `envconfig:"ROOM_COUNT"`
		RetentionDays         int `envconfig:"RETENTION_DAYS"`
		CustomerIDMaxAttempts int `envconfig:"CUSTOMER_ID_MAX_ATTEMPTS"`
		TxMaxRetry            int `envconfig:"TX_MAX_RETRY"`
	} `envconfig:"HOTEL"`

	Sweep struct {
		IntervalMinutes int `envconfig:"INTERVAL_MINUTES"`
	} `envconfig:"SWEEP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			Booking string `envconfig:"BOOKING"`
		} `envconfig:"TOPIC"`
	} `envconfig:"KAFKA"`

	Metrics struct {
		Enable    bool   `envconfig:"ENABLE"`
		Path      string `envconfig:"PATH"`
		Namespace string `envconfig:"NAMESPACE"`
	} `envconfig:"METRICS"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			Region     string `envconfig:"REGION"`
			Endpoint   string `envconfig:"ENDPOINT"`
			AccessKey  string `envconfig:"ACCESS_KEY"`
			SecretKey  string `envconfig:"SECRET_KEY"`
			BucketName string `envconfig:"BUCKET_NAME"`
			PublicURL  string `envconfig:"PUBLIC_URL"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		conf.applyDefaults()

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Warn().Err(err).Msg("Configuration initialized without .env file")
		}
	}

	return &conf
}

// applyDefaults fills the hotel and storage knobs that must never be zero.
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = defaultServerPort
	}

	if c.Hotel.RoomCount <= 0 {
		c.Hotel.RoomCount = defaultRoomCount
	}

	if c.Hotel.RetentionDays <= 0 {
		c.Hotel.RetentionDays = defaultRetentionDays
	}

	if c.Hotel.CustomerIDMaxAttempts <= 0 {
		c.Hotel.CustomerIDMaxAttempts = defaultCustomerIDMaxAttempts
	}

	if c.Hotel.TxMaxRetry <= 0 {
		c.Hotel.TxMaxRetry = defaultTransactionMaxRetry
	}

	if c.Cache.TTL <= 0 {
		c.Cache.TTL = defaultCacheTTLSeconds
	}

	if c.DB.Postgres.MaxRetry <= 0 {
		c.DB.Postgres.MaxRetry = defaultPostgresMaxRetry
	}

	if c.DB.Postgres.RetryWaitTime <= 0 {
		c.DB.Postgres.RetryWaitTime = defaultPostgresRetryWaitTime
	}

	if c.DB.Postgres.MigrationTable == "" {
		c.DB.Postgres.MigrationTable = defaultPostgresMigrationTable
	}

	if c.Kafka.Topics.Booking == "" {
		c.Kafka.Topics.Booking = "hms.booking.events"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "hms"
	}
}
