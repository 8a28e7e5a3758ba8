package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig
	App       AppConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Lock      LockConfig
	Events    EventsConfig
	Mail      MailConfig
	Reminder  ReminderConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type AppConfig struct {
	BaseURL   string
	ClientURL string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	ExpiryDays int
}

type LockConfig struct {
	Provider   string // mongo, redis or local
	TTLSeconds int
}

type EventsConfig struct {
	Provider    string // mqtt, nats or none
	MQTTBroker  string
	MQTTClient  string
	MQTTUser    string
	MQTTPass    string
	TopicPrefix string
	NATSURL     string
}

type MailConfig struct {
	Provider         string // smtp, mailersend or log
	FromName         string
	FromEmail        string
	SMTP             SMTPConfig
	MailerSendAPIKey string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type ReminderConfig struct {
	Enabled  bool
	Schedule string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
	AuthRPS      float64 // Requests per second for login, register and password reset
	AuthBurst    int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_DRIVER", DriverMongo)
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "dog_grooming")
	viper.SetDefault("JWT_EXPIRY_DAYS", 7)
	viper.SetDefault("LOCK_PROVIDER", "local")
	viper.SetDefault("LOCK_TTL_SECONDS", 10)
	viper.SetDefault("EVENTS_PROVIDER", "none")
	viper.SetDefault("MQTT_CLIENT_ID", "dog-grooming-booking")
	viper.SetDefault("EVENTS_TOPIC_PREFIX", "grooming")
	viper.SetDefault("MAIL_PROVIDER", "log")
	viper.SetDefault("MAIL_FROM_NAME", "Dog Grooming")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("REMINDER_ENABLED", true)
	viper.SetDefault("REMINDER_SCHEDULE", "0 * * * *")
	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 10)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 20)
	viper.SetDefault("RATE_LIMIT_AUTH_RPS", 1)
	viper.SetDefault("RATE_LIMIT_AUTH_BURST", 5)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")
	viper.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,X-Request-ID")
	viper.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	viper.SetDefault("CORS_MAX_AGE", 43200)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_PATH", "/metrics")
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		App: AppConfig{
			BaseURL:   viper.GetString("BASE_URL"),
			ClientURL: strings.TrimRight(viper.GetString("CLIENT_URL"), "/"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DATABASE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("JWT_SECRET"),
			ExpiryDays: viper.GetInt("JWT_EXPIRY_DAYS"),
		},
		Lock: LockConfig{
			Provider:   strings.ToLower(viper.GetString("LOCK_PROVIDER")),
			TTLSeconds: viper.GetInt("LOCK_TTL_SECONDS"),
		},
		Events: EventsConfig{
			Provider:    strings.ToLower(viper.GetString("EVENTS_PROVIDER")),
			MQTTBroker:  viper.GetString("MQTT_BROKER"),
			MQTTClient:  viper.GetString("MQTT_CLIENT_ID"),
			MQTTUser:    viper.GetString("MQTT_USERNAME"),
			MQTTPass:    viper.GetString("MQTT_PASSWORD"),
			TopicPrefix: viper.GetString("EVENTS_TOPIC_PREFIX"),
			NATSURL:     viper.GetString("NATS_URL"),
		},
		Mail: MailConfig{
			Provider:  strings.ToLower(viper.GetString("MAIL_PROVIDER")),
			FromName:  viper.GetString("MAIL_FROM_NAME"),
			FromEmail: viper.GetString("MAIL_FROM_EMAIL"),
			SMTP: SMTPConfig{
				Host:     viper.GetString("SMTP_HOST"),
				Port:     viper.GetInt("SMTP_PORT"),
				User:     viper.GetString("SMTP_USER"),
				Password: viper.GetString("SMTP_PASSWORD"),
			},
			MailerSendAPIKey: viper.GetString("MAILERSEND_API_KEY"),
		},
		Reminder: ReminderConfig{
			Enabled:  viper.GetBool("REMINDER_ENABLED"),
			Schedule: viper.GetString("REMINDER_SCHEDULE"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
			AuthRPS:      viper.GetFloat64("RATE_LIMIT_AUTH_RPS"),
			AuthBurst:    viper.GetInt("RATE_LIMIT_AUTH_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods:   splitList(viper.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders:   splitList(viper.GetString("CORS_ALLOWED_HEADERS")),
			ExposedHeaders:   splitList(viper.GetString("CORS_EXPOSED_HEADERS")),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
		},
	}

	return config, nil
}

// Validate reports configuration that would stop the server from working.
func (c *Config) Validate() error {
	var problems []string

	if c.JWT.Secret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.JWT.ExpiryDays <= 0 {
		problems = append(problems, "JWT_EXPIRY_DAYS must be positive")
	}

	switch c.Database.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			problems = append(problems, "MONGO_URI and MONGO_DATABASE are required for the mongo driver")
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "DB_HOST and DB_NAME are required for the postgres driver")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unsupported DB_DRIVER %q", c.Database.Driver))
	}

	if c.Lock.Provider == "redis" && c.Redis.Addr == "" {
		problems = append(problems, "REDIS_ADDR is required for the redis lock provider")
	}
	if c.Lock.Provider == DriverMongo && c.Database.Driver != DriverMongo {
		problems = append(problems, "the mongo lock provider requires DB_DRIVER=mongo")
	}

	switch c.Events.Provider {
	case "mqtt":
		if c.Events.MQTTBroker == "" {
			problems = append(problems, "MQTT_BROKER is required for the mqtt events provider")
		}
	case "nats":
		if c.Events.NATSURL == "" {
			problems = append(problems, "NATS_URL is required for the nats events provider")
		}
	}

	switch c.Mail.Provider {
	case "smtp":
		if c.Mail.SMTP.Host == "" {
			problems = append(problems, "SMTP_HOST is required for the smtp mail provider")
		}
	case "mailersend":
		if c.Mail.MailerSendAPIKey == "" {
			problems = append(problems, "MAILERSEND_API_KEY is required for the mailersend mail provider")
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryDays) * 24 * time.Hour
}

func (c *LockConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
