package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// StoreDriver selects the ticket store backing: "gorm" (default) or
	// "memory" (nothing survives a restart).
	StoreDriver string

	// DBDriver selects the GORM dialect: "postgres" (default) or "sqlite".
	DBDriver string
	// SQLitePath is the database file used when DBDriver is "sqlite".
	SQLitePath string

	JWTSecret string

	KafkaBrokers     []string
	KafkaTopicTicket string

	SMTP struct {
		Host     string
		Port     string
		From     string
		Password string
	}

	Twilio struct {
		AccountSID string
		AuthToken  string
		FromNumber string
		// ToNumber is the on-call triage phone that receives the SMS alerts.
		ToNumber string
	}

	WhatsApp struct {
		// GatewayURL — if set, notifications are POSTed to this gateway.
		GatewayURL string
		ToNumber   string
	}

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:          getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:         firstEnv("APP_PORT", "HTTP_PORT", "8090"),
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StoreDriver:      getEnv("STORE_DRIVER", "gorm"),
		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		SQLitePath:       getEnv("SQLITE_PATH", "helpdesk.db"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		KafkaBrokers:     ParseBrokers(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicTicket: getEnv("KAFKA_TOPIC_TICKET", ""),
	}
	cfg.WhatsApp.GatewayURL = getEnv("WHATSAPP_GATEWAY_URL", "")
	cfg.WhatsApp.ToNumber = getEnv("WHATSAPP_TO_NUMBER", "")
	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	cfg.SMTP.Port = getEnv("SMTP_PORT", "587")
	cfg.SMTP.From = getEnv("SMTP_FROM", "")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")
	cfg.Twilio.AccountSID = getEnv("TWILIO_ACCOUNT_SID", "")
	cfg.Twilio.AuthToken = getEnv("TWILIO_AUTH_TOKEN", "")
	cfg.Twilio.FromNumber = getEnv("TWILIO_FROM_NUMBER", "")
	cfg.Twilio.ToNumber = getEnv("TWILIO_TO_NUMBER", "")
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "helpdesk")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "gorm", "memory":
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == "gorm" {
		switch c.DBDriver {
		case "postgres":
			if c.DB.Host == "" || c.DB.Database == "" {
				return errors.New("config: DB_HOST and DB_DATABASE are required")
			}
		case "sqlite":
			if c.SQLitePath == "" {
				return errors.New("config: SQLITE_PATH is required for the sqlite driver")
			}
		default:
			return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
		}
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.AppEnv == "production" && c.DBDriver == "postgres" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

// ParseBrokers splits "host1:9092,host2:9092" into a slice.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
