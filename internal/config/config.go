package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port           string
	CORSOrigins    []string
	AdminKeyHash   string
	WriteRateLimit int

	// Database
	DBPath    string
	ListLimit int

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP change feed; empty URL disables it.
	AMQPURL      string
	AMQPExchange string

	// Encrypted snapshots to S3-compatible storage; empty bucket disables it.
	BackupS3Endpoint    string
	BackupS3Bucket      string
	BackupS3Region      string
	BackupS3AccessKey   string
	BackupS3SecretKey   string
	BackupPassphrase    string
	BackupIntervalHours int
	BackupRetentionDays int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("SOCIETY_PORT", "8080"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		AdminKeyHash:   getEnv("SOCIETY_ADMIN_KEY_HASH", ""),
		WriteRateLimit: getEnvInt("SOCIETY_WRITE_RATE_LIMIT", 120),

		DBPath:    getEnv("SOCIETY_DB_PATH", "society.db"),
		ListLimit: getEnvInt("SOCIETY_LIST_LIMIT", 1000),

		LogLevel:  getEnv("SOCIETY_LOG_LEVEL", "info"),
		LogFormat: getEnv("SOCIETY_LOG_FORMAT", "text"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "society.events"),

		BackupS3Endpoint:    getEnv("BACKUP_S3_ENDPOINT", ""),
		BackupS3Bucket:      getEnv("BACKUP_S3_BUCKET", ""),
		BackupS3Region:      getEnv("BACKUP_S3_REGION", "us-east-1"),
		BackupS3AccessKey:   getEnv("BACKUP_S3_ACCESS_KEY", ""),
		BackupS3SecretKey:   getEnv("BACKUP_S3_SECRET_KEY", ""),
		BackupPassphrase:    getEnv("BACKUP_PASSPHRASE", ""),
		BackupIntervalHours: getEnvInt("BACKUP_INTERVAL_HOURS", 24),
		BackupRetentionDays: getEnvInt("BACKUP_RETENTION_DAYS", 30),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}
	if c.ListLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid list limit %d: must be at least 1", c.ListLimit))
	}
	if c.WriteRateLimit < 0 {
		errors = append(errors, fmt.Sprintf("invalid write rate limit %d: must not be negative", c.WriteRateLimit))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.AdminKeyHash != "" && !strings.HasPrefix(c.AdminKeyHash, "$2") {
		errors = append(errors, "admin key hash must be a bcrypt hash")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BackupS3Bucket != "" {
		if c.BackupS3AccessKey == "" || c.BackupS3SecretKey == "" {
			errors = append(errors, "backup S3 access key and secret key are required when a bucket is set")
		}
		if c.BackupPassphrase == "" {
			errors = append(errors, "backup passphrase is required when a bucket is set")
		}
		if c.BackupIntervalHours < 0 {
			errors = append(errors, fmt.Sprintf("invalid backup interval %d: must not be negative", c.BackupIntervalHours))
		}
		if c.BackupRetentionDays < 0 {
			errors = append(errors, fmt.Sprintf("invalid backup retention %d: must not be negative", c.BackupRetentionDays))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
