package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// MongoDB
	MongoURI      string
	MongoDatabase string

	// Memory backend seed data
	DataDirectory string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets ledger mirror
	GoogleSpreadsheetID     string
	GoogleSheetName         string
	GoogleServiceAccountKey string

	// Worker
	BackupReminderInterval time.Duration

	// Display defaults
	DefaultCurrency string
	DefaultLocale   string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/rentalflow.db"),

		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "rentalflow"),

		DataDirectory: getEnv("DATA_DIRECTORY", "data"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "rentalflow"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_payments"),

		GoogleSpreadsheetID:     getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:         getEnv("GOOGLE_SHEET_NAME", "Ledger"),
		GoogleServiceAccountKey: getEnv("GOOGLE_SERVICE_ACCOUNT_KEY_FILE", ""),

		BackupReminderInterval: getEnvDuration("BACKUP_REMINDER_INTERVAL", 24*time.Hour),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "MGA"),
		DefaultLocale:   getEnv("DEFAULT_LOCALE", "en"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite", "mongo"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate MongoDB configuration if backend is mongo
	if c.DataBackend == "mongo" {
		if c.MongoURI == "" {
			errors = append(errors, "MongoDB URI cannot be empty when using mongo backend")
		} else if parsedURL, err := url.Parse(c.MongoURI); err != nil {
			errors = append(errors, fmt.Sprintf("invalid MongoDB URI '%s': %v", c.MongoURI, err))
		} else if parsedURL.Scheme != "mongodb" && parsedURL.Scheme != "mongodb+srv" {
			errors = append(errors, fmt.Sprintf("invalid MongoDB URI scheme '%s': must be 'mongodb' or 'mongodb+srv'", parsedURL.Scheme))
		}
		if c.MongoDatabase == "" {
			errors = append(errors, "MongoDB database name cannot be empty when using mongo backend")
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// The ledger mirror needs both a spreadsheet and credentials.
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleServiceAccountKey == "" {
			errors = append(errors, "GOOGLE_SERVICE_ACCOUNT_KEY_FILE must be provided when GOOGLE_SPREADSHEET_ID is set")
		} else if _, err := os.Stat(c.GoogleServiceAccountKey); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google service account key file does not exist: %s", c.GoogleServiceAccountKey))
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google sheet name cannot be empty when GOOGLE_SPREADSHEET_ID is set")
		}
	}

	// Validate worker configuration
	if c.BackupReminderInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid backup reminder interval %v: must be at least 1 minute", c.BackupReminderInterval))
	} else if c.BackupReminderInterval > 30*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid backup reminder interval %v: must be at most 30 days", c.BackupReminderInterval))
	}

	// Validate display defaults
	if c.DefaultCurrency != "MGA" && c.DefaultCurrency != "Fmg" {
		errors = append(errors, fmt.Sprintf("invalid default currency '%s': must be 'MGA' or 'Fmg'", c.DefaultCurrency))
	}
	if c.DefaultLocale != "en" && c.DefaultLocale != "fr" {
		errors = append(errors, fmt.Sprintf("invalid default locale '%s': must be 'en' or 'fr'", c.DefaultLocale))
	}

	// Return combined errors
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
