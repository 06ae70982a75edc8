// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for the dashboard API, the workflow
// engine, borrower import sources, audit export sinks and demand letter rendering.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Borrower import sources
const (
	ImportSourceFixtures = "fixtures"
	ImportSourcePostgres = "postgres"
	ImportSourceKafka    = "kafka"
)

// Audit export sinks
const (
	AuditSinkMongo = "mongo"
	AuditSinkKafka = "kafka"
)

// Config holds the complete application configuration with settings for all components.
// Connection sections are only validated when a configured source or sink needs them.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Workflow    WorkflowConfig
	Import      ImportConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Audit       AuditConfig
	Letters     LettersConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// WorkflowConfig controls the record store
type WorkflowConfig struct {
	EnforceTransitions bool          // Reject moves outside the transition table
	DaysTickInterval   time.Duration // How often days_in_status advances; 0 disables the ticker
}

// ImportConfig selects where the borrower portfolio is loaded from
type ImportConfig struct {
	Source string
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers             string
	BorrowerImportTopic string
	ActionLogTopic      string
	NumPartitions       int // Number of partitions for topics
	ReplicationFactor   int // Replication factor for topics
	ConsumerGroup       string
	MinBytes            int
	MaxBytes            int
	MaxWait             time.Duration
	StartOffset         int64
	DLQTopic            string // Topic for Dead Letter Queue
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI                 string
	Database            string
	ActionLogCollection string
	Timeout             time.Duration
	MaxPoolSize         uint64
	MinPoolSize         uint64
	MaxConnIdleTime     time.Duration
}

// AuditConfig controls export of action log entries
type AuditConfig struct {
	Enabled         bool
	WorkerPoolSize  int           // Maximum number of concurrent deliveries
	DeliveryTimeout time.Duration // Per sink delivery deadline
	Sinks           []string
}

// LettersConfig holds the sender block printed on demand letters
type LettersConfig struct {
	CompanyName    string
	CompanyAddress string
	ContactPhone   string
	CurrencyPrefix string
}

// AuditSinkEnabled reports whether audit export is on and includes sink
func (c *Config) AuditSinkEnabled(sink string) bool {
	if !c.Audit.Enabled {
		return false
	}
	for _, s := range c.Audit.Sinks {
		if s == sink {
			return true
		}
	}
	return false
}

// needsKafka reports whether any component talks to the broker
func (c *Config) needsKafka() bool {
	return c.Import.Source == ImportSourceKafka || c.AuditSinkEnabled(AuditSinkKafka)
}

// validate performs validation of all configuration values that are in use,
// collecting every violation into a single error
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Workflow config
	if c.Workflow.DaysTickInterval < 0 {
		validationErrors = append(validationErrors, "WORKFLOW_DAYS_TICK_INTERVAL cannot be negative")
	}

	// Validate Import config
	switch c.Import.Source {
	case ImportSourceFixtures, ImportSourcePostgres, ImportSourceKafka:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("IMPORT_SOURCE must be one of %s, %s, %s", ImportSourceFixtures, ImportSourcePostgres, ImportSourceKafka))
	}

	// Validate Audit config
	if c.Audit.Enabled {
		if c.Audit.WorkerPoolSize <= 0 {
			validationErrors = append(validationErrors, "AUDIT_WORKER_POOL_SIZE must be greater than 0")
		}
		if c.Audit.DeliveryTimeout <= 0 {
			validationErrors = append(validationErrors, "AUDIT_DELIVERY_TIMEOUT must be greater than 0")
		}
		if len(c.Audit.Sinks) == 0 {
			validationErrors = append(validationErrors, "AUDIT_SINKS is required when AUDIT_ENABLED is true")
		}
		for _, s := range c.Audit.Sinks {
			if s != AuditSinkMongo && s != AuditSinkKafka {
				validationErrors = append(validationErrors, fmt.Sprintf("AUDIT_SINKS contains unknown sink %q", s))
			}
		}
	}

	// Validate Kafka config
	if c.needsKafka() {
		if len(c.Kafka.Brokers) == 0 {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
		}
		if c.Import.Source == ImportSourceKafka {
			if c.Kafka.BorrowerImportTopic == "" {
				validationErrors = append(validationErrors, "KAFKA_BORROWER_IMPORT_TOPIC is required")
			}
			if c.Kafka.ConsumerGroup == "" {
				validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
			}
			if c.Kafka.MinBytes <= 0 {
				validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
			}
			if c.Kafka.MaxBytes <= 0 {
				validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
			}
		}
		if c.AuditSinkEnabled(AuditSinkKafka) && c.Kafka.ActionLogTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_ACTION_LOG_TOPIC is required")
		}
		if c.Kafka.MaxWait <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
		}
	}

	// Validate PostgreSQL config
	if c.Import.Source == ImportSourcePostgres {
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	}

	// Validate MongoDB config
	if c.AuditSinkEnabled(AuditSinkMongo) {
		if c.MongoDB.URI == "" {
			validationErrors = append(validationErrors, "MONGO_URI is required")
		}
		if c.MongoDB.Database == "" {
			validationErrors = append(validationErrors, "MONGO_DATABASE is required")
		}
		if c.MongoDB.ActionLogCollection == "" {
			validationErrors = append(validationErrors, "MONGO_ACTION_LOG_COLLECTION is required")
		}
		if c.MongoDB.Timeout <= 0 {
			validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
		}
		if c.MongoDB.MaxPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
		}
	}

	// Validate Letters config
	if strings.TrimSpace(c.Letters.CompanyName) == "" {
		validationErrors = append(validationErrors, "LETTER_COMPANY_NAME is required")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
