package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
)

// Config holds the runtime configuration of the lift board service.  Each
// field corresponds to an environment variable.
type Config struct {
	Env             string // application environment (dev, test, prod)
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to verify access tokens
	MigrateOnStart  bool   // create missing tables before serving
	BrokerURL       string // RabbitMQ URL for assignment events, empty disables publishing
	ConsumerEnabled bool   // run the assignment log consumer in-process
	LogDir          string // directory of the assignment change log
}

// Load reads configuration values from environment variables.  Required
// variables are enforced by must() and a missing value stops the process.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		MigrateOnStart:  envBool("DB_MIGRATE", true),
		BrokerURL:       brokerURL(),
		ConsumerEnabled: envBool("ASSIGNMENT_CONSUMER_ENABLED", false),
		LogDir:          envStr("ASSIGNMENT_LOG_DIR", "logs"),
	}
}

// IsProd reports whether the service runs in production.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// brokerURL prefers RABBITMQ_URL over AMQP_URL.  Publishing is disabled
// when both are unset or set to "off".
func brokerURL() string {
	url := envStr("RABBITMQ_URL", os.Getenv("AMQP_URL"))
	if url == "off" {
		return ""
	}
	return url
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
