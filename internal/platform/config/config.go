package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// AMQPURL is the RabbitMQ broker for notification fan-out. Empty
	// disables publishing; notifications are then persisted only.
	AMQPURL string

	// EvidenceDir is where uploaded payment evidence is written;
	// EvidenceBaseURL is the public prefix it is served back under.
	EvidenceDir     string
	EvidenceBaseURL string

	// MaturationSchedule is the cron expression for the held-funds
	// maturation job.
	MaturationSchedule string

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if
// present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "wallet-backend")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("EVIDENCE_DIR", "./data/evidence")
	viper.SetDefault("EVIDENCE_BASE_URL", "/evidence")
	viper.SetDefault("MATURATION_SCHEDULE", "@every 15m")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.EvidenceDir = viper.GetString("EVIDENCE_DIR")
	cfg.EvidenceBaseURL = viper.GetString("EVIDENCE_BASE_URL")
	cfg.MaturationSchedule = viper.GetString("MATURATION_SCHEDULE")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
