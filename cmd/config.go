package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"atelier/internal/adapters/out/s3storage"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppEnv   string
	HTTPPort string
	LogLevel string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	SQLitePath string

	Auth0Domain   string
	Auth0Audience string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSS3Bucket        string
	UploadURLTTL       time.Duration

	NotifyWebhookURL         string
	VarianceThresholdPercent decimal.Decimal

	OverdueOrdersSchedule string
	StaleHoldsSchedule    string
	StaleHoldAfter        time.Duration
}

// LoadConfig reads .env.<APP_ENV> and then .env; values already present in
// the environment win and missing files are ignored.
func LoadConfig() (Config, error) {
	env := getEnv("APP_ENV", "development")
	_ = godotenv.Load(fmt.Sprintf(".env.%s", env))
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "atelier"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "atelier.db"),

		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),

		OverdueOrdersSchedule: getEnv("OVERDUE_ORDERS_SCHEDULE", jobs.DefaultOverdueOrdersSchedule),
		StaleHoldsSchedule:    getEnv("STALE_HOLDS_SCHEDULE", jobs.DefaultStaleHoldsSchedule),
	}

	var parseErrs []error
	var err error
	if cfg.UploadURLTTL, err = getDuration("UPLOAD_URL_TTL", s3storage.DefaultUploadTTL); err != nil {
		parseErrs = append(parseErrs, err)
	}
	if cfg.StaleHoldAfter, err = getDuration("STALE_HOLD_AFTER", jobs.DefaultStaleHoldAfter); err != nil {
		parseErrs = append(parseErrs, err)
	}
	if cfg.VarianceThresholdPercent, err = getDecimal("VARIANCE_THRESHOLD_PERCENT",
		submission.DefaultVarianceThreshold); err != nil {
		parseErrs = append(parseErrs, err)
	}
	if err = errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverPostgres:
		if c.IsProduction() && (c.DBUser == "" || c.DBPassword == "") {
			errs = append(errs, errors.New("DB_USER and DB_PASSWORD are required in production"))
		}
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required"))
		}
	case DriverSQLite:
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_DRIVER=sqlite is not supported in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %s or %s, got %q", DriverPostgres, DriverSQLite, c.DBDriver))
	}

	if (c.Auth0Domain == "") != (c.Auth0Audience == "") {
		errs = append(errs, errors.New("AUTH0_DOMAIN and AUTH0_AUDIENCE must be set together"))
	}
	if c.IsProduction() && c.Auth0Domain == "" {
		errs = append(errs, errors.New("AUTH0_DOMAIN is required in production"))
	}
	if c.VarianceThresholdPercent.IsNegative() || c.VarianceThresholdPercent.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, fmt.Errorf("VARIANCE_THRESHOLD_PERCENT must be within 0..100, got %s", c.VarianceThresholdPercent))
	}

	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PostgresDSN is the libpq connection string for DB_DRIVER=postgres.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) S3() s3storage.Config {
	return s3storage.Config{
		Region:          c.AWSRegion,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
		Bucket:          c.AWSS3Bucket,
		UploadTTL:       c.UploadURLTTL,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
