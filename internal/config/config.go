package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"mecanica_jobs/internal/domain/acknowledgement"
	"mecanica_jobs/internal/domain/billing"
	"mecanica_jobs/internal/domain/cancellation"

	"gopkg.in/yaml.v3"
)

const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

// Config is read once at startup from the environment (.env is autoloaded by
// the entrypoints).
type Config struct {
	Port          int
	StorageDriver string
	JobsTable     string
	// DynamoDBAutoCreate creates the jobs table on startup (local runs).
	DynamoDBAutoCreate bool
	DynamoDBEndpoint   string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	NotificationStream string
	ChangeFeedPrefix   string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	JWTSecret              string
	MercadoPagoAccessToken string
	PaymentGatewayMock     bool

	ServiceName  string
	OTLPEndpoint string
	LogLevel     string
	LogFormat    string

	SweepInterval time.Duration

	Fees FeePolicy
}

// FeePolicy groups the pricing and timing constants of the job rules. Values
// may be overridden by the YAML file named in FEE_POLICY_FILE.
type FeePolicy struct {
	PlatformFeeCents                   int64         `yaml:"platform_fee_cents"`
	CommissionRate                     float64       `yaml:"commission_rate"`
	CommissionCapCents                 int64         `yaml:"commission_cap_cents"`
	CancellationGracePeriod            time.Duration `yaml:"cancellation_grace_period"`
	CancellationFeeCents               int64         `yaml:"cancellation_fee_cents"`
	WorkInProgressCancellationFeeCents int64         `yaml:"work_in_progress_cancellation_fee_cents"`
	LineItemApprovalWindow             time.Duration `yaml:"line_item_approval_window"`
	MaxLineTotalCents                  int64         `yaml:"max_line_total_cents"`
	MaxPendingLineItems                int           `yaml:"max_pending_line_items"`
	AcknowledgementVersion             string        `yaml:"acknowledgement_version"`
}

func DefaultFeePolicy() FeePolicy {
	r := billing.DefaultRates()
	c := cancellation.DefaultPolicy()
	return FeePolicy{
		PlatformFeeCents:                   r.PlatformFeeCents,
		CommissionRate:                     r.CommissionRate,
		CommissionCapCents:                 r.CommissionCapCents,
		CancellationGracePeriod:            c.GracePeriod,
		CancellationFeeCents:               c.StandardFeeCents,
		WorkInProgressCancellationFeeCents: c.WorkInProgressFeeCents,
		LineItemApprovalWindow:             30 * time.Minute,
		MaxLineTotalCents:                  r.MaxLineTotalCents,
		MaxPendingLineItems:                billing.DefaultMaxPendingItems,
		AcknowledgementVersion:             acknowledgement.DefaultVersion,
	}
}

func (f FeePolicy) Rates() billing.Rates {
	return billing.Rates{
		CommissionRate:     f.CommissionRate,
		CommissionCapCents: f.CommissionCapCents,
		PlatformFeeCents:   f.PlatformFeeCents,
		MaxLineTotalCents:  f.MaxLineTotalCents,
	}
}

func (f FeePolicy) CancellationPolicy() cancellation.Policy {
	return cancellation.Policy{
		GracePeriod:            f.CancellationGracePeriod,
		StandardFeeCents:       f.CancellationFeeCents,
		WorkInProgressFeeCents: f.WorkInProgressCancellationFeeCents,
	}
}

func (f FeePolicy) Validate() error {
	var errs []error
	if f.PlatformFeeCents < 0 {
		errs = append(errs, errors.New("platform_fee_cents must not be negative"))
	}
	if f.CommissionRate < 0 || f.CommissionRate > 1 {
		errs = append(errs, errors.New("commission_rate must be between 0 and 1"))
	}
	if f.CommissionCapCents < 0 {
		errs = append(errs, errors.New("commission_cap_cents must not be negative"))
	}
	if f.CancellationGracePeriod < 0 {
		errs = append(errs, errors.New("cancellation_grace_period must not be negative"))
	}
	if f.CancellationFeeCents < 0 || f.WorkInProgressCancellationFeeCents < 0 {
		errs = append(errs, errors.New("cancellation fees must not be negative"))
	}
	if f.MaxLineTotalCents <= 0 {
		errs = append(errs, errors.New("max_line_total_cents must be positive"))
	}
	if f.MaxPendingLineItems <= 0 {
		errs = append(errs, errors.New("max_pending_line_items must be positive"))
	}
	if f.LineItemApprovalWindow <= 0 {
		errs = append(errs, errors.New("line_item_approval_window must be positive"))
	}
	if !strings.HasPrefix(f.AcknowledgementVersion, "ACK_") {
		errs = append(errs, errors.New("acknowledgement_version must look like ACK_<version>"))
	}
	return errors.Join(errs...)
}

// LoadFeePolicy reads a YAML override on top of the defaults. Keys missing
// from the file keep their default value.
func LoadFeePolicy(path string) (FeePolicy, error) {
	fees := DefaultFeePolicy()
	data, err := os.ReadFile(path)
	if err != nil {
		return fees, err
	}
	if err := yaml.Unmarshal(data, &fees); err != nil {
		return fees, fmt.Errorf("parse %s: %w", path, err)
	}
	return fees, fees.Validate()
}

// Load builds the Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenvInt("PORT", 8080),
		StorageDriver: strings.ToLower(getenvDefault("STORAGE_DRIVER", StorageDynamoDB)),
		JobsTable:     getenvDefault("DYNAMODB_JOBS_TABLE", "mecanica_jobs"),

		DynamoDBAutoCreate: getenvBool("DYNAMODB_AUTO_CREATE", false),
		DynamoDBEndpoint:   os.Getenv("DYNAMODB_ENDPOINT"),
		AWSRegion:          getenvDefault("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		AWSSecretAccessKey: getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),

		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getenvInt("REDIS_DB", 0),
		NotificationStream: getenvDefault("NOTIFICATION_STREAM", "notifications"),
		ChangeFeedPrefix:   getenvDefault("CHANGE_FEED_PREFIX", "jobs:changes:"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getenvDefault("MINIO_BUCKET", "job-evidence"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),

		JWTSecret:              os.Getenv("JWT_SECRET"),
		MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		PaymentGatewayMock:     getenvBool("PAYMENT_GATEWAY_MOCK", false) || getenvBool("MERCADOPAGO_MOCK", false),

		ServiceName:  getenvDefault("OTEL_SERVICE_NAME", "mecanica-jobs"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:     getenvDefault("LOG_LEVEL", "info"),
		LogFormat:    getenvDefault("LOG_FORMAT", "text"),

		SweepInterval: getenvDuration("SWEEP_INTERVAL", time.Minute),

		Fees: DefaultFeePolicy(),
	}

	if path := os.Getenv("FEE_POLICY_FILE"); path != "" {
		fees, err := LoadFeePolicy(path)
		if err != nil {
			return nil, fmt.Errorf("fee policy: %w", err)
		}
		cfg.Fees = fees
	}

	switch cfg.StorageDriver {
	case StorageDynamoDB:
		// Only the memory driver may run without an evidence bucket.
		if cfg.MinioEndpoint == "" {
			return nil, errors.New("missing MINIO_ENDPOINT for STORAGE_DRIVER=dynamodb")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("missing JWT_SECRET")
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
