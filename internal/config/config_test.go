package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("FEE_POLICY_FILE", "")
		t.Setenv("MINIO_ENDPOINT", "minio:9000")
		t.Setenv("AWS_REGION", "")
		t.Setenv("AWS_ACCESS_KEY_ID", "")
		t.Setenv("DYNAMODB_ENDPOINT", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != 8080 || cfg.StorageDriver != StorageDynamoDB {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.AWSRegion != "us-east-1" || cfg.AWSAccessKeyID != "local" || cfg.DynamoDBEndpoint != "" {
			t.Fatalf("unexpected aws defaults: %+v", cfg)
		}
		if cfg.Fees != DefaultFeePolicy() {
			t.Fatalf("expected default fee policy, got %+v", cfg.Fees)
		}
		if cfg.Fees.Rates().CommissionCapCents != 5000 {
			t.Fatalf("expected commission cap 5000")
		}
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("dynamodb driver requires an evidence bucket", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE_DRIVER", "dynamodb")
		t.Setenv("MINIO_ENDPOINT", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without MINIO_ENDPOINT")
		}
	})

	t.Run("memory driver runs without minio", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE_DRIVER", "memory")
		t.Setenv("MINIO_ENDPOINT", "")
		if _, err := Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("aws settings come from env", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("MINIO_ENDPOINT", "minio:9000")
		t.Setenv("AWS_REGION", "sa-east-1")
		t.Setenv("DYNAMODB_ENDPOINT", "http://dynamodb:8000")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.AWSRegion != "sa-east-1" || cfg.DynamoDBEndpoint != "http://dynamodb:8000" {
			t.Fatalf("aws overrides not applied: %+v", cfg)
		}
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE_DRIVER", "postgres")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE_DRIVER", "Memory")
		t.Setenv("PORT", "9090")
		t.Setenv("SWEEP_INTERVAL", "15s")
		t.Setenv("MINIO_USE_SSL", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.StorageDriver != StorageMemory || cfg.Port != 9090 || cfg.SweepInterval != 15*time.Second || !cfg.MinioUseSSL {
			t.Fatalf("overrides not applied: %+v", cfg)
		}
	})
}

func TestLoadFeePolicy(t *testing.T) {
	dir := t.TempDir()

	t.Run("partial override keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "fees.yaml")
		content := `
platform_fee_cents: 999
cancellation_grace_period: 10m
line_item_approval_window: 1h
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		fees, err := LoadFeePolicy(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fees.PlatformFeeCents != 999 {
			t.Errorf("expected 999, got %d", fees.PlatformFeeCents)
		}
		if fees.CancellationGracePeriod != 10*time.Minute {
			t.Errorf("expected 10m, got %s", fees.CancellationGracePeriod)
		}
		if fees.LineItemApprovalWindow != time.Hour {
			t.Errorf("expected 1h, got %s", fees.LineItemApprovalWindow)
		}
		if fees.CommissionCapCents != 5000 || fees.CancellationFeeCents != 1500 {
			t.Errorf("defaults lost: %+v", fees)
		}
		if fees.CancellationPolicy().GracePeriod != 10*time.Minute {
			t.Errorf("policy not derived from override")
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("commission_rate: 1.5\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadFeePolicy(path); err == nil {
			t.Fatalf("expected validation error")
		}
	})

	t.Run("env points at missing file", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE_DRIVER", "memory")
		t.Setenv("FEE_POLICY_FILE", filepath.Join(dir, "nope.yaml"))
		if _, err := Load(); err == nil {
			t.Fatalf("expected error")
		}
	})
}
