package database

import (
	"context"
	"testing"

	appconfig "mecanica_jobs/internal/config"
)

func TestNewAWSConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("uses region and static credentials from config", func(t *testing.T) {
		cfg := &appconfig.Config{AWSRegion: "sa-east-1", AWSAccessKeyID: "key", AWSSecretAccessKey: "secret"}
		awsCfg, err := NewAWSConfig(ctx, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if awsCfg.Region != "sa-east-1" {
			t.Fatalf("expected sa-east-1, got %q", awsCfg.Region)
		}
		creds, err := awsCfg.Credentials.Retrieve(ctx)
		if err != nil {
			t.Fatalf("retrieve credentials: %v", err)
		}
		if creds.AccessKeyID != "key" || creds.SecretAccessKey != "secret" {
			t.Fatalf("unexpected credentials %+v", creds)
		}
	})

	t.Run("env does not override config", func(t *testing.T) {
		t.Setenv("AWS_REGION", "eu-west-1")
		awsCfg, err := NewAWSConfig(ctx, &appconfig.Config{AWSRegion: "us-east-1", AWSAccessKeyID: "local", AWSSecretAccessKey: "local"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if awsCfg.Region != "us-east-1" {
			t.Fatalf("expected region from config, got %q", awsCfg.Region)
		}
	})
}

func TestConnectDynamoDB_Endpoint(t *testing.T) {
	cfg := &appconfig.Config{AWSRegion: "us-east-1", AWSAccessKeyID: "local", AWSSecretAccessKey: "local", DynamoDBEndpoint: "http://localhost:8000"}
	client, err := ConnectDynamoDB(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := client.Options()
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:8000" {
		t.Fatalf("expected local endpoint, got %v", opts.BaseEndpoint)
	}
	if opts.Region != "us-east-1" {
		t.Fatalf("expected us-east-1, got %q", opts.Region)
	}
}
