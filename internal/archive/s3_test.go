package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func isolateAWS(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func TestNewS3ClientStaticCredentials(t *testing.T) {
	isolateAWS(t)
	ctx := context.Background()

	client, err := NewS3Client(ctx, S3Config{
		Region:         "us-east-1",
		Endpoint:       "http://localhost:9000",
		AccessKeyID:    "AKIDEXAMPLE",
		SecretKey:      "secret",
		ForcePathStyle: true,
	})
	if err != nil {
		t.Fatalf("NewS3Client: %v", err)
	}

	opts := client.Options()
	if opts.Region != "us-east-1" {
		t.Errorf("Region = %q", opts.Region)
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:9000" {
		t.Errorf("BaseEndpoint = %v", opts.BaseEndpoint)
	}
	if !opts.UsePathStyle {
		t.Error("UsePathStyle should be set")
	}

	creds, err := opts.Credentials.Retrieve(ctx)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if creds.AccessKeyID != "AKIDEXAMPLE" || creds.SecretAccessKey != "secret" {
		t.Errorf("credentials = %q/%q", creds.AccessKeyID, creds.SecretAccessKey)
	}
}

func TestNewS3ClientNeedsBothKeys(t *testing.T) {
	isolateAWS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewS3Client(ctx, S3Config{Region: "us-east-1", AccessKeyID: "AKIDEXAMPLE"})
	if err != nil {
		t.Fatalf("NewS3Client: %v", err)
	}
	// A lone key id leaves the default chain in place.
	if creds, err := client.Options().Credentials.Retrieve(ctx); err == nil && creds.AccessKeyID == "AKIDEXAMPLE" {
		t.Error("half a key pair should not become static credentials")
	}
}
