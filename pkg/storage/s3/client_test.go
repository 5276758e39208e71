package s3

import (
	"context"
	"testing"

	"github.com/carbonlabs/carbon-backend/pkg/config"
)

func TestPublicURL(t *testing.T) {
	client := &Client{publicBaseURL: "https://cdn.example"}

	if got := client.PublicURL("abc.png"); got != "https://cdn.example/abc.png" {
		t.Fatalf("PublicURL = %q", got)
	}
}

func TestPresignPutValidation(t *testing.T) {
	var nilClient *Client
	if _, _, err := nilClient.PresignPut(context.Background(), "key"); err == nil {
		t.Fatalf("expected error on nil client")
	}

	uninitialized := &Client{}
	if _, _, err := uninitialized.PresignPut(context.Background(), "key"); err == nil {
		t.Fatalf("expected error without presigner")
	}
}

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewClient(ctx, config.S3Config{
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}, nil)
		if err == nil {
			t.Fatalf("expected error without bucket")
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewClient(ctx, config.S3Config{Bucket: "carbon-backend"}, nil)
		if err == nil {
			t.Fatalf("expected error without credentials")
		}
	})
}
