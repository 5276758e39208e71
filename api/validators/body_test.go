package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/carbonlabs/carbon-backend/pkg/errors"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func decode(t *testing.T, body string) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest samplePayload
	return DecodeJSONBody(req, &dest)
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		if err := decode(t, `{"name":"widget","count":2}`); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		err := decode(t, `{"name":`)
		if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		err := decode(t, `{"name":"widget","count":2,"extra":true}`)
		if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missing required field uses json tag names", func(t *testing.T) {
		err := decode(t, `{"count":2}`)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !strings.Contains(typed.Message(), "name is required") {
			t.Fatalf("expected field named by json tag, got %q", typed.Message())
		}
	})

	t.Run("min violation", func(t *testing.T) {
		err := decode(t, `{"name":"widget","count":0}`)
		typed := pkgerrors.As(err)
		if typed == nil {
			t.Fatalf("expected typed error, got %v", err)
		}
		if !strings.Contains(typed.Message(), "count must be at least 1") {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	})
}
