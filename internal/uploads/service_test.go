package uploads

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/carbonlabs/carbon-backend/internal/catalog"
	pkgerrors "github.com/carbonlabs/carbon-backend/pkg/errors"
)

type stubStore struct {
	created []catalog.Product
	err     error
}

func (s *stubStore) Create(ctx context.Context, product *catalog.Product) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *product)
	return nil
}

func (s *stubStore) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	panic("unimplemented")
}

func (s *stubStore) ListAll(ctx context.Context) ([]catalog.Product, error) {
	panic("unimplemented")
}

type stubSigner struct {
	keys []string
	err  error
}

func (s *stubSigner) PresignPut(ctx context.Context, objectKey string) (string, time.Duration, error) {
	if s.err != nil {
		return "", 0, s.err
	}
	s.keys = append(s.keys, objectKey)
	return "https://store.example/sign/" + objectKey, 10 * time.Minute, nil
}

func (s *stubSigner) PublicURL(objectKey string) string {
	return "https://cdn.example/" + objectKey
}

func validInput() SubmitInput {
	return SubmitInput{
		Filename:    "hoodie.png",
		ProductName: "Hoodie",
		Description: "Heavyweight fleece",
		Range:       "120",
		Index:       3,
	}
}

func TestSubmit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := &stubStore{}
		signer := &stubSigner{}
		svc, err := NewService(store, signer)
		if err != nil {
			t.Fatalf("NewService: %v", err)
		}

		out, err := svc.Submit(context.Background(), validInput())
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}

		if len(signer.keys) != 1 {
			t.Fatalf("expected one presigned key, got %d", len(signer.keys))
		}
		key := signer.keys[0]
		if !strings.HasSuffix(key, ".png") {
			t.Fatalf("expected key to keep the file extension, got %q", key)
		}
		if out.URL != "https://store.example/sign/"+key {
			t.Fatalf("unexpected write url %q", out.URL)
		}
		if out.PublicPath != "https://cdn.example/"+key {
			t.Fatalf("unexpected public path %q", out.PublicPath)
		}
		if out.ExpiresIn != 10*time.Minute {
			t.Fatalf("unexpected expiry %v", out.ExpiresIn)
		}

		if len(store.created) != 1 {
			t.Fatalf("expected one record persisted, got %d", len(store.created))
		}
		rec := store.created[0]
		if rec.ImgURL != out.PublicPath {
			t.Fatalf("expected persisted image url %q, got %q", out.PublicPath, rec.ImgURL)
		}
		if rec.ProductName != "Hoodie" || rec.Range != "120" || rec.Index != 3 {
			t.Fatalf("unexpected persisted record %+v", rec)
		}
		if rec.ID == "" {
			t.Fatalf("expected a generated record id")
		}
		if out.Product != rec {
			t.Fatalf("expected output to echo the persisted record")
		}
	})

	t.Run("distinct keys for the same filename", func(t *testing.T) {
		store := &stubStore{}
		signer := &stubSigner{}
		svc, _ := NewService(store, signer)

		for i := 0; i < 2; i++ {
			if _, err := svc.Submit(context.Background(), validInput()); err != nil {
				t.Fatalf("Submit: %v", err)
			}
		}
		if signer.keys[0] == signer.keys[1] {
			t.Fatalf("expected unique object keys, both were %q", signer.keys[0])
		}
	})

	t.Run("filename without extension", func(t *testing.T) {
		store := &stubStore{}
		signer := &stubSigner{}
		svc, _ := NewService(store, signer)

		input := validInput()
		input.Filename = "hoodie"
		if _, err := svc.Submit(context.Background(), input); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		key := signer.keys[0]
		if !strings.HasSuffix(key, ".hoodie") {
			t.Fatalf("expected whole filename used as extension, got %q", key)
		}
	})

	t.Run("validation failures issue no urls", func(t *testing.T) {
		cases := map[string]func(*SubmitInput){
			"empty filename":     func(in *SubmitInput) { in.Filename = "  " },
			"empty product name": func(in *SubmitInput) { in.ProductName = "" },
			"empty range":        func(in *SubmitInput) { in.Range = "" },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				store := &stubStore{}
				signer := &stubSigner{}
				svc, _ := NewService(store, signer)

				input := validInput()
				mutate(&input)
				_, err := svc.Submit(context.Background(), input)
				if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
				if len(signer.keys) != 0 {
					t.Fatalf("expected no presign call on invalid input")
				}
				if len(store.created) != 0 {
					t.Fatalf("expected no record persisted on invalid input")
				}
			})
		}
	})

	t.Run("presign failure", func(t *testing.T) {
		store := &stubStore{}
		signer := &stubSigner{err: errors.New("boom")}
		svc, _ := NewService(store, signer)

		_, err := svc.Submit(context.Background(), validInput())
		if pkgerrors.CodeOf(err) != pkgerrors.CodeUploadURL {
			t.Fatalf("expected upload url error, got %v", err)
		}
		if len(store.created) != 0 {
			t.Fatalf("expected no record persisted when presign fails")
		}
	})

	t.Run("persist failure", func(t *testing.T) {
		store := &stubStore{err: errors.New("db down")}
		signer := &stubSigner{}
		svc, _ := NewService(store, signer)

		_, err := svc.Submit(context.Background(), validInput())
		if pkgerrors.CodeOf(err) != pkgerrors.CodePersist {
			t.Fatalf("expected persist error, got %v", err)
		}
	})
}

func TestBuildObjectKey(t *testing.T) {
	cases := []struct {
		filename string
		wantExt  string
	}{
		{"photo.png", "png"},
		{"archive.tar.gz", "gz"},
		{"noext", "noext"},
		{".env", "env"},
	}
	for _, tc := range cases {
		key := buildObjectKey("token", tc.filename)
		if key != "token."+tc.wantExt {
			t.Fatalf("buildObjectKey(token, %q) = %q, want %q", tc.filename, key, "token."+tc.wantExt)
		}
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(nil, &stubSigner{}); err == nil {
		t.Fatalf("expected error without a store")
	}
	if _, err := NewService(&stubStore{}, nil); err == nil {
		t.Fatalf("expected error without a signer")
	}
}
