package uploads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carbonlabs/carbon-backend/internal/catalog"
	pkgerrors "github.com/carbonlabs/carbon-backend/pkg/errors"
)

// objectSigner is the slice of the object store gateway the workflow needs.
type objectSigner interface {
	PresignPut(ctx context.Context, objectKey string) (string, time.Duration, error)
	PublicURL(objectKey string) string
}

// Service orchestrates the upload workflow: derive a unique object key, issue
// a write URL, persist the product record, and hand everything back so the
// client can perform the binary PUT itself.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitOutput, error)
}

type service struct {
	store  catalog.Store
	signer objectSigner
}

// NewService constructs the workflow over a record store and an object signer.
func NewService(store catalog.Store, signer objectSigner) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if signer == nil {
		return nil, fmt.Errorf("object signer required")
	}
	return &service{store: store, signer: signer}, nil
}

// SubmitInput models one product submission.
type SubmitInput struct {
	Filename    string
	ProductName string
	Description string
	Range       string
	Index       int
}

// SubmitOutput carries the write URL for the client-side PUT, the derived
// public URL, and the persisted record.
type SubmitOutput struct {
	PublicPath string          `json:"publicPath"`
	URL        string          `json:"url"`
	ExpiresIn  time.Duration   `json:"-"`
	Product    catalog.Product `json:"productData"`
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitOutput, error) {
	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}
	productName := strings.TrimSpace(input.ProductName)
	if productName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productName is required")
	}
	if strings.TrimSpace(input.Range) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "range is required")
	}

	token := uuid.NewString()
	objectKey := buildObjectKey(token, filename)

	writeURL, expiresIn, err := s.signer.PresignPut(ctx, objectKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUploadURL, err, "issue write url")
	}

	publicURL := s.signer.PublicURL(objectKey)

	product := catalog.Product{
		ID:          token,
		ProductName: productName,
		Description: input.Description,
		Range:       input.Range,
		Index:       input.Index,
		ImgURL:      publicURL,
	}
	// The write URL issued above stays valid until natural expiry even when
	// the persist fails; nothing revokes it.
	if err := s.store.Create(ctx, &product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersist, err, "persist product record")
	}

	return &SubmitOutput{
		PublicPath: publicURL,
		URL:        writeURL,
		ExpiresIn:  expiresIn,
		Product:    product,
	}, nil
}

// buildObjectKey concatenates a fresh token with the filename's extension
// (substring after the last dot), keeping concurrent uploads of identically
// named files collision-free by construction.
func buildObjectKey(token, filename string) string {
	ext := filename
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i+1:]
	}
	return token + "." + ext
}
