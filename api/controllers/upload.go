package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carbonlabs/carbon-backend/api/responses"
	"github.com/carbonlabs/carbon-backend/api/validators"
	"github.com/carbonlabs/carbon-backend/internal/catalog"
	"github.com/carbonlabs/carbon-backend/internal/uploads"
	pkgerrors "github.com/carbonlabs/carbon-backend/pkg/errors"
	"github.com/carbonlabs/carbon-backend/pkg/logger"
)

// flexString accepts a JSON string or number; the storefront has sent the
// price range both ways across revisions.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("range must be a string or number")
	}
	*f = flexString(n.String())
	return nil
}

type submitProductRequest struct {
	Filename    string     `json:"filename" validate:"required"`
	ProductName string     `json:"productName" validate:"required"`
	Description string     `json:"description"`
	Range       flexString `json:"range" validate:"required"`
	Index       int        `json:"index"`
}

// SubmitProduct handles POST /upload: issue a presigned write URL, persist
// the record, and return both so the client can PUT the image bytes itself.
func SubmitProduct(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		var payload submitProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Submit(r.Context(), uploads.SubmitInput{
			Filename:    payload.Filename,
			ProductName: payload.ProductName,
			Description: payload.Description,
			Range:       string(payload.Range),
			Index:       payload.Index,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// ListProducts handles GET /upload: the full catalog as a JSON array.
func ListProducts(store catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := store.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "list products"))
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct handles GET /upload/{id}: one record or a 404.
func GetProduct(store catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		product, err := store.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "fetch product"))
			return
		}

		responses.WriteSuccess(w, product)
	}
}
