package catalog

import "errors"

// ErrNotFound reports an absent record on point lookup. Absence is a result,
// not a transport failure; callers map it to 404.
var ErrNotFound = errors.New("product not found")

// Product is one catalog record. The identifier is backend-assigned: a
// sequential number under postgres, the object-key token under redis.
type Product struct {
	ID          string `json:"id"`
	ProductName string `json:"productName"`
	Description string `json:"description"`
	Range       string `json:"range"`
	Index       int    `json:"index"`
	ImgURL      string `json:"imgUrl"`
}
