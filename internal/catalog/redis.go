package catalog

import (
	"context"
	"errors"
	"strconv"
)

// hashClient is the slice of pkg/redis.Client the store needs.
type hashClient interface {
	HSet(ctx context.Context, key string, values map[string]any) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	ProductKey(id string) string
	ProductKeyPattern() string
	IDFromProductKey(key string) string
}

// RedisStore keeps one flat hash per product at product:<id>. No uniqueness is
// enforced on the display index here; that semantics only exists on the
// relational backend.
type RedisStore struct {
	client hashClient
}

// NewRedisStore builds a store over the provided redis client.
func NewRedisStore(client hashClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, product *Product) error {
	if product.ID == "" {
		return errors.New("product id is required for the redis backend")
	}
	return s.client.HSet(ctx, s.client.ProductKey(product.ID), map[string]any{
		"productName": product.ProductName,
		"description": product.Description,
		"range":       product.Range,
		"index":       product.Index,
		"imgUrl":      product.ImgURL,
	})
}

func (s *RedisStore) GetByID(ctx context.Context, id string) (*Product, error) {
	fields, err := s.client.HGetAll(ctx, s.client.ProductKey(id))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	product := productFromHash(id, fields)
	return &product, nil
}

func (s *RedisStore) ListAll(ctx context.Context) ([]Product, error) {
	keys, err := s.client.ScanKeys(ctx, s.client.ProductKeyPattern())
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(keys))
	for _, key := range keys {
		fields, err := s.client.HGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			// Key expired or was deleted between SCAN and HGETALL.
			continue
		}
		products = append(products, productFromHash(s.client.IDFromProductKey(key), fields))
	}
	return products, nil
}

func productFromHash(id string, fields map[string]string) Product {
	index, _ := strconv.Atoi(fields["index"])
	return Product{
		ID:          id,
		ProductName: fields["productName"],
		Description: fields["description"],
		Range:       fields["range"],
		Index:       index,
		ImgURL:      fields["imgUrl"],
	}
}
