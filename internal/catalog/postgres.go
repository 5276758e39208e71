package catalog

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
)

// productRow mirrors the products table. Column names match the original
// schema, including the quoted "index" column backing the unique constraint.
type productRow struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ProductName string `gorm:"column:productName;not null"`
	Description string `gorm:"column:description"`
	Range       string `gorm:"column:range"`
	Index       int    `gorm:"column:index;unique"`
	ImgURL      string `gorm:"column:image"`
}

func (productRow) TableName() string {
	return "products"
}

// PostgresStore backs the catalog with a relational products table. The
// schema's unique constraint on "index" is the only uniqueness enforcement in
// the system; violations surface through Create as ordinary errors.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore builds a store tied to the provided GORM DB.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, product *Product) error {
	row := &productRow{
		ProductName: product.ProductName,
		Description: product.Description,
		Range:       product.Range,
		Index:       product.Index,
		ImgURL:      product.ImgURL,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	product.ID = strconv.FormatInt(row.ID, 10)
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Product, error) {
	numeric, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}
	var row productRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", numeric).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	product := row.toProduct()
	return &product, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toProduct())
	}
	return products, nil
}

func (r productRow) toProduct() Product {
	return Product{
		ID:          strconv.FormatInt(r.ID, 10),
		ProductName: r.ProductName,
		Description: r.Description,
		Range:       r.Range,
		Index:       r.Index,
		ImgURL:      r.ImgURL,
	}
}
