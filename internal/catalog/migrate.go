package catalog

import "gorm.io/gorm"

// AutoMigrate creates the products table through GORM. Used for the sqlite
// dev backend and in-memory tests; postgres deployments run the goose
// migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&productRow{})
}
