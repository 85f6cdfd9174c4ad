package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mvalverde/cartfront-backend/pkg/db"
	"github.com/mvalverde/cartfront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateProduct inserts a new product row with its tag associations.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product with its tags.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns all products with tags, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// Delete removes a product by ID, reporting whether a row existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindOrCreateTags resolves tag names to rows, creating missing ones. Meant to
// run inside the product-create transaction so tags and product commit together.
func (r *Repository) FindOrCreateTags(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
		if err == nil {
			tags = append(tags, tag)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		tag = models.Tag{Name: name}
		if createErr := r.db.WithContext(ctx).Create(&tag).Error; createErr != nil {
			// A concurrent writer may have inserted the same tag name.
			if db.IsUniqueViolation(createErr, "") {
				if refetchErr := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; refetchErr != nil {
					return nil, refetchErr
				}
			} else {
				return nil, createErr
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
