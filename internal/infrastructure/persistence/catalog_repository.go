package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wcorders/backend/internal/domain/orderdata"
	"github.com/wcorders/backend/internal/domain/shared"
	"github.com/wcorders/backend/internal/infrastructure/persistence/models"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*orderdata.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all categories
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]orderdata.Category, error) {
	var categoryModels []models.CategoryModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.CategoryModel{}), filter, "name ASC")

	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]orderdata.Category, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Count counts all categories
func (r *GormCategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *orderdata.Category) error {
	model := models.CategoryModelFromDomain(category)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*orderdata.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProductID finds a product by its remote platform id
func (r *GormProductRepository) FindByProductID(ctx context.Context, productID int64) (*orderdata.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all products
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]orderdata.Product, error) {
	var productModels []models.ProductModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter, "name ASC")

	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]orderdata.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// Count counts all products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *orderdata.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure the repositories implement their domain interfaces
var (
	_ orderdata.CategoryRepository = (*GormCategoryRepository)(nil)
	_ orderdata.ProductRepository  = (*GormProductRepository)(nil)
)
