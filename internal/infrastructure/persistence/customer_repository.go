package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wcorders/backend/internal/domain/orderdata"
	"github.com/wcorders/backend/internal/domain/shared"
	"github.com/wcorders/backend/internal/infrastructure/persistence/models"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*orderdata.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a customer by email within a user's data set
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, userID uuid.UUID, email string) (*orderdata.Customer, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND email = ?", userID, strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser finds all customers belonging to a user
func (r *GormCustomerRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.Customer, error) {
	var customerModels []models.CustomerModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("user_id = ?", userID),
		filter,
		"email ASC",
	)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]orderdata.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers, nil
}

// CountForUser counts customers belonging to a user
func (r *GormCustomerRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *orderdata.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteAllForUser removes every customer belonging to a user
func (r *GormCustomerRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.CustomerModel{}, "user_id = ?", userID).Error
}

// sortableColumns are the column names accepted from a caller-supplied
// order_by. Anything else, including expressions, falls back to the
// default ordering rather than reaching the SQL.
var sortableColumns = map[string]struct{}{
	"created_at":    {},
	"updated_at":    {},
	"date_created":  {},
	"date_modified": {},
	"order_id":      {},
	"status":        {},
	"total":         {},
	"email":         {},
	"first_name":    {},
	"last_name":     {},
	"orders_count":  {},
	"total_spent":   {},
	"name":          {},
	"price":         {},
}

// applyFilter applies pagination and ordering from the filter, falling back
// to the given default ordering.
func applyFilter(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if _, ok := sortableColumns[filter.OrderBy]; ok {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else if defaultOrder != "" {
		query = query.Order(defaultOrder)
	}

	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ orderdata.CustomerRepository = (*GormCustomerRepository)(nil)
