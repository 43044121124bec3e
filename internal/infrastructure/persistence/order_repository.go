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

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*orderdata.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds an order by its remote order id within a user's data set
func (r *GormOrderRepository) FindByOrderID(ctx context.Context, userID uuid.UUID, orderID int64) (*orderdata.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND order_id = ?", userID, orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser finds all orders belonging to a user
func (r *GormOrderRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter orderdata.OrderListFilter) ([]orderdata.Order, error) {
	var orderModels []models.OrderModel
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("user_id = ?", userID)
	if filter.CreatedAfter != nil {
		query = query.Where("date_created >= ?", *filter.CreatedAfter)
	}
	query = applyFilter(query, filter.Filter, "date_created DESC")

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]orderdata.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// CountForUser counts orders belonging to a user
func (r *GormOrderRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter orderdata.OrderListFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("user_id = ?", userID)
	if filter.CreatedAfter != nil {
		query = query.Where("date_created >= ?", *filter.CreatedAfter)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *orderdata.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// ReplaceChildren deletes every child row owned by the order and recreates
// the given collections inside one transaction.
func (r *GormOrderRepository) ReplaceChildren(ctx context.Context, orderRef uuid.UUID, children orderdata.OrderChildren) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.OrderItemModel{},
			&models.AddressModel{},
			&models.ShippingMethodModel{},
			&models.CouponModel{},
			&models.TaxModel{},
		} {
			if err := tx.Delete(model, "order_ref = ?", orderRef).Error; err != nil {
				return err
			}
		}

		for i := range children.Items {
			var model models.OrderItemModel
			model.FromDomain(&children.Items[i])
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		for i := range children.Addresses {
			var model models.AddressModel
			model.FromDomain(&children.Addresses[i])
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		for i := range children.ShippingMethods {
			var model models.ShippingMethodModel
			model.FromDomain(&children.ShippingMethods[i])
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		for i := range children.Coupons {
			var model models.CouponModel
			model.FromDomain(&children.Coupons[i])
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		for i := range children.Taxes {
			var model models.TaxModel
			model.FromDomain(&children.Taxes[i])
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListItems lists line items across all of a user's orders
func (r *GormOrderRepository) ListItems(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.OrderItem, error) {
	var itemModels []models.OrderItemModel
	query := applyFilter(r.childQuery(ctx, &models.OrderItemModel{}, "order_items", userID), filter, "order_items.created_at DESC")

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]orderdata.OrderItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// ListAddresses lists address rows across all of a user's orders
func (r *GormOrderRepository) ListAddresses(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.Address, error) {
	var addressModels []models.AddressModel
	query := applyFilter(r.childQuery(ctx, &models.AddressModel{}, "addresses", userID), filter, "addresses.created_at DESC")

	if err := query.Find(&addressModels).Error; err != nil {
		return nil, err
	}

	addresses := make([]orderdata.Address, len(addressModels))
	for i, model := range addressModels {
		addresses[i] = *model.ToDomain()
	}
	return addresses, nil
}

// ListShippingMethods lists shipping lines across all of a user's orders
func (r *GormOrderRepository) ListShippingMethods(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.ShippingMethod, error) {
	var shippingModels []models.ShippingMethodModel
	query := applyFilter(r.childQuery(ctx, &models.ShippingMethodModel{}, "shipping_methods", userID), filter, "shipping_methods.created_at DESC")

	if err := query.Find(&shippingModels).Error; err != nil {
		return nil, err
	}

	methods := make([]orderdata.ShippingMethod, len(shippingModels))
	for i, model := range shippingModels {
		methods[i] = *model.ToDomain()
	}
	return methods, nil
}

// ListCoupons lists coupon lines across all of a user's orders
func (r *GormOrderRepository) ListCoupons(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.Coupon, error) {
	var couponModels []models.CouponModel
	query := applyFilter(r.childQuery(ctx, &models.CouponModel{}, "coupons", userID), filter, "coupons.created_at DESC")

	if err := query.Find(&couponModels).Error; err != nil {
		return nil, err
	}

	coupons := make([]orderdata.Coupon, len(couponModels))
	for i, model := range couponModels {
		coupons[i] = *model.ToDomain()
	}
	return coupons, nil
}

// ListTaxes lists tax lines across all of a user's orders
func (r *GormOrderRepository) ListTaxes(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.Tax, error) {
	var taxModels []models.TaxModel
	query := applyFilter(r.childQuery(ctx, &models.TaxModel{}, "taxes", userID), filter, "taxes.created_at DESC")

	if err := query.Find(&taxModels).Error; err != nil {
		return nil, err
	}

	taxes := make([]orderdata.Tax, len(taxModels))
	for i, model := range taxModels {
		taxes[i] = *model.ToDomain()
	}
	return taxes, nil
}

// DeleteAllForUser removes every order and owned child row belonging to a
// user inside one transaction.
func (r *GormOrderRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"order_items", "addresses", "shipping_methods", "coupons", "taxes"} {
			if err := tx.Exec(
				"DELETE FROM "+table+" WHERE order_ref IN (SELECT id FROM orders WHERE user_id = ?)",
				userID,
			).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.OrderModel{}, "user_id = ?", userID).Error
	})
}

// childQuery scopes a child table query to orders owned by the user.
func (r *GormOrderRepository) childQuery(ctx context.Context, model interface{}, table string, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(model).
		Joins("JOIN orders ON orders.id = "+table+".order_ref").
		Where("orders.user_id = ?", userID)
}

// Ensure GormOrderRepository implements OrderRepository
var _ orderdata.OrderRepository = (*GormOrderRepository)(nil)
