package orderdata

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wcorders/backend/internal/domain/shared"
)

// CustomerRepository persists customers.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, userID uuid.UUID, email string) (*Customer, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Customer, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// CategoryRepository persists product categories.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, category *Category) error
}

// ProductRepository persists catalog products. The reconciler only ever
// looks products up; creation belongs to catalog sync.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByProductID(ctx context.Context, productID int64) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, product *Product) error
}

// OrderListFilter narrows order list queries.
type OrderListFilter struct {
	shared.Filter
	CreatedAfter *time.Time
}

// OrderRepository persists orders and their owned child collections.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderID(ctx context.Context, userID uuid.UUID, orderID int64) (*Order, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]Order, error)
	CountForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (int64, error)
	Save(ctx context.Context, order *Order) error

	// ReplaceChildren deletes every child row owned by the order and
	// recreates the given collections in a single transaction, so the
	// local children always mirror the latest imported payload exactly.
	ReplaceChildren(ctx context.Context, orderRef uuid.UUID, children OrderChildren) error

	ListItems(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]OrderItem, error)
	ListAddresses(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Address, error)
	ListShippingMethods(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ShippingMethod, error)
	ListCoupons(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Coupon, error)
	ListTaxes(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Tax, error)

	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// PaymentGatewayRepository persists payment gateways.
type PaymentGatewayRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentGateway, error)
	FindByGatewayID(ctx context.Context, userID uuid.UUID, gatewayID string) (*PaymentGateway, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]PaymentGateway, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Save(ctx context.Context, gateway *PaymentGateway) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}
