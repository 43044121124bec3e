package orderdata

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wcorders/backend/internal/domain/shared"
)

// AddressType distinguishes the two address rows stored per order.
type AddressType string

const (
	AddressTypeBilling  AddressType = "billing"
	AddressTypeShipping AddressType = "shipping"
)

// Order is an imported store order, keyed by (user, order id). Customer
// and payment gateway references are nullable; they are cleared when the
// referenced entity is deleted.
type Order struct {
	shared.BaseEntity
	UserID           uuid.UUID
	OrderID          int64
	Status           string
	Total            decimal.Decimal
	DateCreated      time.Time
	DateModified     time.Time
	CustomerID       *uuid.UUID
	PaymentGatewayID *uuid.UUID
	RefundAmount     decimal.Decimal
}

// OrderItem is a line item owned by exactly one order. The product
// reference is nullable: unmatched remote product ids import as items
// without a product link.
type OrderItem struct {
	shared.BaseEntity
	OrderRef  uuid.UUID
	ProductID *uuid.UUID
	Quantity  int
	Total     decimal.Decimal
}

// Address is a billing or shipping address row owned by one order. The
// raw remote address block is kept as JSON alongside the customer link.
type Address struct {
	shared.BaseEntity
	OrderRef    uuid.UUID
	CustomerID  *uuid.UUID
	AddressType AddressType
	Payload     string
}

// ShippingMethod is a shipping line owned by one order.
type ShippingMethod struct {
	shared.BaseEntity
	OrderRef    uuid.UUID
	MethodID    string
	MethodTitle string
	Total       decimal.Decimal
}

// Coupon is a coupon line owned by one order.
type Coupon struct {
	shared.BaseEntity
	OrderRef uuid.UUID
	Code     string
	Discount decimal.Decimal
}

// Tax is a tax line owned by one order.
type Tax struct {
	shared.BaseEntity
	OrderRef  uuid.UUID
	Total     decimal.Decimal
	TaxRate   decimal.Decimal
	TaxRegion string
}

// OrderChildren bundles the collections replaced wholesale on each import
// of an order.
type OrderChildren struct {
	Items           []OrderItem
	Addresses       []Address
	ShippingMethods []ShippingMethod
	Coupons         []Coupon
	Taxes           []Tax
}
