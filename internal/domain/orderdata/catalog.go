package orderdata

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wcorders/backend/internal/domain/shared"
)

// Category is a product category. Categories are global (not scoped by
// user) and keyed by the remote platform's category id.
type Category struct {
	shared.BaseEntity
	CategoryID int64
	Name       string
}

// Product is a catalog product, keyed by the remote platform's product id.
// Products are looked up, never created, during order import; catalog sync
// is a separate concern.
type Product struct {
	shared.BaseEntity
	ProductID  int64
	Name       string
	CategoryID *uuid.UUID
	Price      decimal.Decimal
}
