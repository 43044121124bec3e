package orderdata

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wcorders/backend/internal/domain/shared"
)

// PaymentGateway is a payment method seen on imported orders, keyed by
// (user, gateway id). Name and cost fields are placeholders until a gateway
// catalog sync exists; TotalCost counts orders that referenced the gateway.
type PaymentGateway struct {
	shared.BaseEntity
	UserID         uuid.UUID
	GatewayID      string
	Name           string
	CostPercentage decimal.Decimal
	CostFixed      decimal.Decimal
	TotalCost      decimal.Decimal
}

// NewPaymentGateway creates a gateway with zero-valued cost fields.
func NewPaymentGateway(userID uuid.UUID, gatewayID string) *PaymentGateway {
	return &PaymentGateway{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		GatewayID:      gatewayID,
		Name:           gatewayID,
		CostPercentage: decimal.Zero,
		CostFixed:      decimal.Zero,
		TotalCost:      decimal.Zero,
	}
}

// RecordUsage counts one more order referencing this gateway.
func (g *PaymentGateway) RecordUsage() {
	g.TotalCost = g.TotalCost.Add(decimal.NewFromInt(1))
}
