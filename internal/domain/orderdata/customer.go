package orderdata

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wcorders/backend/internal/domain/shared"
)

// Customer is a store customer derived from imported order billing data.
// It is keyed by (user, email); email is unique per owning user.
//
// TotalSpent and OrdersCount are running aggregates accumulated across
// syncs, never recomputed from scratch.
type Customer struct {
	shared.BaseEntity
	UserID      uuid.UUID
	Email       string
	FirstName   string
	LastName    string
	TotalSpent  decimal.Decimal
	OrdersCount int
}

// NewCustomer creates a customer seeded with its first imported order.
// The email is normalized to lower case so lookups by billing email match
// regardless of how the remote platform cased it.
func NewCustomer(userID uuid.UUID, email, firstName, lastName string, firstOrderTotal decimal.Decimal) *Customer {
	return &Customer{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		FirstName:   firstName,
		LastName:    lastName,
		TotalSpent:  firstOrderTotal,
		OrdersCount: 1,
	}
}

// RecordOrder updates name fields and accumulates the order into the
// customer's lifetime aggregates.
func (c *Customer) RecordOrder(firstName, lastName string, orderTotal decimal.Decimal) {
	if firstName != "" {
		c.FirstName = firstName
	}
	if lastName != "" {
		c.LastName = lastName
	}
	c.TotalSpent = c.TotalSpent.Add(orderTotal)
	c.OrdersCount++
}

// UpdateName refreshes the name fields without touching the aggregates.
func (c *Customer) UpdateName(firstName, lastName string) {
	if firstName != "" {
		c.FirstName = firstName
	}
	if lastName != "" {
		c.LastName = lastName
	}
}
