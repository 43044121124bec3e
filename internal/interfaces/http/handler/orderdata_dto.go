package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/wcorders/backend/internal/domain/orderdata"
)

// OrderResponse represents an imported order
type OrderResponse struct {
	ID               uuid.UUID  `json:"id"`
	OrderID          int64      `json:"order_id"`
	Status           string     `json:"status"`
	Total            string     `json:"total"`
	RefundAmount     string     `json:"refund_amount"`
	DateCreated      time.Time  `json:"date_created"`
	DateModified     time.Time  `json:"date_modified"`
	CustomerID       *uuid.UUID `json:"customer_id,omitempty"`
	PaymentGatewayID *uuid.UUID `json:"payment_gateway_id,omitempty"`
}

func toOrderResponse(o orderdata.Order) OrderResponse {
	return OrderResponse{
		ID:               o.ID,
		OrderID:          o.OrderID,
		Status:           o.Status,
		Total:            o.Total.String(),
		RefundAmount:     o.RefundAmount.String(),
		DateCreated:      o.DateCreated,
		DateModified:     o.DateModified,
		CustomerID:       o.CustomerID,
		PaymentGatewayID: o.PaymentGatewayID,
	}
}

func toOrderResponses(orders []orderdata.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

// OrderItemResponse represents one order line item
type OrderItemResponse struct {
	ID        uuid.UUID  `json:"id"`
	OrderRef  uuid.UUID  `json:"order_ref"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Quantity  int        `json:"quantity"`
	Total     string     `json:"total"`
}

func toOrderItemResponses(items []orderdata.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, len(items))
	for i, item := range items {
		out[i] = OrderItemResponse{
			ID:        item.ID,
			OrderRef:  item.OrderRef,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Total:     item.Total.String(),
		}
	}
	return out
}

// AddressResponse represents a billing or shipping address snapshot
type AddressResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderRef    uuid.UUID       `json:"order_ref"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	AddressType string          `json:"address_type"`
	Payload     json.RawMessage `json:"payload"`
}

func toAddressResponses(addresses []orderdata.Address) []AddressResponse {
	out := make([]AddressResponse, len(addresses))
	for i, a := range addresses {
		payload := json.RawMessage(a.Payload)
		if len(payload) == 0 {
			payload = json.RawMessage("{}")
		}
		out[i] = AddressResponse{
			ID:          a.ID,
			OrderRef:    a.OrderRef,
			CustomerID:  a.CustomerID,
			AddressType: string(a.AddressType),
			Payload:     payload,
		}
	}
	return out
}

// ShippingMethodResponse represents a shipping line on an order
type ShippingMethodResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderRef    uuid.UUID `json:"order_ref"`
	MethodID    string    `json:"method_id"`
	MethodTitle string    `json:"method_title"`
	Total       string    `json:"total"`
}

func toShippingMethodResponses(methods []orderdata.ShippingMethod) []ShippingMethodResponse {
	out := make([]ShippingMethodResponse, len(methods))
	for i, m := range methods {
		out[i] = ShippingMethodResponse{
			ID:          m.ID,
			OrderRef:    m.OrderRef,
			MethodID:    m.MethodID,
			MethodTitle: m.MethodTitle,
			Total:       m.Total.String(),
		}
	}
	return out
}

// CouponResponse represents a coupon applied to an order
type CouponResponse struct {
	ID       uuid.UUID `json:"id"`
	OrderRef uuid.UUID `json:"order_ref"`
	Code     string    `json:"code"`
	Discount string    `json:"discount"`
}

func toCouponResponses(coupons []orderdata.Coupon) []CouponResponse {
	out := make([]CouponResponse, len(coupons))
	for i, cp := range coupons {
		out[i] = CouponResponse{
			ID:       cp.ID,
			OrderRef: cp.OrderRef,
			Code:     cp.Code,
			Discount: cp.Discount.String(),
		}
	}
	return out
}

// TaxResponse represents a tax line on an order
type TaxResponse struct {
	ID        uuid.UUID `json:"id"`
	OrderRef  uuid.UUID `json:"order_ref"`
	Total     string    `json:"total"`
	TaxRate   string    `json:"tax_rate"`
	TaxRegion string    `json:"tax_region"`
}

func toTaxResponses(taxes []orderdata.Tax) []TaxResponse {
	out := make([]TaxResponse, len(taxes))
	for i, t := range taxes {
		out[i] = TaxResponse{
			ID:        t.ID,
			OrderRef:  t.OrderRef,
			Total:     t.Total.String(),
			TaxRate:   t.TaxRate.String(),
			TaxRegion: t.TaxRegion,
		}
	}
	return out
}

// CustomerResponse represents an imported customer
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	TotalSpent  string    `json:"total_spent"`
	OrdersCount int       `json:"orders_count"`
}

func toCustomerResponses(customers []orderdata.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i, cu := range customers {
		out[i] = CustomerResponse{
			ID:          cu.ID,
			Email:       cu.Email,
			FirstName:   cu.FirstName,
			LastName:    cu.LastName,
			TotalSpent:  cu.TotalSpent.String(),
			OrdersCount: cu.OrdersCount,
		}
	}
	return out
}

// PaymentGatewayResponse represents a payment gateway usage record
type PaymentGatewayResponse struct {
	ID             uuid.UUID `json:"id"`
	GatewayID      string    `json:"gateway_id"`
	Name           string    `json:"name"`
	CostPercentage string    `json:"cost_percentage"`
	CostFixed      string    `json:"cost_fixed"`
	TotalCost      string    `json:"total_cost"`
}

func toPaymentGatewayResponses(gateways []orderdata.PaymentGateway) []PaymentGatewayResponse {
	out := make([]PaymentGatewayResponse, len(gateways))
	for i, g := range gateways {
		out[i] = PaymentGatewayResponse{
			ID:             g.ID,
			GatewayID:      g.GatewayID,
			Name:           g.Name,
			CostPercentage: g.CostPercentage.String(),
			CostFixed:      g.CostFixed.String(),
			TotalCost:      g.TotalCost.String(),
		}
	}
	return out
}

// ProductResponse represents a catalog product
type ProductResponse struct {
	ID         uuid.UUID  `json:"id"`
	ProductID  int64      `json:"product_id"`
	Name       string     `json:"name"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Price      string     `json:"price"`
}

func toProductResponse(p orderdata.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		ProductID:  p.ProductID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		Price:      p.Price.String(),
	}
}

func toProductResponses(products []orderdata.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

// CategoryResponse represents a catalog category
type CategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
}

func toCategoryResponses(categories []orderdata.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		out[i] = CategoryResponse{
			ID:         cat.ID,
			CategoryID: cat.CategoryID,
			Name:       cat.Name,
		}
	}
	return out
}
