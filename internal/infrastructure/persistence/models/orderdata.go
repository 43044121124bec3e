package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wcorders/backend/internal/domain/orderdata"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_customer_user_email,priority:1"`
	Email       string          `gorm:"type:varchar(254);not null;uniqueIndex:idx_customer_user_email,priority:2"`
	FirstName   string          `gorm:"type:varchar(100)"`
	LastName    string          `gorm:"type:varchar(100)"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	OrdersCount int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *orderdata.Customer {
	return &orderdata.Customer{
		BaseEntity:  m.BaseModel.ToDomain(),
		UserID:      m.UserID,
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		TotalSpent:  m.TotalSpent,
		OrdersCount: m.OrdersCount,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *orderdata.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserID = c.UserID
	m.Email = c.Email
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.TotalSpent = c.TotalSpent
	m.OrdersCount = c.OrdersCount
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *orderdata.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	CategoryID int64  `gorm:"not null;uniqueIndex"`
	Name       string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *orderdata.Category {
	return &orderdata.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		CategoryID: m.CategoryID,
		Name:       m.Name,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *orderdata.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.CategoryID = c.CategoryID
	m.Name = c.Name
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *orderdata.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	ProductID  int64           `gorm:"not null;uniqueIndex"`
	Name       string          `gorm:"type:varchar(255);not null"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *orderdata.Product {
	return &orderdata.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		Name:       m.Name,
		CategoryID: m.CategoryID,
		Price:      m.Price,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *orderdata.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ProductID = p.ProductID
	m.Name = p.Name
	m.CategoryID = p.CategoryID
	m.Price = p.Price
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *orderdata.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	BaseModel
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_user_remote,priority:1"`
	OrderID          int64           `gorm:"not null;uniqueIndex:idx_order_user_remote,priority:2"`
	Status           string          `gorm:"type:varchar(50);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DateCreated      time.Time       `gorm:"not null;index"`
	DateModified     time.Time       `gorm:"not null"`
	CustomerID       *uuid.UUID      `gorm:"type:uuid;index"`
	PaymentGatewayID *uuid.UUID      `gorm:"type:uuid;index"`
	RefundAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *orderdata.Order {
	return &orderdata.Order{
		BaseEntity:       m.BaseModel.ToDomain(),
		UserID:           m.UserID,
		OrderID:          m.OrderID,
		Status:           m.Status,
		Total:            m.Total,
		DateCreated:      m.DateCreated,
		DateModified:     m.DateModified,
		CustomerID:       m.CustomerID,
		PaymentGatewayID: m.PaymentGatewayID,
		RefundAmount:     m.RefundAmount,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *orderdata.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.UserID = o.UserID
	m.OrderID = o.OrderID
	m.Status = o.Status
	m.Total = o.Total
	m.DateCreated = o.DateCreated
	m.DateModified = o.DateModified
	m.CustomerID = o.CustomerID
	m.PaymentGatewayID = o.PaymentGatewayID
	m.RefundAmount = o.RefundAmount
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *orderdata.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for the OrderItem domain entity.
type OrderItemModel struct {
	BaseModel
	OrderRef  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity  int             `gorm:"not null;default:0"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem entity.
func (m *OrderItemModel) ToDomain() *orderdata.OrderItem {
	return &orderdata.OrderItem{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderRef:   m.OrderRef,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Total:      m.Total,
	}
}

// FromDomain populates the persistence model from a domain OrderItem entity.
func (m *OrderItemModel) FromDomain(i *orderdata.OrderItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.OrderRef = i.OrderRef
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
	m.Total = i.Total
}

// AddressModel is the persistence model for the Address domain entity.
type AddressModel struct {
	BaseModel
	OrderRef    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID  *uuid.UUID `gorm:"type:uuid;index"`
	AddressType string     `gorm:"type:varchar(10);not null"`
	Payload     string     `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address entity.
func (m *AddressModel) ToDomain() *orderdata.Address {
	return &orderdata.Address{
		BaseEntity:  m.BaseModel.ToDomain(),
		OrderRef:    m.OrderRef,
		CustomerID:  m.CustomerID,
		AddressType: orderdata.AddressType(m.AddressType),
		Payload:     m.Payload,
	}
}

// FromDomain populates the persistence model from a domain Address entity.
func (m *AddressModel) FromDomain(a *orderdata.Address) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.OrderRef = a.OrderRef
	m.CustomerID = a.CustomerID
	m.AddressType = string(a.AddressType)
	m.Payload = a.Payload
}

// ShippingMethodModel is the persistence model for the ShippingMethod domain entity.
type ShippingMethodModel struct {
	BaseModel
	OrderRef    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MethodID    string          `gorm:"type:varchar(100);not null"`
	MethodTitle string          `gorm:"type:varchar(255)"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ShippingMethodModel) TableName() string {
	return "shipping_methods"
}

// ToDomain converts the persistence model to a domain ShippingMethod entity.
func (m *ShippingMethodModel) ToDomain() *orderdata.ShippingMethod {
	return &orderdata.ShippingMethod{
		BaseEntity:  m.BaseModel.ToDomain(),
		OrderRef:    m.OrderRef,
		MethodID:    m.MethodID,
		MethodTitle: m.MethodTitle,
		Total:       m.Total,
	}
}

// FromDomain populates the persistence model from a domain ShippingMethod entity.
func (m *ShippingMethodModel) FromDomain(s *orderdata.ShippingMethod) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.OrderRef = s.OrderRef
	m.MethodID = s.MethodID
	m.MethodTitle = s.MethodTitle
	m.Total = s.Total
}

// CouponModel is the persistence model for the Coupon domain entity.
type CouponModel struct {
	BaseModel
	OrderRef uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code     string          `gorm:"type:varchar(100);not null"`
	Discount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the persistence model to a domain Coupon entity.
func (m *CouponModel) ToDomain() *orderdata.Coupon {
	return &orderdata.Coupon{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderRef:   m.OrderRef,
		Code:       m.Code,
		Discount:   m.Discount,
	}
}

// FromDomain populates the persistence model from a domain Coupon entity.
func (m *CouponModel) FromDomain(c *orderdata.Coupon) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.OrderRef = c.OrderRef
	m.Code = c.Code
	m.Discount = c.Discount
}

// TaxModel is the persistence model for the Tax domain entity.
type TaxModel struct {
	BaseModel
	OrderRef  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	TaxRegion string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (TaxModel) TableName() string {
	return "taxes"
}

// ToDomain converts the persistence model to a domain Tax entity.
func (m *TaxModel) ToDomain() *orderdata.Tax {
	return &orderdata.Tax{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderRef:   m.OrderRef,
		Total:      m.Total,
		TaxRate:    m.TaxRate,
		TaxRegion:  m.TaxRegion,
	}
}

// FromDomain populates the persistence model from a domain Tax entity.
func (m *TaxModel) FromDomain(t *orderdata.Tax) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.OrderRef = t.OrderRef
	m.Total = t.Total
	m.TaxRate = t.TaxRate
	m.TaxRegion = t.TaxRegion
}

// PaymentGatewayModel is the persistence model for the PaymentGateway domain entity.
type PaymentGatewayModel struct {
	BaseModel
	UserID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_gateway_user_remote,priority:1"`
	GatewayID      string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_gateway_user_remote,priority:2"`
	Name           string          `gorm:"type:varchar(255)"`
	CostPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CostFixed      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (PaymentGatewayModel) TableName() string {
	return "payment_gateways"
}

// ToDomain converts the persistence model to a domain PaymentGateway entity.
func (m *PaymentGatewayModel) ToDomain() *orderdata.PaymentGateway {
	return &orderdata.PaymentGateway{
		BaseEntity:     m.BaseModel.ToDomain(),
		UserID:         m.UserID,
		GatewayID:      m.GatewayID,
		Name:           m.Name,
		CostPercentage: m.CostPercentage,
		CostFixed:      m.CostFixed,
		TotalCost:      m.TotalCost,
	}
}

// FromDomain populates the persistence model from a domain PaymentGateway entity.
func (m *PaymentGatewayModel) FromDomain(g *orderdata.PaymentGateway) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.UserID = g.UserID
	m.GatewayID = g.GatewayID
	m.Name = g.Name
	m.CostPercentage = g.CostPercentage
	m.CostFixed = g.CostFixed
	m.TotalCost = g.TotalCost
}

// PaymentGatewayModelFromDomain creates a new persistence model from a domain PaymentGateway entity.
func PaymentGatewayModelFromDomain(g *orderdata.PaymentGateway) *PaymentGatewayModel {
	m := &PaymentGatewayModel{}
	m.FromDomain(g)
	return m
}
