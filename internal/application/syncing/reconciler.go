package syncing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/domain/orderdata"
	"github.com/wcorders/backend/internal/domain/shared"
	"github.com/wcorders/backend/internal/infrastructure/woocommerce"
)

// Reconciler imports fetched remote orders into the local entity graph.
// Each order import is independent: customer and gateway upserts happen
// first, then the order row, then a wholesale replacement of its child
// collections.
type Reconciler struct {
	orderRepo    orderdata.OrderRepository
	customerRepo orderdata.CustomerRepository
	gatewayRepo  orderdata.PaymentGatewayRepository
	productRepo  orderdata.ProductRepository
	logger       *zap.Logger
}

// NewReconciler creates a new Reconciler
func NewReconciler(
	orderRepo orderdata.OrderRepository,
	customerRepo orderdata.CustomerRepository,
	gatewayRepo orderdata.PaymentGatewayRepository,
	productRepo orderdata.ProductRepository,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		gatewayRepo:  gatewayRepo,
		productRepo:  productRepo,
		logger:       logger.Named("reconciler"),
	}
}

// ImportOrder reconciles one remote order into local state for the user.
func (r *Reconciler) ImportOrder(ctx context.Context, userID uuid.UUID, remote *woocommerce.Order) error {
	existing, err := r.orderRepo.FindByOrderID(ctx, userID, remote.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("lookup order %d: %w", remote.ID, err)
	}
	isNew := existing == nil

	customer, err := r.upsertCustomer(ctx, userID, remote, isNew)
	if err != nil {
		return fmt.Errorf("import customer for order %d: %w", remote.ID, err)
	}

	gateway, err := r.upsertGateway(ctx, userID, remote.PaymentMethod)
	if err != nil {
		return fmt.Errorf("import payment gateway for order %d: %w", remote.ID, err)
	}

	order := existing
	if order == nil {
		order = &orderdata.Order{
			BaseEntity: shared.NewBaseEntity(),
			UserID:     userID,
			OrderID:    remote.ID,
		}
	}
	order.Status = remote.Status
	order.Total = remote.Total.Decimal
	order.DateCreated = remote.DateCreated.Time
	order.DateModified = remote.DateModified.Time
	order.RefundAmount = remote.RefundTotal()
	order.CustomerID = nil
	if customer != nil {
		id := customer.ID
		order.CustomerID = &id
	}
	order.PaymentGatewayID = nil
	if gateway != nil {
		id := gateway.ID
		order.PaymentGatewayID = &id
	}

	if err := r.orderRepo.Save(ctx, order); err != nil {
		return fmt.Errorf("save order %d: %w", remote.ID, err)
	}

	children, err := r.buildChildren(ctx, order, customer, remote)
	if err != nil {
		return fmt.Errorf("build children for order %d: %w", remote.ID, err)
	}
	if err := r.orderRepo.ReplaceChildren(ctx, order.ID, children); err != nil {
		return fmt.Errorf("replace children for order %d: %w", remote.ID, err)
	}

	return nil
}

// upsertCustomer creates or updates the customer identified by the order's
// billing email. Orders without a billing email import with no customer
// link. Lifetime aggregates only move when the order is new locally, so
// re-importing a modified order does not double count it.
func (r *Reconciler) upsertCustomer(ctx context.Context, userID uuid.UUID, remote *woocommerce.Order, isNew bool) (*orderdata.Customer, error) {
	email := remote.Billing.Email
	if email == "" {
		r.logger.Warn("Order has no billing email, skipping customer import",
			zap.Int64("order_id", remote.ID),
		)
		return nil, nil
	}

	customer, err := r.customerRepo.FindByEmail(ctx, userID, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		customer = orderdata.NewCustomer(userID, email, remote.Billing.FirstName, remote.Billing.LastName, remote.Total.Decimal)
		if err := r.customerRepo.Save(ctx, customer); err != nil {
			return nil, err
		}
		return customer, nil
	}

	if isNew {
		customer.RecordOrder(remote.Billing.FirstName, remote.Billing.LastName, remote.Total.Decimal)
	} else {
		customer.UpdateName(remote.Billing.FirstName, remote.Billing.LastName)
	}
	if err := r.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// upsertGateway creates the payment gateway on first sight and counts the
// order against its usage total.
func (r *Reconciler) upsertGateway(ctx context.Context, userID uuid.UUID, gatewayID string) (*orderdata.PaymentGateway, error) {
	gateway, err := r.gatewayRepo.FindByGatewayID(ctx, userID, gatewayID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		gateway = orderdata.NewPaymentGateway(userID, gatewayID)
	}

	gateway.RecordUsage()
	if err := r.gatewayRepo.Save(ctx, gateway); err != nil {
		return nil, err
	}
	return gateway, nil
}

// buildChildren converts the remote order's collections into local child
// rows owned by the order.
func (r *Reconciler) buildChildren(ctx context.Context, order *orderdata.Order, customer *orderdata.Customer, remote *woocommerce.Order) (orderdata.OrderChildren, error) {
	var children orderdata.OrderChildren

	for _, item := range remote.LineItems {
		var productRef *uuid.UUID
		product, err := r.productRepo.FindByProductID(ctx, item.ProductID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return children, err
			}
		} else {
			id := product.ID
			productRef = &id
		}
		children.Items = append(children.Items, orderdata.OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			OrderRef:   order.ID,
			ProductID:  productRef,
			Quantity:   item.Quantity,
			Total:      item.Total.Decimal,
		})
	}

	var customerRef *uuid.UUID
	if customer != nil {
		id := customer.ID
		customerRef = &id
	}
	children.Addresses = append(children.Addresses,
		orderdata.Address{
			BaseEntity:  shared.NewBaseEntity(),
			OrderRef:    order.ID,
			CustomerID:  customerRef,
			AddressType: orderdata.AddressTypeBilling,
			Payload:     addressPayload(remote.Billing),
		},
		orderdata.Address{
			BaseEntity:  shared.NewBaseEntity(),
			OrderRef:    order.ID,
			CustomerID:  customerRef,
			AddressType: orderdata.AddressTypeShipping,
			Payload:     addressPayload(remote.Shipping),
		},
	)

	for _, line := range remote.ShippingLines {
		children.ShippingMethods = append(children.ShippingMethods, orderdata.ShippingMethod{
			BaseEntity:  shared.NewBaseEntity(),
			OrderRef:    order.ID,
			MethodID:    line.MethodID,
			MethodTitle: line.MethodTitle,
			Total:       line.Total.Decimal,
		})
	}

	for _, line := range remote.CouponLines {
		children.Coupons = append(children.Coupons, orderdata.Coupon{
			BaseEntity: shared.NewBaseEntity(),
			OrderRef:   order.ID,
			Code:       line.Code,
			Discount:   line.Discount.Decimal,
		})
	}

	for _, line := range remote.TaxLines {
		children.Taxes = append(children.Taxes, orderdata.Tax{
			BaseEntity: shared.NewBaseEntity(),
			OrderRef:   order.ID,
			Total:      line.Total.Decimal,
			TaxRate:    line.Rate.Decimal,
			TaxRegion:  line.Label,
		})
	}

	return children, nil
}

func addressPayload(block woocommerce.AddressBlock) string {
	if len(block.Raw) == 0 {
		return "{}"
	}
	return string(block.Raw)
}
