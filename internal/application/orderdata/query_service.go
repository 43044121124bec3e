package orderdata

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wcorders/backend/internal/domain/orderdata"
	"github.com/wcorders/backend/internal/domain/shared"
)

// DateRange is a relative window accepted by the order list endpoint.
type DateRange string

const (
	DateRangeDay   DateRange = "1d"
	DateRangeWeek  DateRange = "1w"
	DateRangeMonth DateRange = "1m"
	DateRangeYear  DateRange = "1y"
)

// CutoffFrom resolves the range into an absolute lower bound. Unknown
// values apply no bound.
func (r DateRange) CutoffFrom(now time.Time) *time.Time {
	var cutoff time.Time
	switch r {
	case DateRangeDay:
		cutoff = now.AddDate(0, 0, -1)
	case DateRangeWeek:
		cutoff = now.AddDate(0, 0, -7)
	case DateRangeMonth:
		cutoff = now.AddDate(0, 0, -30)
	case DateRangeYear:
		cutoff = now.AddDate(0, 0, -360)
	default:
		return nil
	}
	return &cutoff
}

// QueryService serves read access over a user's imported order data.
type QueryService struct {
	orderRepo    orderdata.OrderRepository
	customerRepo orderdata.CustomerRepository
	gatewayRepo  orderdata.PaymentGatewayRepository
	productRepo  orderdata.ProductRepository
	categoryRepo orderdata.CategoryRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(
	orderRepo orderdata.OrderRepository,
	customerRepo orderdata.CustomerRepository,
	gatewayRepo orderdata.PaymentGatewayRepository,
	productRepo orderdata.ProductRepository,
	categoryRepo orderdata.CategoryRepository,
) *QueryService {
	return &QueryService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		gatewayRepo:  gatewayRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ListOrders lists a user's orders, optionally restricted to a relative
// date range over the order creation date.
func (s *QueryService) ListOrders(ctx context.Context, userID uuid.UUID, filter shared.Filter, dateRange DateRange) (shared.Paginated[orderdata.Order], error) {
	listFilter := orderdata.OrderListFilter{
		Filter:       filter,
		CreatedAfter: dateRange.CutoffFrom(time.Now().UTC()),
	}

	orders, err := s.orderRepo.FindAllForUser(ctx, userID, listFilter)
	if err != nil {
		return shared.Paginated[orderdata.Order]{}, err
	}
	total, err := s.orderRepo.CountForUser(ctx, userID, listFilter)
	if err != nil {
		return shared.Paginated[orderdata.Order]{}, err
	}
	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// GetOrder returns one of the user's orders by its remote order id.
func (s *QueryService) GetOrder(ctx context.Context, userID uuid.UUID, orderID int64) (*orderdata.Order, error) {
	return s.orderRepo.FindByOrderID(ctx, userID, orderID)
}

// ListCustomers lists a user's customers.
func (s *QueryService) ListCustomers(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[orderdata.Customer], error) {
	customers, err := s.customerRepo.FindAllForUser(ctx, userID, filter)
	if err != nil {
		return shared.Paginated[orderdata.Customer]{}, err
	}
	total, err := s.customerRepo.CountForUser(ctx, userID)
	if err != nil {
		return shared.Paginated[orderdata.Customer]{}, err
	}
	return shared.NewPaginated(customers, total, filter.Page, filter.PageSize), nil
}

// ListPaymentGateways lists a user's payment gateways.
func (s *QueryService) ListPaymentGateways(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[orderdata.PaymentGateway], error) {
	gateways, err := s.gatewayRepo.FindAllForUser(ctx, userID, filter)
	if err != nil {
		return shared.Paginated[orderdata.PaymentGateway]{}, err
	}
	total, err := s.gatewayRepo.CountForUser(ctx, userID)
	if err != nil {
		return shared.Paginated[orderdata.PaymentGateway]{}, err
	}
	return shared.NewPaginated(gateways, total, filter.Page, filter.PageSize), nil
}

// ListProducts lists catalog products.
func (s *QueryService) ListProducts(ctx context.Context, filter shared.Filter) (shared.Paginated[orderdata.Product], error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[orderdata.Product]{}, err
	}
	total, err := s.productRepo.Count(ctx)
	if err != nil {
		return shared.Paginated[orderdata.Product]{}, err
	}
	return shared.NewPaginated(products, total, filter.Page, filter.PageSize), nil
}

// GetProduct returns a catalog product by its remote product id.
func (s *QueryService) GetProduct(ctx context.Context, productID int64) (*orderdata.Product, error) {
	return s.productRepo.FindByProductID(ctx, productID)
}

// ListCategories lists product categories.
func (s *QueryService) ListCategories(ctx context.Context, filter shared.Filter) (shared.Paginated[orderdata.Category], error) {
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[orderdata.Category]{}, err
	}
	total, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return shared.Paginated[orderdata.Category]{}, err
	}
	return shared.NewPaginated(categories, total, filter.Page, filter.PageSize), nil
}

// ListOrderItems lists line items across a user's orders.
func (s *QueryService) ListOrderItems(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.OrderItem, error) {
	return s.orderRepo.ListItems(ctx, userID, filter)
}

// ListAddresses lists address rows across a user's orders.
func (s *QueryService) ListAddresses(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.Address, error) {
	return s.orderRepo.ListAddresses(ctx, userID, filter)
}

// ListShippingMethods lists shipping lines across a user's orders.
func (s *QueryService) ListShippingMethods(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.ShippingMethod, error) {
	return s.orderRepo.ListShippingMethods(ctx, userID, filter)
}

// ListCoupons lists coupon lines across a user's orders.
func (s *QueryService) ListCoupons(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.Coupon, error) {
	return s.orderRepo.ListCoupons(ctx, userID, filter)
}

// ListTaxes lists tax lines across a user's orders.
func (s *QueryService) ListTaxes(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.Tax, error) {
	return s.orderRepo.ListTaxes(ctx, userID, filter)
}
