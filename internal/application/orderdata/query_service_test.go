package orderdata

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wcorders/backend/internal/domain/orderdata"
	"github.com/wcorders/backend/internal/domain/shared"
	"github.com/wcorders/backend/internal/infrastructure/persistence"
)

type serviceEnv struct {
	orderRepo    orderdata.OrderRepository
	customerRepo orderdata.CustomerRepository
	gatewayRepo  orderdata.PaymentGatewayRepository
	query        *QueryService
	purge        *PurgeService
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(db))

	orderRepo := persistence.NewGormOrderRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	gatewayRepo := persistence.NewGormPaymentGatewayRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	watermarkRepo := persistence.NewGormWatermarkRepository(db)

	return &serviceEnv{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		gatewayRepo:  gatewayRepo,
		query:        NewQueryService(orderRepo, customerRepo, gatewayRepo, productRepo, categoryRepo),
		purge:        NewPurgeService(orderRepo, customerRepo, gatewayRepo, watermarkRepo, zap.NewNop()),
	}
}

func storedOrder(userID uuid.UUID, orderID int64, created time.Time) *orderdata.Order {
	return &orderdata.Order{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		OrderID:      orderID,
		Status:       "completed",
		Total:        decimal.RequireFromString("10.00"),
		DateCreated:  created,
		DateModified: created,
		RefundAmount: decimal.Zero,
	}
}

func TestDateRange_CutoffFrom(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		r     DateRange
		want  time.Time
		bound bool
	}{
		{"one day", DateRangeDay, now.AddDate(0, 0, -1), true},
		{"one week", DateRangeWeek, now.AddDate(0, 0, -7), true},
		{"one month is thirty days", DateRangeMonth, now.AddDate(0, 0, -30), true},
		{"one year is 360 days", DateRangeYear, now.AddDate(0, 0, -360), true},
		{"empty applies no bound", DateRange(""), time.Time{}, false},
		{"unknown applies no bound", DateRange("2y"), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cutoff := tt.r.CutoffFrom(now)
			if !tt.bound {
				assert.Nil(t, cutoff)
				return
			}
			require.NotNil(t, cutoff)
			assert.True(t, cutoff.Equal(tt.want))
		})
	}
}

func TestQueryService_ListOrders(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	old := storedOrder(userID, 1, time.Now().UTC().AddDate(-1, 0, 0))
	recent := storedOrder(userID, 2, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, env.orderRepo.Save(ctx, old))
	require.NoError(t, env.orderRepo.Save(ctx, recent))

	t.Run("no range lists everything", func(t *testing.T) {
		page, err := env.query.ListOrders(ctx, userID, shared.DefaultFilter(), "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		assert.Len(t, page.Items, 2)
	})

	t.Run("week range drops older orders", func(t *testing.T) {
		page, err := env.query.ListOrders(ctx, userID, shared.DefaultFilter(), DateRangeWeek)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(2), page.Items[0].OrderID)
	})

	t.Run("scoped to user", func(t *testing.T) {
		page, err := env.query.ListOrders(ctx, uuid.New(), shared.DefaultFilter(), "")
		require.NoError(t, err)
		assert.Zero(t, page.Total)
	})
}

func TestQueryService_GetOrder(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	order := storedOrder(userID, 814, time.Now().UTC())
	require.NoError(t, env.orderRepo.Save(ctx, order))

	found, err := env.query.GetOrder(ctx, userID, 814)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = env.query.GetOrder(ctx, userID, 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurgeService_PurgeUser(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	otherUser := uuid.New()

	order := storedOrder(userID, 1, time.Now().UTC())
	require.NoError(t, env.orderRepo.Save(ctx, order))
	require.NoError(t, env.orderRepo.ReplaceChildren(ctx, order.ID, orderdata.OrderChildren{
		Items: []orderdata.OrderItem{{BaseEntity: shared.NewBaseEntity(), OrderRef: order.ID, Quantity: 1, Total: decimal.RequireFromString("10.00")}},
	}))
	require.NoError(t, env.customerRepo.Save(ctx, orderdata.NewCustomer(userID, "ada@example.com", "Ada", "", decimal.RequireFromString("10.00"))))
	require.NoError(t, env.gatewayRepo.Save(ctx, orderdata.NewPaymentGateway(userID, "stripe")))

	require.NoError(t, env.orderRepo.Save(ctx, storedOrder(otherUser, 2, time.Now().UTC())))

	require.NoError(t, env.purge.PurgeUser(ctx, userID))

	orders, err := env.query.ListOrders(ctx, userID, shared.DefaultFilter(), "")
	require.NoError(t, err)
	assert.Zero(t, orders.Total)

	customers, err := env.query.ListCustomers(ctx, userID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, customers.Total)

	gateways, err := env.query.ListPaymentGateways(ctx, userID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, gateways.Total)

	items, err := env.query.ListOrderItems(ctx, userID, shared.Filter{})
	require.NoError(t, err)
	assert.Empty(t, items)

	// Other users keep their data.
	others, err := env.query.ListOrders(ctx, otherUser, shared.DefaultFilter(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), others.Total)
}
