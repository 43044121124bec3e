package syncing

import (
	"context"
	"encoding/json"
	"errors"
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
	domainsync "github.com/wcorders/backend/internal/domain/syncing"
	"github.com/wcorders/backend/internal/infrastructure/persistence"
	"github.com/wcorders/backend/internal/infrastructure/woocommerce"
)

// fakeOrderSource serves canned order pages without a network.
type fakeOrderSource struct {
	probeErr   error
	pages      [][]woocommerce.Order
	probeCalls int
	fetchCalls []woocommerce.FetchOptions
}

func (f *fakeOrderSource) Probe(ctx context.Context, creds *domainsync.Credentials) error {
	f.probeCalls++
	return f.probeErr
}

func (f *fakeOrderSource) FetchOrders(ctx context.Context, creds *domainsync.Credentials, opts woocommerce.FetchOptions) []woocommerce.Order {
	f.fetchCalls = append(f.fetchCalls, opts)
	if opts.Page-1 < len(f.pages) {
		return f.pages[opts.Page-1]
	}
	return nil
}

var _ woocommerce.OrderSource = (*fakeOrderSource)(nil)

type testEnv struct {
	db           *gorm.DB
	orderRepo    orderdata.OrderRepository
	customerRepo orderdata.CustomerRepository
	gatewayRepo  orderdata.PaymentGatewayRepository
	productRepo  orderdata.ProductRepository
	credsRepo    domainsync.CredentialsRepository
	wmRepo       domainsync.WatermarkRepository
	reconciler   *Reconciler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(db))

	env := &testEnv{
		db:           db,
		orderRepo:    persistence.NewGormOrderRepository(db),
		customerRepo: persistence.NewGormCustomerRepository(db),
		gatewayRepo:  persistence.NewGormPaymentGatewayRepository(db),
		productRepo:  persistence.NewGormProductRepository(db),
		credsRepo:    persistence.NewGormCredentialsRepository(db),
		wmRepo:       persistence.NewGormWatermarkRepository(db),
	}
	env.reconciler = NewReconciler(env.orderRepo, env.customerRepo, env.gatewayRepo, env.productRepo, zap.NewNop())
	return env
}

func (e *testEnv) orchestrator(source woocommerce.OrderSource, maxPages int) *Orchestrator {
	return NewOrchestrator(source, e.credsRepo, e.wmRepo, e.reconciler, 100, maxPages, zap.NewNop())
}

func wcAmount(s string) woocommerce.Amount {
	return woocommerce.Amount{Decimal: decimal.RequireFromString(s)}
}

func wcTime(t time.Time) woocommerce.WCTime {
	return woocommerce.WCTime{Time: t}
}

func billingBlock(email, first, last string) woocommerce.AddressBlock {
	raw, _ := json.Marshal(map[string]string{
		"first_name": first,
		"last_name":  last,
		"email":      email,
		"city":       "London",
	})
	return woocommerce.AddressBlock{FirstName: first, LastName: last, Email: email, Raw: raw}
}

func remoteOrder(id int64, total string, modified time.Time, email string) woocommerce.Order {
	return woocommerce.Order{
		ID:            id,
		Status:        "completed",
		Total:         wcAmount(total),
		DateCreated:   wcTime(modified.Add(-time.Hour)),
		DateModified:  wcTime(modified),
		PaymentMethod: "stripe",
		Billing:       billingBlock(email, "Ada", "Lovelace"),
		LineItems: []woocommerce.LineItem{
			{ProductID: 42, Quantity: 2, Total: wcAmount(total)},
		},
		ShippingLines: []woocommerce.ShippingLine{
			{MethodID: "flat_rate", MethodTitle: "Flat rate", Total: wcAmount("5.00")},
		},
		CouponLines: []woocommerce.CouponLine{
			{Code: "SPRING", Discount: wcAmount("10.00")},
		},
		TaxLines: []woocommerce.TaxLine{
			{Label: "VAT", Total: wcAmount("16.65"), Rate: wcAmount("20")},
		},
	}
}

func TestReconciler_ImportOrder_CreatesFullGraph(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	remote := remoteOrder(814, "100.00", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), "ada@example.com")
	require.NoError(t, env.reconciler.ImportOrder(ctx, userID, &remote))

	order, err := env.orderRepo.FindByOrderID(ctx, userID, 814)
	require.NoError(t, err)
	assert.Equal(t, "completed", order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, order.RefundAmount.IsZero())
	require.NotNil(t, order.CustomerID)
	require.NotNil(t, order.PaymentGatewayID)

	customer, err := env.customerRepo.FindByEmail(ctx, userID, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", customer.FirstName)
	assert.Equal(t, 1, customer.OrdersCount)
	assert.True(t, customer.TotalSpent.Equal(decimal.RequireFromString("100.00")))

	gateway, err := env.gatewayRepo.FindByGatewayID(ctx, userID, "stripe")
	require.NoError(t, err)
	assert.True(t, gateway.TotalCost.Equal(decimal.NewFromInt(1)))

	items, err := env.orderRepo.ListItems(ctx, userID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Nil(t, items[0].ProductID)

	addresses, err := env.orderRepo.ListAddresses(ctx, userID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	for _, addr := range addresses {
		assert.NotNil(t, addr.CustomerID)
	}

	taxes, err := env.orderRepo.ListTaxes(ctx, userID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, taxes, 1)
	assert.Equal(t, "VAT", taxes[0].TaxRegion)
	assert.True(t, taxes[0].TaxRate.Equal(decimal.RequireFromString("20")))
}

func TestReconciler_ImportOrder_ReimportDoesNotDoubleCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	remote := remoteOrder(7, "100.00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "ada@example.com")
	require.NoError(t, env.reconciler.ImportOrder(ctx, userID, &remote))

	// The same order comes back modified on a later run.
	remote.Status = "refunded"
	remote.Refunds = []woocommerce.Refund{{ID: 1, Amount: wcAmount("100.00")}}
	remote.Billing = billingBlock("ada@example.com", "Ada", "King")
	require.NoError(t, env.reconciler.ImportOrder(ctx, userID, &remote))

	customer, err := env.customerRepo.FindByEmail(ctx, userID, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, customer.OrdersCount)
	assert.True(t, customer.TotalSpent.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "King", customer.LastName)

	order, err := env.orderRepo.FindByOrderID(ctx, userID, 7)
	require.NoError(t, err)
	assert.Equal(t, "refunded", order.Status)
	assert.True(t, order.RefundAmount.Equal(decimal.RequireFromString("100.00")))

	// Children were replaced, not appended.
	items, err := env.orderRepo.ListItems(ctx, userID, shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestReconciler_ImportOrder_AccumulatesAcrossOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	first := remoteOrder(1, "100.00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "ada@example.com")
	second := remoteOrder(2, "50.00", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "ada@example.com")
	require.NoError(t, env.reconciler.ImportOrder(ctx, userID, &first))
	require.NoError(t, env.reconciler.ImportOrder(ctx, userID, &second))

	customer, err := env.customerRepo.FindByEmail(ctx, userID, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, customer.OrdersCount)
	assert.True(t, customer.TotalSpent.Equal(decimal.RequireFromString("150.00")))

	gateway, err := env.gatewayRepo.FindByGatewayID(ctx, userID, "stripe")
	require.NoError(t, err)
	assert.True(t, gateway.TotalCost.Equal(decimal.NewFromInt(2)))
}

func TestReconciler_ImportOrder_MixedCaseEmailMatchesExisting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	first := remoteOrder(1, "100.00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Ada@Example.com")
	second := remoteOrder(2, "50.00", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "ada@EXAMPLE.com")
	require.NoError(t, env.reconciler.ImportOrder(ctx, userID, &first))
	require.NoError(t, env.reconciler.ImportOrder(ctx, userID, &second))

	// Both casings resolve to one customer row.
	count, err := env.customerRepo.CountForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	customer, err := env.customerRepo.FindByEmail(ctx, userID, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", customer.Email)
	assert.Equal(t, 2, customer.OrdersCount)
	assert.True(t, customer.TotalSpent.Equal(decimal.RequireFromString("150.00")))
}

func TestReconciler_ImportOrder_MissingBillingEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	remote := remoteOrder(3, "30.00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, env.reconciler.ImportOrder(ctx, userID, &remote))

	order, err := env.orderRepo.FindByOrderID(ctx, userID, 3)
	require.NoError(t, err)
	assert.Nil(t, order.CustomerID)

	count, err := env.customerRepo.CountForUser(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	addresses, err := env.orderRepo.ListAddresses(ctx, userID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	for _, addr := range addresses {
		assert.Nil(t, addr.CustomerID)
	}
}

func TestReconciler_ImportOrder_LinksKnownProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	product := &orderdata.Product{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  42,
		Name:       "Widget",
		Price:      decimal.RequireFromString("50.00"),
	}
	require.NoError(t, env.productRepo.Save(ctx, product))

	remote := remoteOrder(4, "100.00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "ada@example.com")
	require.NoError(t, env.reconciler.ImportOrder(ctx, userID, &remote))

	items, err := env.orderRepo.ListItems(ctx, userID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ProductID)
	assert.Equal(t, product.ID, *items[0].ProductID)
}

func TestOrchestrator_Run_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, env.credsRepo.Save(ctx, domainsync.NewCredentials(userID, "https://shop.example.com", "ck", "cs")))

	modified := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	source := &fakeOrderSource{
		pages: [][]woocommerce.Order{
			{
				remoteOrder(1, "10.00", modified, "a@example.com"),
				remoteOrder(2, "20.00", modified.Add(time.Minute), "b@example.com"),
			},
		},
	}

	before := time.Now().UTC()
	summary, err := env.orchestrator(source, 10).Run(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, domainsync.RunStateSucceeded, summary.State)
	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 2, summary.Imported)
	assert.Zero(t, summary.Failed)
	assert.False(t, summary.Truncated)
	assert.Equal(t, 1, source.probeCalls)

	// Empty second page stopped pagination.
	require.Len(t, source.fetchCalls, 2)
	assert.Equal(t, time.Unix(0, 0).UTC(), source.fetchCalls[0].ModifiedAfter.UTC())

	// A complete run advances the watermark to the run start, not to the
	// newest fetched modification.
	watermark, err := env.wmRepo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.False(t, watermark.LastSyncTime.Before(before))
}

func TestOrchestrator_Run_TruncatedAdvancesToMaxModified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, env.credsRepo.Save(ctx, domainsync.NewCredentials(userID, "https://shop.example.com", "ck", "cs")))

	newest := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeOrderSource{
		pages: [][]woocommerce.Order{
			{remoteOrder(1, "10.00", newest.Add(-time.Hour), "a@example.com")},
			{remoteOrder(2, "20.00", newest, "b@example.com")},
		},
	}

	summary, err := env.orchestrator(source, 2).Run(ctx, userID)
	require.NoError(t, err)

	assert.True(t, summary.Truncated)
	assert.Equal(t, 2, summary.Imported)

	watermark, err := env.wmRepo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.True(t, watermark.LastSyncTime.UTC().Equal(newest))
}

// flakyOrderRepo fails Save for one remote order id and delegates the rest.
type flakyOrderRepo struct {
	orderdata.OrderRepository
	failOrderID int64
}

func (f *flakyOrderRepo) Save(ctx context.Context, order *orderdata.Order) error {
	if order.OrderID == f.failOrderID {
		return errors.New("storage offline")
	}
	return f.OrderRepository.Save(ctx, order)
}

func TestOrchestrator_Run_FailedOrderDoesNotAbortRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, env.credsRepo.Save(ctx, domainsync.NewCredentials(userID, "https://shop.example.com", "ck", "cs")))

	flaky := &flakyOrderRepo{OrderRepository: env.orderRepo, failOrderID: 2}
	reconciler := NewReconciler(flaky, env.customerRepo, env.gatewayRepo, env.productRepo, zap.NewNop())

	modified := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	source := &fakeOrderSource{
		pages: [][]woocommerce.Order{
			{
				remoteOrder(1, "10.00", modified, "a@example.com"),
				remoteOrder(2, "20.00", modified.Add(time.Minute), "b@example.com"),
				remoteOrder(3, "30.00", modified.Add(2*time.Minute), "c@example.com"),
			},
		},
	}

	orch := NewOrchestrator(source, env.credsRepo, env.wmRepo, reconciler, 100, 10, zap.NewNop())
	summary, err := orch.Run(ctx, userID)
	require.NoError(t, err)

	// The failing order is counted; the run and the other imports continue.
	assert.Equal(t, domainsync.RunStateSucceeded, summary.State)
	assert.Equal(t, 3, summary.Fetched)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.FirstError, "storage offline")

	_, err = env.orderRepo.FindByOrderID(ctx, userID, 1)
	require.NoError(t, err)
	_, err = env.orderRepo.FindByOrderID(ctx, userID, 3)
	require.NoError(t, err)
	_, err = env.orderRepo.FindByOrderID(ctx, userID, 2)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Pagination completed, so the watermark still advances.
	watermark, err := env.wmRepo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.True(t, watermark.LastSyncTime.After(time.Unix(0, 0)))
}

func TestOrchestrator_Run_EmptyFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, env.credsRepo.Save(ctx, domainsync.NewCredentials(userID, "https://shop.example.com", "ck", "cs")))

	source := &fakeOrderSource{}
	summary, err := env.orchestrator(source, 10).Run(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, domainsync.RunStateSucceeded, summary.State)
	assert.Zero(t, summary.Fetched)

	// The watermark still advances so quiet stores do not rescan history.
	watermark, err := env.wmRepo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.True(t, watermark.LastSyncTime.After(time.Unix(0, 0)))
}

func TestOrchestrator_Run_ProbeFailureLeavesWatermark(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, env.credsRepo.Save(ctx, domainsync.NewCredentials(userID, "https://shop.example.com", "ck", "cs")))

	source := &fakeOrderSource{probeErr: domainsync.ErrConnectivity}
	summary, err := env.orchestrator(source, 10).Run(ctx, userID)

	assert.ErrorIs(t, err, domainsync.ErrConnectivity)
	assert.Equal(t, domainsync.RunStateFailed, summary.State)
	assert.Empty(t, source.fetchCalls)

	watermark, err := env.wmRepo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.True(t, watermark.LastSyncTime.UTC().Equal(time.Unix(0, 0).UTC()))
}

func TestOrchestrator_Run_NoCredentials(t *testing.T) {
	env := newTestEnv(t)
	source := &fakeOrderSource{}

	summary, err := env.orchestrator(source, 10).Run(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domainsync.ErrNoCredentials)
	assert.Equal(t, domainsync.RunStateFailed, summary.State)
	assert.Zero(t, source.probeCalls)
}
