package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	identityapp "github.com/wcorders/backend/internal/application/identity"
	orderdataapp "github.com/wcorders/backend/internal/application/orderdata"
	syncapp "github.com/wcorders/backend/internal/application/syncing"
	"github.com/wcorders/backend/internal/domain/orderdata"
	"github.com/wcorders/backend/internal/domain/shared"
	"github.com/wcorders/backend/internal/domain/syncing"
	"github.com/wcorders/backend/internal/infrastructure/auth"
	"github.com/wcorders/backend/internal/infrastructure/config"
	"github.com/wcorders/backend/internal/infrastructure/persistence"
	"github.com/wcorders/backend/internal/infrastructure/scheduler"
	"github.com/wcorders/backend/internal/interfaces/http/handler"
	"github.com/wcorders/backend/internal/interfaces/http/router"
)

type testRunner struct{}

func (r *testRunner) Run(ctx context.Context, userID uuid.UUID) (*syncing.RunSummary, error) {
	summary := syncing.NewRunSummary(userID)
	summary.Finish(syncing.RunStateSucceeded)
	return summary, nil
}

type testStack struct {
	engine *gin.Engine
	db     *gorm.DB
	sched  *scheduler.SyncScheduler
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(db))

	logger := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-that-is-long-enough-0001",
		AccessTokenExpiration: time.Hour,
		Issuer:                "test",
	})

	userRepo := persistence.NewGormUserRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	gatewayRepo := persistence.NewGormPaymentGatewayRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	credentialsRepo := persistence.NewGormCredentialsRepository(db)
	watermarkRepo := persistence.NewGormWatermarkRepository(db)

	authService := identityapp.NewAuthService(userRepo, jwtService, logger)
	queryService := orderdataapp.NewQueryService(orderRepo, customerRepo, gatewayRepo, productRepo, categoryRepo)
	purgeService := orderdataapp.NewPurgeService(orderRepo, customerRepo, gatewayRepo, watermarkRepo, logger)
	credentialsService := syncapp.NewCredentialsService(credentialsRepo, logger)

	schedCfg := scheduler.DefaultSyncSchedulerConfig()
	schedCfg.Interval = time.Hour
	sched, err := scheduler.NewSyncScheduler(schedCfg, &testRunner{}, credentialsRepo, logger)
	require.NoError(t, err)
	require.NoError(t, sched.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sched.Stop(ctx)
	})

	engine := router.New(router.Config{
		Logger:     logger,
		JWTService: jwtService,
		System:     handler.NewSystemHandler(nil, "test"),
		Auth:       handler.NewAuthHandler(authService),
		Store:      handler.NewStoreHandler(credentialsService),
		Sync:       handler.NewSyncHandler(sched, watermarkRepo),
		Orders:     handler.NewOrderHandler(queryService, purgeService),
		Customers:  handler.NewCustomerHandler(queryService),
		Catalog:    handler.NewCatalogHandler(queryService),
	})

	return &testStack{engine: engine, db: db, sched: sched}
}

func (s *testStack) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

// register creates an account and returns its token and user ID
func (s *testStack) register(t *testing.T, email string) (string, uuid.UUID) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":      email,
		"password":   "sup3r-secret-pw",
		"first_name": "Test",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	userID, err := uuid.Parse(data["user_id"].(string))
	require.NoError(t, err)
	return token, userID
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, orderID int64, total string, created time.Time) {
	t.Helper()
	repo := persistence.NewGormOrderRepository(db)
	order := &orderdata.Order{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		OrderID:      orderID,
		Status:       "completed",
		Total:        decimal.RequireFromString(total),
		DateCreated:  created,
		DateModified: created,
	}
	require.NoError(t, repo.Save(context.Background(), order))
}

func TestHealthEndpoint(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRegisterAndLogin(t *testing.T) {
	stack := newTestStack(t)

	token, _ := stack.register(t, "owner@example.com")
	assert.NotEmpty(t, token)

	// Duplicate registration is rejected.
	rec := stack.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "owner@example.com",
		"password": "sup3r-secret-pw",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = stack.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "owner@example.com",
		"password": "sup3r-secret-pw",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = stack.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "owner@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	stack := newTestStack(t)

	for _, path := range []string{
		"/api/v1/orders",
		"/api/v1/customers",
		"/api/v1/store/credentials",
		"/api/v1/sync/runs",
	} {
		rec := stack.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestStoreCredentialsRoundTrip(t *testing.T) {
	stack := newTestStack(t)
	token, _ := stack.register(t, "store@example.com")

	// No credentials yet.
	rec := stack.do(t, http.MethodGet, "/api/v1/store/credentials", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = stack.do(t, http.MethodPut, "/api/v1/store/credentials", token, map[string]string{
		"store_url":       "https://shop.example.com/",
		"consumer_key":    "ck_test_key",
		"consumer_secret": "cs_test_secret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	assert.Equal(t, "https://shop.example.com", data["store_url"])
	secret, _ := data["consumer_secret"].(string)
	assert.NotEqual(t, "cs_test_secret", secret)
	assert.Contains(t, secret, "cret")

	rec = stack.do(t, http.MethodGet, "/api/v1/store/credentials", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListOrdersWithDateRange(t *testing.T) {
	stack := newTestStack(t)
	token, userID := stack.register(t, "orders@example.com")

	now := time.Now().UTC()
	seedOrder(t, stack.db, userID, 1001, "50.00", now.AddDate(0, 0, -2))
	seedOrder(t, stack.db, userID, 1002, "75.00", now.AddDate(0, 0, -40))

	rec := stack.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []map[string]any `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.EqualValues(t, 2, envelope.Meta.Total)

	rec = stack.do(t, http.MethodGet, "/api/v1/orders?date_range=1w", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.EqualValues(t, 1, envelope.Meta.Total)

	rec = stack.do(t, http.MethodGet, "/api/v1/orders?date_range=2x", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderScopedToUser(t *testing.T) {
	stack := newTestStack(t)
	token, userID := stack.register(t, "mine@example.com")
	otherToken, _ := stack.register(t, "other@example.com")

	seedOrder(t, stack.db, userID, 2001, "10.00", time.Now().UTC())

	rec := stack.do(t, http.MethodGet, "/api/v1/orders/2001", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = stack.do(t, http.MethodGet, "/api/v1/orders/2001", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = stack.do(t, http.MethodGet, "/api/v1/orders/nonsense", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurgeOrders(t *testing.T) {
	stack := newTestStack(t)
	token, userID := stack.register(t, "purge@example.com")

	seedOrder(t, stack.db, userID, 3001, "20.00", time.Now().UTC())

	rec := stack.do(t, http.MethodDelete, "/api/v1/orders", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = stack.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.EqualValues(t, 0, envelope.Meta.Total)
}

func TestTriggerSyncRun(t *testing.T) {
	stack := newTestStack(t)
	token, _ := stack.register(t, "sync@example.com")

	rec := stack.do(t, http.MethodPost, "/api/v1/sync/runs", token, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	assert.NotEmpty(t, data["job_id"])

	// History eventually shows the completed run.
	deadline := time.Now().Add(3 * time.Second)
	for {
		rec = stack.do(t, http.MethodGet, "/api/v1/sync/runs", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var envelope struct {
			Data []map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		if len(envelope.Data) > 0 {
			assert.Equal(t, string(syncing.RunStateSucceeded), envelope.Data[0]["state"])
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run summary never appeared in history")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatermarkEndpoint(t *testing.T) {
	stack := newTestStack(t)
	token, _ := stack.register(t, "wm@example.com")

	rec := stack.do(t, http.MethodGet, "/api/v1/sync/watermark", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	lastSync, err := time.Parse(time.RFC3339, fmt.Sprint(data["last_sync_time"]))
	require.NoError(t, err)
	assert.True(t, lastSync.Equal(time.Unix(0, 0)))
}
