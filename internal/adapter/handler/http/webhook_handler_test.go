package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	handlers "github.com/bananaviral/bananaviral-backend/internal/adapter/handler/http"
	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
	"github.com/bananaviral/bananaviral-backend/internal/lemonsqueezy"
	"github.com/bananaviral/bananaviral-backend/internal/usecase"
)

const webhookSecret = "wh-test-secret"

// MockProfileRepository is a spy store for asserting write behavior
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, email string) (*model.Profile, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateEntitlement(ctx context.Context, userID uuid.UUID, plan model.PlanType, credits int) error {
	args := m.Called(ctx, userID, plan, credits)
	return args.Error(0)
}

func (m *MockProfileRepository) Downgrade(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockProfileRepository) DeductCredits(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	args := m.Called(ctx, userID, amount)
	return args.Int(0), args.Error(1)
}

// MockWebhookEventRepository is a mock audit store
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) Record(ctx context.Context, event *model.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) ListRecent(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookEvent), args.Error(1)
}

func newWebhookServer(profiles *MockProfileRepository, events *MockWebhookEventRepository) *echo.Echo {
	logger := zap.NewNop()
	entitlements := usecase.NewEntitlementService(profiles, usecase.VariantMapping{
		StarterVariantID: "var_starter",
		CreatorVariantID: "var_creator",
	}, logger)
	handler := handlers.NewWebhookHandler(logger, webhookSecret, entitlements, events)

	e := echo.New()
	e.POST("/webhook", handler.HandleWebhook)
	return e
}

func signedRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(lemonsqueezy.SignatureHeader, lemonsqueezy.Sign(webhookSecret, []byte(body)))
	return req
}

func assertNoWrites(t *testing.T, profiles *MockProfileRepository) {
	t.Helper()
	profiles.AssertNotCalled(t, "UpdateEntitlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	profiles.AssertNotCalled(t, "Downgrade", mock.Anything, mock.Anything)
}

func TestWebhookHandler_CreationEvent(t *testing.T) {
	userID := uuid.New()
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	profiles.On("UpdateEntitlement", mock.Anything, userID, model.PlanStarter, 50).Return(nil)
	events.On("Record", mock.Anything, mock.Anything).Return(nil)

	body := `{"meta":{"event_name":"order_created","custom_data":{"user_id":"` + userID.String() + `"}},"data":{"id":"ord_1","attributes":{"variant_id":"var_starter"}}}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, signedRequest(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
	profiles.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestWebhookHandler_CancellationEvent(t *testing.T) {
	userID := uuid.New()
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	profiles.On("Downgrade", mock.Anything, userID).Return(nil)
	events.On("Record", mock.Anything, mock.Anything).Return(nil)

	body := `{"meta":{"event_name":"subscription_cancelled","custom_data":{"user_id":"` + userID.String() + `"}},"data":{"id":"sub_9","attributes":{}}}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, signedRequest(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	profiles.AssertExpectations(t)
	profiles.AssertNotCalled(t, "UpdateEntitlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookHandler_UnknownVariantGrantsAgency(t *testing.T) {
	userID := uuid.New()
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	profiles.On("UpdateEntitlement", mock.Anything, userID, model.PlanAgency, 400).Return(nil)
	events.On("Record", mock.Anything, mock.Anything).Return(nil)

	body := `{"meta":{"event_name":"subscription_created","custom_data":{"user_id":"` + userID.String() + `"}},"data":{"id":"sub_2","attributes":{"variant_id":999999}}}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, signedRequest(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	profiles.AssertExpectations(t)
}

func TestWebhookHandler_TamperedBody(t *testing.T) {
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	original := `{"meta":{"event_name":"order_created","custom_data":{"user_id":"` + uuid.NewString() + `"}},"data":{"attributes":{"variant_id":"var_starter"}}}`
	tampered := strings.Replace(original, "var_starter", "var_creator", 1)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(tampered))
	req.Header.Set(lemonsqueezy.SignatureHeader, lemonsqueezy.Sign(webhookSecret, []byte(original)))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assertNoWrites(t, profiles)
	events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestWebhookHandler_MissingSignature(t *testing.T) {
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"meta":{"event_name":"order_created"}}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assertNoWrites(t, profiles)
}

func TestWebhookHandler_MalformedHexSignature(t *testing.T) {
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"meta":{"event_name":"order_created"}}`))
	req.Header.Set(lemonsqueezy.SignatureHeader, "zzzz-not-hex")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assertNoWrites(t, profiles)
}

func TestWebhookHandler_MethodNotAllowed(t *testing.T) {
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assertNoWrites(t, profiles)
}

func TestWebhookHandler_MalformedPayload(t *testing.T) {
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, signedRequest(t, `{"meta": not-json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertNoWrites(t, profiles)
}

func TestWebhookHandler_UnknownEventIsNoOp(t *testing.T) {
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	events.On("Record", mock.Anything, mock.Anything).Return(nil)

	body := `{"meta":{"event_name":"subscription_paused","custom_data":{"user_id":"` + uuid.NewString() + `"}},"data":{}}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, signedRequest(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
	assertNoWrites(t, profiles)
}

func TestWebhookHandler_MissingUserIDIsNoOp(t *testing.T) {
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	events.On("Record", mock.Anything, mock.Anything).Return(nil)

	body := `{"meta":{"event_name":"subscription_created"},"data":{"attributes":{"variant_id":"var_starter"}}}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, signedRequest(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assertNoWrites(t, profiles)
}

func TestWebhookHandler_StoreFailure(t *testing.T) {
	userID := uuid.New()
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	profiles.On("UpdateEntitlement", mock.Anything, userID, model.PlanCreator, 100).
		Return(errors.New("connection refused"))
	events.On("Record", mock.Anything, mock.MatchedBy(func(ev *model.WebhookEvent) bool {
		return ev.Status == model.WebhookStatusFailed
	})).Return(nil)

	body := `{"meta":{"event_name":"subscription_created","custom_data":{"user_id":"` + userID.String() + `"}},"data":{"attributes":{"variant_id":"var_creator"}}}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, signedRequest(t, body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	profiles.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestWebhookHandler_AuditFailureDoesNotChangeResponse(t *testing.T) {
	userID := uuid.New()
	profiles := new(MockProfileRepository)
	events := new(MockWebhookEventRepository)
	e := newWebhookServer(profiles, events)

	profiles.On("UpdateEntitlement", mock.Anything, userID, model.PlanStarter, 50).Return(nil)
	events.On("Record", mock.Anything, mock.Anything).Return(errors.New("audit table missing"))

	body := `{"meta":{"event_name":"order_created","custom_data":{"user_id":"` + userID.String() + `"}},"data":{"attributes":{"variant_id":"var_starter"}}}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, signedRequest(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
}
