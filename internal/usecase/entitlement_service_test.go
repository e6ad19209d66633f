package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
	"github.com/bananaviral/bananaviral-backend/internal/lemonsqueezy"
	"github.com/bananaviral/bananaviral-backend/internal/usecase"
)

// MockProfileRepository is a mock implementation of ProfileRepository
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

var testMapping = usecase.VariantMapping{
	StarterVariantID: "var_starter",
	CreatorVariantID: "var_creator",
}

func creationEvent(eventName, userID, variantID string) *lemonsqueezy.WebhookEvent {
	event := &lemonsqueezy.WebhookEvent{}
	event.Meta.EventName = eventName
	event.Meta.CustomData.UserID = userID
	event.Data.Attributes.VariantID = lemonsqueezy.FlexID(variantID)
	return event
}

func TestEntitlementService_Apply_Creation(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	userID := uuid.New()

	cases := []struct {
		name      string
		variantID string
		plan      model.PlanType
		credits   int
	}{
		{"starter variant", "var_starter", model.PlanStarter, 50},
		{"creator variant", "var_creator", model.PlanCreator, 100},
		{"unknown variant grants agency", "var_mystery", model.PlanAgency, 400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockProfileRepository)
			service := usecase.NewEntitlementService(mockRepo, testMapping, logger)

			mockRepo.On("UpdateEntitlement", ctx, userID, tc.plan, tc.credits).Return(nil)

			decision, err := service.Apply(ctx, creationEvent("subscription_created", userID.String(), tc.variantID))

			assert.NoError(t, err)
			assert.Equal(t, usecase.DecisionUpgraded, decision)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEntitlementService_Apply_OrderCreated(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockRepo := new(MockProfileRepository)
	service := usecase.NewEntitlementService(mockRepo, testMapping, zap.NewNop())

	mockRepo.On("UpdateEntitlement", ctx, userID, model.PlanStarter, 50).Return(nil)

	decision, err := service.Apply(ctx, creationEvent("order_created", userID.String(), "var_starter"))

	assert.NoError(t, err)
	assert.Equal(t, usecase.DecisionUpgraded, decision)
	mockRepo.AssertExpectations(t)
}

func TestEntitlementService_Apply_Idempotent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockRepo := new(MockProfileRepository)
	service := usecase.NewEntitlementService(mockRepo, testMapping, zap.NewNop())

	// Redelivery applies the same absolute overwrite both times.
	mockRepo.On("UpdateEntitlement", ctx, userID, model.PlanCreator, 100).Return(nil).Twice()

	event := creationEvent("subscription_created", userID.String(), "var_creator")
	for i := 0; i < 2; i++ {
		decision, err := service.Apply(ctx, event)
		assert.NoError(t, err)
		assert.Equal(t, usecase.DecisionUpgraded, decision)
	}
	mockRepo.AssertExpectations(t)
}

func TestEntitlementService_Apply_Cancellation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	for _, eventName := range []string{"subscription_cancelled", "subscription_expired"} {
		t.Run(eventName, func(t *testing.T) {
			mockRepo := new(MockProfileRepository)
			service := usecase.NewEntitlementService(mockRepo, testMapping, zap.NewNop())

			mockRepo.On("Downgrade", ctx, userID).Return(nil)

			decision, err := service.Apply(ctx, creationEvent(eventName, userID.String(), ""))

			assert.NoError(t, err)
			assert.Equal(t, usecase.DecisionDowngraded, decision)
			mockRepo.AssertExpectations(t)
			mockRepo.AssertNotCalled(t, "UpdateEntitlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestEntitlementService_Apply_MissingUserID(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := usecase.NewEntitlementService(mockRepo, testMapping, zap.NewNop())

	decision, err := service.Apply(context.Background(), creationEvent("subscription_created", "", "var_starter"))

	assert.NoError(t, err)
	assert.Equal(t, usecase.DecisionSkipped, decision)
	mockRepo.AssertNotCalled(t, "UpdateEntitlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Downgrade", mock.Anything, mock.Anything)
}

func TestEntitlementService_Apply_UnknownEvent(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := usecase.NewEntitlementService(mockRepo, testMapping, zap.NewNop())

	decision, err := service.Apply(context.Background(), creationEvent("subscription_paused", uuid.NewString(), ""))

	assert.NoError(t, err)
	assert.Equal(t, usecase.DecisionSkipped, decision)
	mockRepo.AssertNotCalled(t, "UpdateEntitlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Downgrade", mock.Anything, mock.Anything)
}

func TestEntitlementService_Apply_MalformedUserID(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	service := usecase.NewEntitlementService(mockRepo, testMapping, zap.NewNop())

	_, err := service.Apply(context.Background(), creationEvent("subscription_created", "not-a-uuid", "var_starter"))

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateEntitlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEntitlementService_Apply_StoreFailure(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockRepo := new(MockProfileRepository)
	service := usecase.NewEntitlementService(mockRepo, testMapping, zap.NewNop())

	storeErr := errors.New("connection refused")
	mockRepo.On("UpdateEntitlement", ctx, userID, model.PlanStarter, 50).Return(storeErr)

	_, err := service.Apply(ctx, creationEvent("subscription_created", userID.String(), "var_starter"))

	assert.ErrorIs(t, err, storeErr)
	mockRepo.AssertExpectations(t)
}
