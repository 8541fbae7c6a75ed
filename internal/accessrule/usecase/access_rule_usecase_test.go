package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/legacyvault/internal/accessrule/domain"
	"github.com/allisson/legacyvault/internal/anchor"
	assetDomain "github.com/allisson/legacyvault/internal/asset/domain"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	outboxDomain "github.com/allisson/legacyvault/internal/outbox/domain"
	"github.com/allisson/legacyvault/internal/testutil"
)

const beneficiary = "0x52908400098527886E0F7030069857D2E4169EE7"

type MockAccessRuleRepository struct {
	mock.Mock
}

func (m *MockAccessRuleRepository) Create(ctx context.Context, rule *domain.AccessRule) error {
	args := m.Called(ctx, rule)
	if args.Error(0) == nil {
		rule.ID = 3
	}
	return args.Error(0)
}

func (m *MockAccessRuleRepository) ListByAsset(ctx context.Context, assetID, ownerID int64) ([]*domain.AccessRule, error) {
	args := m.Called(ctx, assetID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccessRule), args.Error(1)
}

type MockAssetLookup struct {
	mock.Mock
}

func (m *MockAssetLookup) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*assetDomain.Asset, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetDomain.Asset), args.Error(1)
}

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func setup() (*AccessRuleUseCase, *MockAssetLookup, *MockAccessRuleRepository, *testutil.MockOutboxRepository) {
	assets := &MockAssetLookup{}
	repo := &MockAccessRuleRepository{}
	outbox := &testutil.MockOutboxRepository{}
	logger := slog.New(slog.DiscardHandler)

	uc := NewAccessRuleUseCase(testutil.NewMockTxManager(), assets, repo, outbox, anchor.NewStub(logger), logger)
	uc.now = func() time.Time { return fixedNow }
	return uc, assets, repo, outbox
}

func validInput() CreateInput {
	return CreateInput{
		OwnerID:            1,
		AssetID:            5,
		BeneficiaryAddress: beneficiary,
		AccessType:         domain.AccessDownload,
		TriggerCondition:   domain.TriggerImmediate,
	}
}

func TestAccessRuleUseCase_Create(t *testing.T) {
	uc, assets, repo, outbox := setup()
	ctx := context.Background()

	assets.On("GetByIDAndOwner", ctx, int64(5), int64(1)).Return(&assetDomain.Asset{ID: 5, OwnerID: 1}, nil).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.AccessRule")).Return(nil).Once()
	outbox.On("Create", ctx, mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
		return e.EventType == outboxDomain.EventAccessRuleCreated &&
			assert.JSONEq(t, `{"rule_id":3,"asset_id":5,"owner_id":1,"access_type":"download",`+
				`"trigger_condition":"immediate","contract_id":"contract_5_`+beneficiary+`"}`, e.Payload)
	})).Return(nil).Once()

	rule, err := uc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(3), rule.ID)
	assert.True(t, rule.IsActive)
	require.NotNil(t, rule.SmartContractID)
	assert.Equal(t, "contract_5_"+beneficiary, *rule.SmartContractID)

	assets.AssertExpectations(t)
	repo.AssertExpectations(t)
	outbox.AssertExpectations(t)
}

func TestAccessRuleUseCase_CreateDateTrigger(t *testing.T) {
	uc, assets, repo, outbox := setup()
	ctx := context.Background()
	trigger := fixedNow.Add(30 * 24 * time.Hour)

	assets.On("GetByIDAndOwner", ctx, int64(5), int64(1)).Return(&assetDomain.Asset{ID: 5}, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(r *domain.AccessRule) bool {
		return r.TriggerCondition == domain.TriggerDate && r.TriggerDate.Equal(trigger)
	})).Return(nil)
	outbox.On("Create", ctx, testutil.EventOfType(outboxDomain.EventAccessRuleCreated)).Return(nil)

	input := validInput()
	input.TriggerCondition = domain.TriggerDate
	input.TriggerDate = &trigger

	_, err := uc.Create(ctx, input)
	require.NoError(t, err)
}

func TestAccessRuleUseCase_CreateValidation(t *testing.T) {
	past := fixedNow.Add(-time.Hour)

	tests := []struct {
		name    string
		modify  func(*CreateInput)
		wantErr error
	}{
		{name: "access type", modify: func(in *CreateInput) { in.AccessType = "delete" }, wantErr: domain.ErrInvalidAccessType},
		{name: "trigger", modify: func(in *CreateInput) { in.TriggerCondition = "death" }, wantErr: domain.ErrInvalidTriggerCondition},
		{name: "date missing", modify: func(in *CreateInput) { in.TriggerCondition = domain.TriggerDate }, wantErr: domain.ErrTriggerDateRequired},
		{
			name: "date in past",
			modify: func(in *CreateInput) {
				in.TriggerCondition = domain.TriggerDate
				in.TriggerDate = &past
			},
			wantErr: domain.ErrTriggerDateInPast,
		},
		{name: "beneficiary", modify: func(in *CreateInput) { in.BeneficiaryAddress = "alice" }, wantErr: domain.ErrInvalidBeneficiary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, assets, repo, _ := setup()
			input := validInput()
			tt.modify(&input)

			_, err := uc.Create(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
			assets.AssertNotCalled(t, "GetByIDAndOwner", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAccessRuleUseCase_CreateAssetNotOwned(t *testing.T) {
	uc, assets, repo, _ := setup()
	ctx := context.Background()

	assets.On("GetByIDAndOwner", ctx, int64(5), int64(1)).Return(nil, assetDomain.ErrAssetNotFound)

	_, err := uc.Create(ctx, validInput())
	assert.ErrorIs(t, err, assetDomain.ErrAssetNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccessRuleUseCase_CreateOutboxFailure(t *testing.T) {
	uc, assets, repo, outbox := setup()
	ctx := context.Background()
	outboxErr := errors.New("outbox down")

	assets.On("GetByIDAndOwner", ctx, int64(5), int64(1)).Return(&assetDomain.Asset{ID: 5}, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)
	outbox.On("Create", ctx, mock.Anything).Return(outboxErr)

	rule, err := uc.Create(ctx, validInput())
	assert.Nil(t, rule)
	assert.ErrorIs(t, err, outboxErr)
}

func TestAccessRuleUseCase_ListByAsset(t *testing.T) {
	uc, assets, repo, _ := setup()
	ctx := context.Background()
	rules := []*domain.AccessRule{{ID: 3}, {ID: 4}}

	assets.On("GetByIDAndOwner", ctx, int64(5), int64(1)).Return(&assetDomain.Asset{ID: 5}, nil)
	repo.On("ListByAsset", ctx, int64(5), int64(1)).Return(rules, nil)

	got, err := uc.ListByAsset(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, rules, got)
}

func TestAccessRuleUseCase_ListByAssetNotOwned(t *testing.T) {
	uc, assets, repo, _ := setup()
	ctx := context.Background()

	assets.On("GetByIDAndOwner", ctx, int64(5), int64(2)).Return(nil, assetDomain.ErrAssetNotFound)

	_, err := uc.ListByAsset(ctx, 5, 2)
	assert.ErrorIs(t, err, assetDomain.ErrAssetNotFound)
	repo.AssertNotCalled(t, "ListByAsset", mock.Anything, mock.Anything, mock.Anything)
}
