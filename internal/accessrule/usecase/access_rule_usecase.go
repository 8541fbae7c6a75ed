// Package usecase records access rules for owned assets.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/legacyvault/internal/accessrule/domain"
	"github.com/allisson/legacyvault/internal/anchor"
	assetDomain "github.com/allisson/legacyvault/internal/asset/domain"
	"github.com/allisson/legacyvault/internal/database"
	outboxDomain "github.com/allisson/legacyvault/internal/outbox/domain"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// CreateInput describes a new access rule.
type CreateInput struct {
	OwnerID            int64
	AssetID            int64
	BeneficiaryAddress string
	AccessType         domain.AccessType
	TriggerCondition   domain.TriggerCondition
	TriggerDate        *time.Time
}

// UseCase defines the interface for access rule operations.
type UseCase interface {
	// Create records a rule on an asset owned by OwnerID.
	Create(ctx context.Context, input CreateInput) (*domain.AccessRule, error)
	ListByAsset(ctx context.Context, assetID, ownerID int64) ([]*domain.AccessRule, error)
}

// AccessRuleRepository interface defines access rule persistence.
type AccessRuleRepository interface {
	Create(ctx context.Context, rule *domain.AccessRule) error
	ListByAsset(ctx context.Context, assetID, ownerID int64) ([]*domain.AccessRule, error)
}

// AssetLookup confirms asset ownership.
type AssetLookup interface {
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*assetDomain.Asset, error)
}

// OutboxEventRepository records domain events in the caller's transaction.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// AccessRuleUseCase implements UseCase.
type AccessRuleUseCase struct {
	txManager  database.TxManager
	assets     AssetLookup
	ruleRepo   AccessRuleRepository
	outboxRepo OutboxEventRepository
	anchorer   anchor.Anchorer
	logger     *slog.Logger
	now        func() time.Time
}

// NewAccessRuleUseCase creates a new AccessRuleUseCase.
func NewAccessRuleUseCase(
	txManager database.TxManager,
	assets AssetLookup,
	ruleRepo AccessRuleRepository,
	outboxRepo OutboxEventRepository,
	anchorer anchor.Anchorer,
	logger *slog.Logger,
) *AccessRuleUseCase {
	return &AccessRuleUseCase{
		txManager:  txManager,
		assets:     assets,
		ruleRepo:   ruleRepo,
		outboxRepo: outboxRepo,
		anchorer:   anchorer,
		logger:     logger,
		now:        time.Now,
	}
}

func (uc *AccessRuleUseCase) Create(ctx context.Context, input CreateInput) (*domain.AccessRule, error) {
	if !input.AccessType.Valid() {
		return nil, domain.ErrInvalidAccessType
	}
	if err := domain.CheckTrigger(input.TriggerCondition, input.TriggerDate, uc.now()); err != nil {
		return nil, err
	}
	if !customValidation.IsWalletAddress(input.BeneficiaryAddress) {
		return nil, domain.ErrInvalidBeneficiary
	}

	if _, err := uc.assets.GetByIDAndOwner(ctx, input.AssetID, input.OwnerID); err != nil {
		return nil, err
	}

	contractID := uc.anchorer.ContractID(input.AssetID, input.BeneficiaryAddress)
	rule := &domain.AccessRule{
		OwnerID:            input.OwnerID,
		AssetID:            input.AssetID,
		BeneficiaryAddress: input.BeneficiaryAddress,
		AccessType:         input.AccessType,
		TriggerCondition:   input.TriggerCondition,
		TriggerDate:        input.TriggerDate,
		IsActive:           true,
		SmartContractID:    &contractID,
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.ruleRepo.Create(ctx, rule); err != nil {
			return err
		}

		event, err := outboxDomain.NewOutboxEvent(outboxDomain.EventAccessRuleCreated, map[string]interface{}{
			"rule_id":           rule.ID,
			"asset_id":          rule.AssetID,
			"owner_id":          rule.OwnerID,
			"access_type":       rule.AccessType,
			"trigger_condition": rule.TriggerCondition,
			"contract_id":       contractID,
		})
		if err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "access rule created",
		slog.Int64("rule_id", rule.ID),
		slog.Int64("asset_id", rule.AssetID),
		slog.String("trigger_condition", string(rule.TriggerCondition)))
	return rule, nil
}

func (uc *AccessRuleUseCase) ListByAsset(ctx context.Context, assetID, ownerID int64) ([]*domain.AccessRule, error) {
	if _, err := uc.assets.GetByIDAndOwner(ctx, assetID, ownerID); err != nil {
		return nil, err
	}
	return uc.ruleRepo.ListByAsset(ctx, assetID, ownerID)
}
