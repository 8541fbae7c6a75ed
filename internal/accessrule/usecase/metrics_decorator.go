package usecase

import (
	"context"
	"time"

	"github.com/allisson/legacyvault/internal/accessrule/domain"
	"github.com/allisson/legacyvault/internal/metrics"
)

type accessRuleUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewAccessRuleUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewAccessRuleUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &accessRuleUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *accessRuleUseCaseWithMetrics) Create(ctx context.Context, input CreateInput) (*domain.AccessRule, error) {
	start := time.Now()
	rule, err := a.next.Create(ctx, input)
	metrics.Observe(ctx, a.metrics, metrics.DomainAccessRule, "access_rule_create", start, err)
	return rule, err
}

func (a *accessRuleUseCaseWithMetrics) ListByAsset(
	ctx context.Context,
	assetID, ownerID int64,
) ([]*domain.AccessRule, error) {
	start := time.Now()
	rules, err := a.next.ListByAsset(ctx, assetID, ownerID)
	metrics.Observe(ctx, a.metrics, metrics.DomainAccessRule, "access_rule_list", start, err)
	return rules, err
}
