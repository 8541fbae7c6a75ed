package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/legacyvault/internal/accessrule/domain"
	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
)

// PostgreSQLAccessRuleRepository handles access rule persistence for PostgreSQL
type PostgreSQLAccessRuleRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccessRuleRepository creates a new PostgreSQLAccessRuleRepository
func NewPostgreSQLAccessRuleRepository(db *sql.DB) *PostgreSQLAccessRuleRepository {
	return &PostgreSQLAccessRuleRepository{db: db}
}

func (r *PostgreSQLAccessRuleRepository) Create(ctx context.Context, rule *domain.AccessRule) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO access_rules (owner_id, digital_asset_id, beneficiary_address, access_type,
			  trigger_condition, trigger_date, is_active, smart_contract_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := querier.QueryRowContext(ctx, query,
		rule.OwnerID, rule.AssetID, rule.BeneficiaryAddress, string(rule.AccessType),
		string(rule.TriggerCondition), rule.TriggerDate, rule.IsActive, rule.SmartContractID,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if database.IsForeignKeyViolation(err) {
		return domain.ErrRuleAssetGone
	}
	if err != nil {
		return apperrors.Wrap(err, "failed to create access rule")
	}
	return nil
}

// ListByAsset returns the rules of one asset, oldest first.
func (r *PostgreSQLAccessRuleRepository) ListByAsset(
	ctx context.Context,
	assetID, ownerID int64,
) ([]*domain.AccessRule, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + ruleColumns + ` FROM access_rules
			  WHERE digital_asset_id = $1 AND owner_id = $2
			  ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, assetID, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access rules")
	}
	defer rows.Close() //nolint:errcheck

	return collect(rows)
}
