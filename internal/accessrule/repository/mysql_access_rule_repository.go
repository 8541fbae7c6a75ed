package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/legacyvault/internal/accessrule/domain"
	"github.com/allisson/legacyvault/internal/database"
	apperrors "github.com/allisson/legacyvault/internal/errors"
)

// MySQLAccessRuleRepository handles access rule persistence for MySQL
type MySQLAccessRuleRepository struct {
	db *sql.DB
}

// NewMySQLAccessRuleRepository creates a new MySQLAccessRuleRepository
func NewMySQLAccessRuleRepository(db *sql.DB) *MySQLAccessRuleRepository {
	return &MySQLAccessRuleRepository{db: db}
}

func (r *MySQLAccessRuleRepository) Create(ctx context.Context, rule *domain.AccessRule) error {
	querier := database.GetTx(ctx, r.db)
	now := time.Now().UTC()

	query := `INSERT INTO access_rules (owner_id, digital_asset_id, beneficiary_address, access_type,
			  trigger_condition, trigger_date, is_active, smart_contract_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query,
		rule.OwnerID, rule.AssetID, rule.BeneficiaryAddress, string(rule.AccessType),
		string(rule.TriggerCondition), rule.TriggerDate, rule.IsActive, rule.SmartContractID, now, now,
	)
	if database.IsForeignKeyViolation(err) {
		return domain.ErrRuleAssetGone
	}
	if err != nil {
		return apperrors.Wrap(err, "failed to create access rule")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get access rule id")
	}

	rule.ID = id
	rule.CreatedAt = now
	rule.UpdatedAt = now
	return nil
}

// ListByAsset returns the rules of one asset, oldest first.
func (r *MySQLAccessRuleRepository) ListByAsset(
	ctx context.Context,
	assetID, ownerID int64,
) ([]*domain.AccessRule, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + ruleColumns + ` FROM access_rules
			  WHERE digital_asset_id = ? AND owner_id = ?
			  ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, assetID, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access rules")
	}
	defer rows.Close() //nolint:errcheck

	return collect(rows)
}
