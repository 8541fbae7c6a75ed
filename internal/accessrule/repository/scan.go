// Package repository provides PostgreSQL and MySQL persistence for access rules.
package repository

import (
	"database/sql"

	"github.com/allisson/legacyvault/internal/accessrule/domain"
	apperrors "github.com/allisson/legacyvault/internal/errors"
)

const ruleColumns = `id, owner_id, digital_asset_id, beneficiary_address, access_type, trigger_condition,
	trigger_date, is_active, smart_contract_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*domain.AccessRule, error) {
	var r domain.AccessRule
	err := row.Scan(
		&r.ID, &r.OwnerID, &r.AssetID, &r.BeneficiaryAddress, &r.AccessType, &r.TriggerCondition,
		&r.TriggerDate, &r.IsActive, &r.SmartContractID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collect(rows *sql.Rows) ([]*domain.AccessRule, error) {
	rules := make([]*domain.AccessRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access rule")
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access rules")
	}
	return rules, nil
}
