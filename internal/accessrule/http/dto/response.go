package dto

import (
	"time"

	"github.com/allisson/legacyvault/internal/accessrule/domain"
)

// CreateAccessRuleResponse carries the new rule id and its contract id.
type CreateAccessRuleResponse struct {
	RuleID     int64  `json:"rule_id"`
	ContractID string `json:"contract_id"`
}

// AccessRuleResponse represents one access rule.
type AccessRuleResponse struct {
	ID                 int64      `json:"id"`
	AssetID            int64      `json:"asset_id"`
	BeneficiaryAddress string     `json:"beneficiary_address"`
	AccessType         string     `json:"access_type"`
	TriggerCondition   string     `json:"trigger_condition"`
	TriggerDate        *time.Time `json:"trigger_date"`
	IsActive           bool       `json:"is_active"`
	ContractID         *string    `json:"contract_id"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ListAccessRulesResponse wraps the rules of one asset.
type ListAccessRulesResponse struct {
	Data []AccessRuleResponse `json:"data"`
}

// MapRuleToCreateResponse converts a newly created rule.
func MapRuleToCreateResponse(rule *domain.AccessRule) CreateAccessRuleResponse {
	resp := CreateAccessRuleResponse{RuleID: rule.ID}
	if rule.SmartContractID != nil {
		resp.ContractID = *rule.SmartContractID
	}
	return resp
}

// MapRulesToListResponse converts a list of rules.
func MapRulesToListResponse(rules []*domain.AccessRule) ListAccessRulesResponse {
	data := make([]AccessRuleResponse, 0, len(rules))
	for _, rule := range rules {
		data = append(data, AccessRuleResponse{
			ID:                 rule.ID,
			AssetID:            rule.AssetID,
			BeneficiaryAddress: rule.BeneficiaryAddress,
			AccessType:         string(rule.AccessType),
			TriggerCondition:   string(rule.TriggerCondition),
			TriggerDate:        rule.TriggerDate,
			IsActive:           rule.IsActive,
			ContractID:         rule.SmartContractID,
			CreatedAt:          rule.CreatedAt,
		})
	}
	return ListAccessRulesResponse{Data: data}
}
