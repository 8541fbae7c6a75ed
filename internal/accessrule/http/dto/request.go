// Package dto provides the access rule HTTP request and response shapes.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/legacyvault/internal/accessrule/domain"
	"github.com/allisson/legacyvault/internal/accessrule/usecase"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// CreateAccessRuleRequest is the body of POST /api/v1/access-rules/create.
type CreateAccessRuleRequest struct {
	UserID             int64      `json:"user_id"`
	AssetID            int64      `json:"asset_id"`
	BeneficiaryAddress string     `json:"beneficiary_address"`
	AccessType         string     `json:"access_type"`
	TriggerCondition   string     `json:"trigger_condition"`
	TriggerDate        *time.Time `json:"trigger_date"`
}

// Validate checks the request fields. user_id is checked by the handler.
func (r *CreateAccessRuleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AssetID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.BeneficiaryAddress, validation.Required, customValidation.WalletAddress),
		validation.Field(&r.AccessType,
			validation.Required,
			validation.In(toAny(domain.AccessTypes)...),
		),
		validation.Field(&r.TriggerCondition,
			validation.Required,
			validation.In(toAny(domain.TriggerConditions)...),
		),
		validation.Field(&r.TriggerDate,
			validation.When(r.TriggerCondition == string(domain.TriggerDate),
				validation.Required,
				customValidation.FutureTime(time.Now),
			).Else(validation.Nil),
		),
	)
}

// ToInput converts the request for the use case.
func (r *CreateAccessRuleRequest) ToInput() usecase.CreateInput {
	return usecase.CreateInput{
		OwnerID:            r.UserID,
		AssetID:            r.AssetID,
		BeneficiaryAddress: r.BeneficiaryAddress,
		AccessType:         domain.AccessType(r.AccessType),
		TriggerCondition:   domain.TriggerCondition(r.TriggerCondition),
		TriggerDate:        r.TriggerDate,
	}
}

func toAny[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
