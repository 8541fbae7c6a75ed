// Package domain defines access rules granting a beneficiary wallet access to an asset.
package domain

import (
	"time"

	"github.com/allisson/legacyvault/internal/errors"
)

// AccessType is what a beneficiary may do with the asset.
type AccessType string

const (
	AccessView     AccessType = "view"
	AccessDownload AccessType = "download"
	AccessManage   AccessType = "manage"
)

// TriggerCondition is when a rule takes effect.
type TriggerCondition string

const (
	TriggerImmediate TriggerCondition = "immediate"
	TriggerDate      TriggerCondition = "date"
	TriggerEvent     TriggerCondition = "event"
)

// AccessTypes lists the accepted access types.
var AccessTypes = []AccessType{AccessView, AccessDownload, AccessManage}

// TriggerConditions lists the accepted trigger conditions.
var TriggerConditions = []TriggerCondition{TriggerImmediate, TriggerDate, TriggerEvent}

// AccessRule grants BeneficiaryAddress access to one of the owner's assets.
// Rules are recorded only; nothing evaluates the trigger.
type AccessRule struct {
	ID                 int64
	OwnerID            int64
	AssetID            int64
	BeneficiaryAddress string
	AccessType         AccessType
	TriggerCondition   TriggerCondition
	TriggerDate        *time.Time
	IsActive           bool
	SmartContractID    *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Valid reports whether t is a known access type.
func (t AccessType) Valid() bool {
	for _, known := range AccessTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Valid reports whether c is a known trigger condition.
func (c TriggerCondition) Valid() bool {
	for _, known := range TriggerConditions {
		if c == known {
			return true
		}
	}
	return false
}

// CheckTrigger enforces that a date trigger carries a date after now and that
// the other triggers do not.
func CheckTrigger(condition TriggerCondition, date *time.Time, now time.Time) error {
	switch condition {
	case TriggerDate:
		if date == nil {
			return ErrTriggerDateRequired
		}
		if !date.After(now) {
			return ErrTriggerDateInPast
		}
	case TriggerImmediate, TriggerEvent:
		if date != nil {
			return ErrUnexpectedTriggerDate
		}
	default:
		return ErrInvalidTriggerCondition
	}
	return nil
}

// Domain-specific errors for access rules.
var (
	ErrInvalidAccessType       = errors.Wrap(errors.ErrInvalidInput, "invalid access type")
	ErrInvalidTriggerCondition = errors.Wrap(errors.ErrInvalidInput, "invalid trigger condition")
	ErrTriggerDateRequired     = errors.Wrap(errors.ErrInvalidInput, "trigger_date is required for date triggers")
	ErrTriggerDateInPast       = errors.Wrap(errors.ErrInvalidInput, "trigger_date must be in the future")
	ErrUnexpectedTriggerDate   = errors.Wrap(errors.ErrInvalidInput, "trigger_date is only allowed for date triggers")
	ErrInvalidBeneficiary      = errors.Wrap(errors.ErrInvalidInput, "beneficiary must be a wallet address")

	// ErrRuleAssetGone is returned when the asset disappears between the ownership check and the insert.
	ErrRuleAssetGone = errors.Wrap(errors.ErrNotFound, "asset no longer exists")
)
