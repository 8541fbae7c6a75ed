// Package dto provides request and response bodies for the profile endpoints.
// ProfileFields and UserResponse are shared with the auth endpoints.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	userDomain "github.com/allisson/legacyvault/internal/user/domain"
	appValidation "github.com/allisson/legacyvault/internal/validation"
)

// ProfileFields are the optional profile attributes accepted on signup, OTP
// verification and profile updates. Omitted fields are left untouched.
type ProfileFields struct {
	Username       *string    `json:"username,omitempty"`
	FullName       *string    `json:"full_name,omitempty"`
	PhoneNumber    *string    `json:"phone_number,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Address        *string    `json:"address,omitempty"`
	Bio            *string    `json:"bio,omitempty"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
}

// Validate checks field lengths and that the date of birth is in the past.
func (p *ProfileFields) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Username,
			validation.NilOrNotEmpty,
			appValidation.NoWhitespace,
			validation.Length(1, 50),
		),
		validation.Field(&p.FullName, validation.Length(0, 255)),
		validation.Field(&p.PhoneNumber, validation.Length(0, 32)),
		validation.Field(&p.DateOfBirth, validation.By(pastDate)),
		validation.Field(&p.Address, validation.Length(0, 500)),
		validation.Field(&p.Bio, validation.Length(0, 2000)),
		validation.Field(&p.ProfilePicture, validation.Length(0, 1024)),
	)
}

func pastDate(value interface{}) error {
	t, ok := value.(*time.Time)
	if !ok || t == nil {
		return nil
	}
	if t.After(time.Now()) {
		return validation.NewError("validation_past_date", "must be in the past")
	}
	return nil
}

// ToProfileUpdate converts the request fields into a domain update.
func (p ProfileFields) ToProfileUpdate() userDomain.ProfileUpdate {
	return userDomain.ProfileUpdate{
		Username:       p.Username,
		FullName:       p.FullName,
		PhoneNumber:    p.PhoneNumber,
		DateOfBirth:    p.DateOfBirth,
		Address:        p.Address,
		Bio:            p.Bio,
		ProfilePicture: p.ProfilePicture,
	}
}

// UpdateProfileRequest is the body of PUT /api/v1/users/:id/profile.
type UpdateProfileRequest struct {
	ProfileFields
}

// Validate checks the profile fields.
func (r *UpdateProfileRequest) Validate() error {
	return r.ProfileFields.Validate()
}
