// Package dto provides request and response bodies for the authentication endpoints.
package dto

import (
	"strings"

	validation "github.com/jellydator/validation"

	userDTO "github.com/allisson/legacyvault/internal/user/http/dto"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// OTPLength is the number of digits accepted in an emailed code.
const OTPLength = 6

var passwordRule = customValidation.PasswordStrength{
	MinLength:     8,
	RequireUpper:  true,
	RequireLower:  true,
	RequireNumber: true,
}

var emailRules = []validation.Rule{
	validation.Required,
	customValidation.NotBlank,
	customValidation.Email,
	validation.Length(3, 255),
}

// EmailSignupRequest is the body of POST /api/v1/auth/email-signup.
type EmailSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	userDTO.ProfileFields
}

// Validate checks the signup request.
func (r *EmailSignupRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Email, emailRules...),
		validation.Field(&r.Password, validation.Required, validation.Length(0, 128), passwordRule),
	); err != nil {
		return err
	}
	return r.ProfileFields.Validate()
}

// EmailLoginRequest is the body of POST /api/v1/auth/email-login.
type EmailLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login request. Password strength is not re-checked on login.
func (r *EmailLoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, emailRules...),
		validation.Field(&r.Password, validation.Required),
	)
}

// RequestOTPRequest is the body of POST /api/v1/auth/request-otp.
type RequestOTPRequest struct {
	Email string `json:"email"`
	userDTO.ProfileFields
}

// Validate checks the OTP request.
func (r *RequestOTPRequest) Validate() error {
	if err := validation.ValidateStruct(r, validation.Field(&r.Email, emailRules...)); err != nil {
		return err
	}
	return r.ProfileFields.Validate()
}

// VerifyOTPRequest is the body of POST /api/v1/auth/verify-otp and verify-signup-otp.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	userDTO.ProfileFields
}

// Validate checks the email field. The code itself is checked by ValidateCode so a
// malformed code is reported like a wrong one.
func (r *VerifyOTPRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Email, emailRules...),
		validation.Field(&r.OTP, validation.Required),
	); err != nil {
		return err
	}
	return r.ProfileFields.Validate()
}

// ValidateCode reports whether the code has the expected shape.
func (r *VerifyOTPRequest) ValidateCode() error {
	return validation.Validate(strings.TrimSpace(r.OTP), customValidation.OTPCode(OTPLength))
}

// WalletLoginRequest is the body of POST /api/v1/auth/login.
type WalletLoginRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
	Username      string `json:"username"`
}

// Validate checks the wallet login request.
func (r *WalletLoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.WalletAddress, validation.Required, customValidation.WalletAddress),
		validation.Field(&r.Signature, validation.Required, customValidation.WalletSignature),
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 50),
		),
	)
}

// ConnectWalletRequest is the body of POST /api/v1/auth/connect-wallet.
type ConnectWalletRequest struct {
	WalletAddress string  `json:"wallet_address"`
	Signature     string  `json:"signature"`
	Email         *string `json:"email,omitempty"`
}

// Validate checks the connect request. Email is optional.
func (r *ConnectWalletRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.WalletAddress, validation.Required, customValidation.WalletAddress),
		validation.Field(&r.Signature, validation.Required, customValidation.WalletSignature),
		validation.Field(&r.Email, validation.NilOrNotEmpty, customValidation.Email),
	)
}
