package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// UploadForm holds the text fields of the multipart upload.
type UploadForm struct {
	UserID      string  `form:"user_id"`
	Title       *string `form:"title"`
	Description *string `form:"description"`
}

// Validate checks the optional text fields. user_id is parsed by the handler.
func (f *UploadForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Title,
			validation.NilOrNotEmpty,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&f.Description, validation.Length(0, 2000)),
	)
}
