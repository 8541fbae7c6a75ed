package httputil

import (
	"fmt"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"
)

const maxLimit = 100

// Page is the offset/limit window of a list endpoint.
type Page struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=50"`
}

func (p Page) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Offset, validation.Min(0).Error("must be a non-negative integer")),
		validation.Field(&p.Limit, validation.Required.Error("must be between 1 and 100"),
			validation.Min(1), validation.Max(maxLimit).Error("must be between 1 and 100")),
	)
}

// ParsePagination binds ?offset=&limit= (defaults 0 and 50, limit at most 100).
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	var page Page
	if err := c.ShouldBindQuery(&page); err != nil {
		return 0, 0, fmt.Errorf("invalid pagination parameters: %w", err)
	}
	if err := page.Validate(); err != nil {
		return 0, 0, fmt.Errorf("invalid pagination parameters: %w", err)
	}
	return page.Offset, page.Limit, nil
}
