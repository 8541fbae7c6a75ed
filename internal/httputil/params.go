package httputil

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID parses a required positive integer identifier such as a user_id form field
// or an :id path parameter. name is used in the error message.
func ParseID(raw, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s format", name)
	}

	return id, nil
}
