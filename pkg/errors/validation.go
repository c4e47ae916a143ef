package errors

import (
	"strings"
	"unicode"
)

// MaxOrderIDLength bounds order ids accepted from callers.
const MaxOrderIDLength = 128

// ValidateOrderID checks an order id before it is printed on a card or used
// in a file name. Ids end up in paths ("card-<last 8>.pdf"), so anything
// that could escape a directory is rejected.
func ValidateOrderID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidOrder, "order id cannot be empty")
	}

	if len(id) > MaxOrderIDLength {
		return New(ErrCodeInvalidOrder, "order id too long (max %d characters)", MaxOrderIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidOrder, "order id contains control characters")
		}
	}

	for _, pattern := range []string{"/", "\\", ".."} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidOrder, "order id contains invalid characters: %q", pattern)
		}
	}

	return nil
}
