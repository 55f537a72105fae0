package catalog

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"treelink/internal/domain"
)

// requireID rejects identifiers that cannot exist in the store. A malformed
// ID is reported as not found.
func requireID(resource, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewNotFound(resource, id)
	}
	return nil
}

// checkLength rejects values longer than max runes
func checkLength(field, value string, max int) error {
	if n := utf8.RuneCountInString(value); n > max {
		return &domain.ValidationError{
			Message: fmt.Sprintf("%s is too long (%d characters, maximum %d)", field, n, max),
		}
	}
	return nil
}

func stringPtr(s string) *string {
	return &s
}
