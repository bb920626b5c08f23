package validation

import "strings"

// NameRequest is the shared shape for content entities that only need a
// non-empty, bounded name or title.
type NameRequest struct {
	Field string
	Value string
	Max   int
}

// ValidateName validates a single required name/title field.
func ValidateName(req NameRequest) []FieldError {
	max := req.Max
	if max == 0 {
		max = 255
	}

	value := strings.TrimSpace(req.Value)
	if value == "" {
		return []FieldError{{Field: req.Field, Message: req.Field + " is required"}}
	}
	if len(value) > max {
		return []FieldError{{Field: req.Field, Message: req.Field + " is too long"}}
	}

	return nil
}
