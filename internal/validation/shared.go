package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error carries field-specific validation messages.
type Error struct {
	Fields map[string]string
}

// Error lists the failing fields in a stable order.
func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// result returns nil for no errors, or an *Error.
func result(errors map[string]string) error {
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
