package request

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
)

// FlexNumber accepts a JSON number, a numeric string, or null. Anything that is not
// a finite number decodes to 0 with Coerced set, so form input never blocks an edit.
// Present is false when the key was absent from the body.
type FlexNumber struct {
	Value   float64
	Coerced bool
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = FlexNumber{Present: true}

	if bytes.Equal(data, []byte("null")) {
		n.Coerced = true
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			n.Coerced = true
			return nil
		}
		raw = s
	}

	v, ok := allocation.ParseNumber(raw)
	n.Value = allocation.Coerce(v)
	n.Coerced = !ok
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// Warnings returns a message for every coerced field, keyed by field name.
func Warnings(fields map[string]FlexNumber) map[string]string {
	var warnings map[string]string
	for name, n := range fields {
		if !n.Coerced {
			continue
		}
		if warnings == nil {
			warnings = make(map[string]string)
		}
		warnings[name] = "not a number, treated as 0"
	}
	return warnings
}
