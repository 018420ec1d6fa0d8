// Package fieldprobe reads values from loosely-shaped records whose field names
// vary between sources. Each lookup is an ordered chain of candidate names; the
// first candidate holding a non-empty value wins.
package fieldprobe

import (
	"math"
	"strconv"
	"strings"
)

// Record maps normalized field names to raw values.
type Record map[string]string

// Normalize folds case, trims, and turns spaces and dashes into underscores,
// so "Billboard Name", "billboard-name" and "BILLBOARD_NAME" compare equal.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

// NewRecord zips headers with values. Missing trailing values are empty; when
// a header repeats, the first non-empty value is kept.
func NewRecord(headers, values []string) Record {
	r := make(Record, len(headers))
	for i, h := range headers {
		key := Normalize(h)
		if key == "" {
			continue
		}
		v := ""
		if i < len(values) {
			v = strings.TrimSpace(values[i])
		}
		if existing, ok := r[key]; ok && existing != "" {
			continue
		}
		r[key] = v
	}
	return r
}

// String returns the first non-empty value among candidates.
func (r Record) String(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if v := r[Normalize(c)]; v != "" {
			return v, true
		}
	}
	return "", false
}

// Float returns the first candidate that parses as a finite number.
// Thousands separators are ignored.
func (r Record) Float(candidates ...string) (float64, bool) {
	for _, c := range candidates {
		v := strings.ReplaceAll(r[Normalize(c)], ",", "")
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		return f, true
	}
	return 0, false
}

// Bool returns the first candidate that reads as a boolean. Besides the forms
// accepted by strconv.ParseBool, "yes"/"no" and "y"/"n" are recognized.
func (r Record) Bool(candidates ...string) (bool, bool) {
	for _, c := range candidates {
		switch strings.ToLower(r[Normalize(c)]) {
		case "":
			continue
		case "yes", "y":
			return true, true
		case "no", "n":
			return false, true
		default:
			if b, err := strconv.ParseBool(r[Normalize(c)]); err == nil {
				return b, true
			}
		}
	}
	return false, false
}
