// Package validation collects per-field violations. Values are i18n codes.
package validation

import (
	"slices"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// OneOf flags value when it is not one of allowed. Empty values are left to Required.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		return
	}
	if !slices.Contains(allowed, value) {
		v[field] = "invalid_choice"
	}
}

// RequiredID flags a zero or missing identifier.
func RequiredID(field string, id *uint, v Violations) {
	if id == nil || *id == 0 {
		v[field] = "required"
	}
}

// Clock flags values that are not HH:MM (24h).
func Clock(field, value string, v Violations) {
	if len(value) < 5 || value[2] != ':' {
		v[field] = "invalid_time"
		return
	}
	h := (int(value[0])-'0')*10 + int(value[1]) - '0'
	m := (int(value[3])-'0')*10 + int(value[4]) - '0'
	for _, c := range value[:2] + value[3:5] {
		if c < '0' || c > '9' {
			v[field] = "invalid_time"
			return
		}
	}
	if h > 23 || m > 59 {
		v[field] = "invalid_time"
	}
}
