package models

import (
	"strconv"
	"strings"
	"time"
)

// Accepted source date layouts, most common first. The dataset exporter
// writes ISO dates, but hand-edited files show up in day-first and US forms.
var dateLayouts = []string{
	"2006-01-02",
	"02-Jan-2006",
	"01/02/2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
}

// ParseDate coerces a source cell into a date. Unparsable input yields nil,
// never an error; the record is excluded from date-derived metrics only.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseFloat coerces a numeric cell. Unparsable input yields nil.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseBool coerces the guardrail flag column. Truthy and falsy string forms
// both map to a real boolean; anything unrecognised is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true
	default:
		return false
	}
}
