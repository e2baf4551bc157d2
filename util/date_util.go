package util

import (
	"strings"
	"time"

	"stockdash/model"
)

// ParseDate reads a YYYY-MM-DD date at UTC midnight. Blank input is the zero time.
func ParseDate(value string) (time.Time, error) {
	cleanInput := strings.TrimSpace(value)
	if cleanInput == "" {
		return time.Time{}, nil
	}
	return time.Parse(model.DateLayout, cleanInput)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}
