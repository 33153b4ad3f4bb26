package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02-01-2006",
}

// ParseTime parses a date in "2006-01-02", RFC3339, sqlite timestamp or
// "02-01-2006" format. The result is in UTC.
func ParseTime(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date %q", str)
}

// ParseAmount parses a numeric column. NULL, blank and malformed values are 0;
// thousands separators are accepted.
func ParseAmount(ns sql.NullString) float64 {
	if !ns.Valid {
		return 0
	}
	s := strings.ReplaceAll(strings.TrimSpace(ns.String), ",", "")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
