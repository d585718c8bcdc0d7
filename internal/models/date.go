package models

import (
	"encoding/json"
	"strings"
	"time"
)

// SettlementDate is a calendar date (no time component). It unmarshals both
// RFC3339 timestamps and plain "YYYY-MM-DD" strings, since extraction
// payloads are inconsistent about which they send.
type SettlementDate struct {
	time.Time
}

// NewSettlementDate builds a SettlementDate from year, month and day.
func NewSettlementDate(year int, month time.Month, day int) SettlementDate {
	return SettlementDate{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseSettlementDate parses a "YYYY-MM-DD" string.
func ParseSettlementDate(s string) (SettlementDate, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return SettlementDate{}, err
	}
	return SettlementDate{t}, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *SettlementDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	// Try parsing as RFC3339 full timestamp first
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		d.Time = t
		return nil
	}

	// If that fails, try parsing as a date-only string. Anything else
	// becomes the zero date: a bad date is a per-record
	// MissingOrInvalidDate validation failure, not grounds to reject the
	// whole payload at decode time.
	t, err = time.Parse("2006-01-02", s)
	if err != nil {
		d.Time = time.Time{}
		return nil
	}
	d.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (d SettlementDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

// String renders the date in ISO form (YYYY-MM-DD).
func (d SettlementDate) String() string {
	return d.Format("2006-01-02")
}

// ExcelString renders the date with slash separators (YYYY/MM/DD), the form
// the export consumer expects in its "Excel Date" column.
func (d SettlementDate) ExcelString() string {
	return d.Format("2006/01/02")
}
