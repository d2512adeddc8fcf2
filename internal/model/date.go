package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of observation dates.
const DateLayout = "2006-01-02"

// Date is a calendar day stored as YYYY-MM-DD. SQLite keeps it as text and
// hands it back as text or time.Time; Postgres returns a time.Time.
type Date string

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date { return Date(t.Format(DateLayout)) }

// ParseDate validates s as YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// AddDays returns the day n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

func (d Date) String() string { return string(d) }

func (d Date) Value() (driver.Value, error) { return string(d), nil }

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = Date(v.UTC().Format(DateLayout))
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("model.Date: cannot scan %T", src)
	}
	return nil
}

func (d *Date) scanText(s string) error {
	if len(s) < len(DateLayout) {
		return fmt.Errorf("model.Date: cannot scan %q", s)
	}
	parsed, err := ParseDate(s[:len(DateLayout)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
