package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// sqliteTimeLayouts covers what mattn/go-sqlite3 writes for time.Time values
// and what aggregate columns (no declared type) hand back as plain text.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC3339Nano,
}

// NullTime is a nullable timestamp for aggregates such as MAX(created_at).
// It marshals to JSON null when empty.
type NullTime struct {
	Time  time.Time
	Valid bool
}

func NewNullTime(t time.Time) NullTime { return NullTime{Time: t, Valid: true} }

func (n *NullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = NullTime{}
		return nil
	case time.Time:
		*n = NewNullTime(v)
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	}
	return fmt.Errorf("model.NullTime: cannot scan %T", src)
}

func (n *NullTime) parse(s string) error {
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*n = NewNullTime(t)
			return nil
		}
	}
	return fmt.Errorf("model.NullTime: cannot parse %q", s)
}

func (n NullTime) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Time, nil
}

func (n NullTime) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Time.Format(time.RFC3339))
}

func (n *NullTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NullTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return n.parse(s)
}
