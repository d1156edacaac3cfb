// Package datefmt converts between the backend's date wire formats and the
// strings shown to users.
package datefmt

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Wire and display layouts.
const (
	WireDate        = "02-01-2006"
	WireDateTime    = "02-01-2006 15:04:05"
	DisplayDate     = "02/01/2006"
	DisplayDateTime = "02/01/2006 15:04:05"

	// Missing is rendered for absent dates.
	Missing = "N/A"
)

var isoDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Display normalizes a backend date string for presentation. Both wire
// formats are recognized, ISO-8601 timestamps are accepted as a fallback,
// and anything else is returned unchanged. Empty input yields Missing.
func Display(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing
	}

	if t, err := time.Parse(WireDateTime, s); err == nil {
		return t.Format(DisplayDateTime)
	}
	if t, err := time.Parse(WireDate, s); err == nil {
		return t.Format(DisplayDate)
	}
	for _, layout := range isoDateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DisplayDateTime)
		}
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Format(DisplayDate)
	}

	return raw
}

// Date is a nullable calendar date serialized as "dd-MM-yyyy".
type Date struct {
	Time  time.Time
	Valid bool
}

// DateTime is a nullable timestamp serialized as "dd-MM-yyyy HH:mm:ss".
type DateTime struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a valid Date for t.
func NewDate(t time.Time) Date { return Date{Time: t, Valid: true} }

// NewDateTime returns a valid DateTime for t.
func NewDateTime(t time.Time) DateTime { return DateTime{Time: t, Valid: true} }

// String returns the wire representation, or "" when unset.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(WireDate)
}

// Display returns the presentation form of d.
func (d Date) Display() string { return Display(d.String()) }

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	t, ok, err := parseJSON(data, WireDate)
	if err != nil {
		return err
	}
	d.Time, d.Valid = t, ok
	return nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	t, ok, err := scanTime(src)
	if err != nil {
		return err
	}
	d.Time, d.Valid = t, ok
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Time, nil
}

// String returns the wire representation, or "" when unset.
func (d DateTime) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(WireDateTime)
}

// Display returns the presentation form of d.
func (d DateTime) Display() string { return Display(d.String()) }

func (d DateTime) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	t, ok, err := parseJSON(data, WireDateTime)
	if err != nil {
		return err
	}
	d.Time, d.Valid = t, ok
	return nil
}

// Scan implements sql.Scanner.
func (d *DateTime) Scan(src any) error {
	t, ok, err := scanTime(src)
	if err != nil {
		return err
	}
	d.Time, d.Valid = t, ok
	return nil
}

// Value implements driver.Valuer.
func (d DateTime) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Time, nil
}

func parseJSON(data []byte, layout string) (time.Time, bool, error) {
	if bytes.Equal(data, []byte("null")) {
		return time.Time{}, false, nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, false, fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}

	for _, l := range []string{layout, WireDateTime, WireDate, time.RFC3339Nano, time.DateOnly} {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date %q", s)
}

func scanTime(src any) (time.Time, bool, error) {
	switch v := src.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return v, true, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("scan date: %w", err)
		}
		return t, true, nil
	default:
		return time.Time{}, false, fmt.Errorf("scan date: unsupported type %T", src)
	}
}
