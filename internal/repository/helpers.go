package repository

import (
	"database/sql"
	"time"
)

// dateLayout is the canonical date-only storage format.
const dateLayout = "2006-01-02"

// parseNullableDate parses a sql.NullString into a *time.Time at local
// midnight. Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, s.String, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// parseDate parses a required date column at local midnight; a malformed
// value degrades to the zero time rather than failing the scan.
func parseDate(s string) time.Time {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullableDateToString converts a *time.Time to a value suitable for
// SQLite storage. Returns nil (SQL NULL) if the pointer is nil.
func nullableDateToString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// nullableFloatToValue converts a *float64 to a value suitable for SQLite
// storage. Returns nil (SQL NULL) if the pointer is nil.
func nullableFloatToValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableStrToValue converts a *string to a value suitable for SQLite
// storage. Returns nil (SQL NULL) if the pointer is nil.
func nullableStrToValue(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseTimestamp parses an RFC3339 row timestamp; a malformed value
// degrades to the zero time rather than failing the scan.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
