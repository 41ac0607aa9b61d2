package repository

import (
	"database/sql"
	"time"
)

// parseNullableTime parses a stored timestamp, returning nil for NULL, empty
// or unparsable values.
func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// nowUTC is the sync timestamp written with each cached row.
var nowUTC = func() string {
	return formatTime(time.Now())
}
