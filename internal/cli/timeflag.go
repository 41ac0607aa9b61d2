package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTime accepts RFC 3339 or a local "YYYY-MM-DD[ HH:MM]".
func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use RFC3339 or YYYY-MM-DD HH:MM)", s)
}

type timeValue struct {
	t *time.Time
}

var _ pflag.Value = timeValue{}

func newTimeValue(p *time.Time) timeValue {
	return timeValue{t: p}
}

func (v timeValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.RFC3339)
}

func (v timeValue) Set(s string) error {
	t, err := parseTime(s)
	if err != nil {
		return err
	}
	*v.t = t
	return nil
}

func (v timeValue) Type() string { return "time" }
