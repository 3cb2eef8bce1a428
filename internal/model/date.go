package model

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatDate renders t's calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
