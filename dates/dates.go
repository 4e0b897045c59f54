// Package dates converts site-specific date/time text into the
// canonical (date, time) string pair used by every source. Three
// independent paths exist: an ISO-8601 path, a free-text path, and a
// free-text path that interprets the wall time as US Pacific. Which
// path applies is a property of the source, not of the record.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnrecognizedFormat reports free-text input that matches none of
// the accepted layouts. Callers substitute empty canonical fields
// rather than propagating the raw text downstream.
var ErrUnrecognizedFormat = errors.New("unrecognized date format")

const (
	dateLayout   = "2006-01-02"
	time24Layout = "15:04:05"
	time12Layout = "3:04 PM"
)

// textLayouts are tried in order; the first successful parse wins.
var textLayouts = []string{
	"January 2, 2006 3:04PM",
	"Jan 2, 2006 3:04PM",
}

// isoLayouts cover ISO-8601 with and without a UTC offset.
var isoLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
}

// tzAbbreviations are timezone tokens stripped before parsing on the
// Pacific path. Sites render them inconsistently, so they carry no
// information beyond "Pacific".
var tzAbbreviations = []string{"PST", "PDT", "PT"}

// FromISO converts an ISO-8601 timestamp into ("YYYY-MM-DD",
// "HH:MM:SS"). A literal "Z" suffix is normalized to "+00:00" before
// parsing. Empty input yields two empty strings and no error.
func FromISO(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", nil
	}

	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout), t.Format(time24Layout), nil
		}
	}

	return "", "", fmt.Errorf("%w: %q", ErrUnrecognizedFormat, s)
}

// FromText converts free text such as "January 2, 2024 3:04PM" into
// ("YYYY-MM-DD", "HH:MM:SS"). Layouts are tried in order; if none
// match, the error wraps ErrUnrecognizedFormat.
func FromText(s string) (string, string, error) {
	t, err := parseText(s)
	if err != nil {
		return "", "", err
	}
	return t.Format(dateLayout), t.Format(time24Layout), nil
}

// FromTextPacific is FromText for sites that publish a Pacific wall
// time with a trailing timezone abbreviation. The abbreviation token
// is stripped, the remaining text is parsed with the same layouts,
// and the result is anchored in America/Los_Angeles. The time comes
// back in 12-hour display form ("3:04 PM"); consumers treat the
// published time as an opaque display string, not a uniform format.
func FromTextPacific(s string) (string, string, error) {
	stripped := stripTimezone(s)

	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return "", "", fmt.Errorf("failed to load Pacific zone: %w", err)
	}

	var t time.Time
	var parseErr error
	for _, layout := range textLayouts {
		t, parseErr = time.ParseInLocation(layout, stripped, loc)
		if parseErr == nil {
			return t.Format(dateLayout), t.Format(time12Layout), nil
		}
	}

	return "", "", fmt.Errorf("%w: %q", ErrUnrecognizedFormat, s)
}

// Captured returns the current wall-clock time as ("YYYY-MM-DD",
// "HH:MM:SS"). Every canonical record carries a capture stamp
// regardless of which published path its source uses.
func Captured() (string, string) {
	now := time.Now()
	return now.Format(dateLayout), now.Format(time24Layout)
}

func parseText(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, s)
}

// stripTimezone removes a trailing timezone abbreviation token and
// collapses the surrounding whitespace.
func stripTimezone(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	last := strings.ToUpper(fields[len(fields)-1])
	for _, abbr := range tzAbbreviations {
		if last == abbr {
			fields = fields[:len(fields)-1]
			break
		}
	}

	return strings.Join(fields, " ")
}
