// Package datetime converts meeting dates and times between the free-text
// form people type or read and the fixed form the meetings API stores.
//
// Canonical forms are YYYY-MM-DD for dates and HH:MM:SS (24-hour) for times.
// Display forms are informal: "Sep 18, 2020", "09/18/2020", "7:10 AM",
// "14:30" and so on.
package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// CanonicalDateLayout is the wire format for meeting dates
	CanonicalDateLayout = "2006-01-02"
	// CanonicalTimeLayout is the wire format for meeting start times
	CanonicalTimeLayout = "15:04:05"
	// DisplayDateLayout renders dates as "Sep 18, 2020"
	DisplayDateLayout = "Jan 2, 2006"

	// InvalidDisplayDate is returned by ToDisplayDate for malformed input
	InvalidDisplayDate = "Invalid Date"
	// InvalidDisplayTime is returned by ToDisplayTime for malformed input
	InvalidDisplayTime = "Invalid Time"
)

var (
	canonicalDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	canonicalTimeRegex = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	bareClockRegex     = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	meridiemRegex      = regexp.MustCompile(`\s*(am|pm)`)
)

// Canonicalizer converts dates and times in a fixed location.
// It holds no mutable state and is safe for concurrent use.
type Canonicalizer struct {
	loc *time.Location
}

// New returns a Canonicalizer that interprets dates in loc (UTC when nil)
func New(loc *time.Location) *Canonicalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Canonicalizer{loc: loc}
}

// Location returns the location dates are interpreted in
func (c *Canonicalizer) Location() *time.Location {
	return c.loc
}

// ToCanonicalDate converts a display date into YYYY-MM-DD.
// Input already shaped like YYYY-MM-DD is returned as is, without checking
// that the calendar day exists. Empty input yields empty output.
func (c *Canonicalizer) ToCanonicalDate(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	trimmed := strings.TrimSpace(input)
	if canonicalDateRegex.MatchString(trimmed) {
		return trimmed, nil
	}
	if trimmed == "" {
		return "", &InvalidDateFormatError{Input: input}
	}

	parsed, err := dateparse.ParseIn(trimmed, c.loc)
	if err != nil {
		return "", &InvalidDateFormatError{Input: input}
	}

	parsed = parsed.In(c.loc)
	return fmt.Sprintf("%04d-%02d-%02d", parsed.Year(), int(parsed.Month()), parsed.Day()), nil
}

// ToCanonicalTime converts a display time into HH:MM:SS.
// Input already shaped like HH:MM:SS is returned as is. Empty input yields
// empty output.
func (c *Canonicalizer) ToCanonicalTime(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	value := strings.ToLower(strings.TrimSpace(input))
	if canonicalTimeRegex.MatchString(value) {
		return value, nil
	}

	if strings.Contains(value, "am") || strings.Contains(value, "pm") {
		isPM := strings.Contains(value, "pm")
		value = strings.TrimSpace(meridiemRegex.ReplaceAllString(value, ""))

		// Seconds, if given, are dropped
		parts := strings.Split(value, ":")
		hourPart, minutePart := parts[0], "00"
		if len(parts) > 1 {
			minutePart = parts[1]
		}

		hour, err := strconv.Atoi(hourPart)
		if err != nil || hour < 1 || hour > 12 {
			return "", &InvalidTimeFormatError{Input: input}
		}
		minute, err := strconv.Atoi(minutePart)
		if err != nil || minute < 0 || minute > 59 {
			return "", &InvalidTimeFormatError{Input: input}
		}

		if isPM && hour != 12 {
			hour += 12
		} else if !isPM && hour == 12 {
			hour = 0
		}

		return fmt.Sprintf("%02d:%02d:00", hour, minute), nil
	}

	if m := bareClockRegex.FindStringSubmatch(value); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return "", &InvalidTimeFormatError{Input: input}
		}
		return fmt.Sprintf("%02d:%02d:00", hour, minute), nil
	}

	return "", &InvalidTimeFormatError{Input: input}
}

// ToDisplayDate renders a canonical date as "Sep 18, 2020".
// Malformed input renders as InvalidDisplayDate.
func (c *Canonicalizer) ToDisplayDate(canonical string) string {
	if canonical == "" {
		return ""
	}

	parsed, err := time.ParseInLocation(CanonicalDateLayout, strings.TrimSpace(canonical), c.loc)
	if err != nil {
		return InvalidDisplayDate
	}
	return parsed.Format(DisplayDateLayout)
}

// ToDisplayTime renders a canonical time as "7:10 AM". Seconds are dropped
// and the minute is kept exactly as stored.
// Malformed input renders as InvalidDisplayTime.
func (c *Canonicalizer) ToDisplayTime(canonical string) string {
	if canonical == "" {
		return ""
	}

	parts := strings.Split(strings.TrimSpace(canonical), ":")
	if len(parts) < 2 {
		return InvalidDisplayTime
	}

	hour24, err := strconv.Atoi(parts[0])
	if err != nil || hour24 < 0 || hour24 > 23 {
		return InvalidDisplayTime
	}
	minutes := parts[1]
	if _, err := strconv.Atoi(minutes); err != nil {
		return InvalidDisplayTime
	}

	meridiem := "PM"
	if hour24 < 12 {
		meridiem = "AM"
	}

	hour12 := hour24
	switch {
	case hour24 == 0:
		hour12 = 12
	case hour24 > 12:
		hour12 = hour24 - 12
	}

	return fmt.Sprintf("%d:%s %s", hour12, minutes, meridiem)
}

// ParseCanonicalDate strictly parses YYYY-MM-DD, rejecting days that do not
// exist on the calendar. The result is midnight in the canonicalizer's location.
func (c *Canonicalizer) ParseCanonicalDate(value string) (time.Time, error) {
	if !canonicalDateRegex.MatchString(value) {
		return time.Time{}, &InvalidDateFormatError{Input: value}
	}
	parsed, err := time.ParseInLocation(CanonicalDateLayout, value, c.loc)
	if err != nil {
		return time.Time{}, &InvalidDateFormatError{Input: value}
	}
	return parsed, nil
}

// ParseCanonicalTime strictly parses HH:MM:SS with hour, minute and second in range
func (c *Canonicalizer) ParseCanonicalTime(value string) (time.Duration, error) {
	if !canonicalTimeRegex.MatchString(value) {
		return 0, &InvalidTimeFormatError{Input: value}
	}
	parsed, err := time.Parse(CanonicalTimeLayout, value)
	if err != nil {
		return 0, &InvalidTimeFormatError{Input: value}
	}
	return time.Duration(parsed.Hour())*time.Hour +
		time.Duration(parsed.Minute())*time.Minute +
		time.Duration(parsed.Second())*time.Second, nil
}

// Combine joins a canonical date and time into an instant in the
// canonicalizer's location
func (c *Canonicalizer) Combine(date, clock string) (time.Time, error) {
	day, err := c.ParseCanonicalDate(date)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := c.ParseCanonicalTime(clock)
	if err != nil {
		return time.Time{}, err
	}
	hour := int(offset / time.Hour)
	minute := int(offset % time.Hour / time.Minute)
	second := int(offset % time.Minute / time.Second)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, c.loc), nil
}

var defaultCanonicalizer = New(time.UTC)

// ToCanonicalDate converts a display date using UTC
func ToCanonicalDate(input string) (string, error) {
	return defaultCanonicalizer.ToCanonicalDate(input)
}

// ToCanonicalTime converts a display time
func ToCanonicalTime(input string) (string, error) {
	return defaultCanonicalizer.ToCanonicalTime(input)
}

// ToDisplayDate renders a canonical date using UTC
func ToDisplayDate(canonical string) string {
	return defaultCanonicalizer.ToDisplayDate(canonical)
}

// ToDisplayTime renders a canonical time
func ToDisplayTime(canonical string) string {
	return defaultCanonicalizer.ToDisplayTime(canonical)
}
