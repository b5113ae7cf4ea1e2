package rrule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ParseRule parses an RFC 5545 RRULE string anchored at dtstart.
func ParseRule(ruleStr string, dtstart time.Time, loc *time.Location) (*rrule.RRule, error) {
	// Handle RRULE: prefix if present
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}

	// Timestamps are stored without timezone and read back as UTC, but the
	// clock values are venue-local. Reinterpret them in loc so occurrence
	// times land on the right wall clock.
	opt.Dtstart = time.Date(
		dtstart.Year(), dtstart.Month(), dtstart.Day(),
		dtstart.Hour(), dtstart.Minute(), dtstart.Second(), dtstart.Nanosecond(),
		loc,
	)
	return rrule.NewRRule(*opt)
}

// NextOccurrence returns the first occurrence strictly after the given time.
// Returns nil if the rule produces no more occurrences.
func NextOccurrence(ruleStr string, dtstart time.Time, after time.Time, loc *time.Location) (*time.Time, error) {
	rule, err := ParseRule(ruleStr, dtstart, loc)
	if err != nil {
		return nil, err
	}

	next := rule.After(after.In(loc), false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// IsRecurring checks if the RRULE string represents a recurring event
func IsRecurring(ruleStr string) bool {
	return ruleStr != "" && strings.Contains(strings.ToUpper(ruleStr), "FREQ=")
}
