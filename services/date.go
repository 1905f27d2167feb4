package services

import (
	"fmt"
	"log"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	parsedTime, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// NormalizeDate truncates a date string to day precision ("YYYY-MM-DD").
// Plain day strings pass through, full timestamps are cut down, and anything
// unparseable is returned unchanged as a best-effort no-op; upstream
// validation owns correctness for those.
func NormalizeDate(dateStr string) string {
	if len(dateStr) == len(dateLayout) {
		if _, err := time.Parse(dateLayout, dateStr); err == nil {
			return dateStr
		}
	}

	if parsed, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return parsed.Format(dateLayout)
	}
	if len(dateStr) > len(dateLayout) {
		if parsed, err := time.Parse(dateLayout, dateStr[:len(dateLayout)]); err == nil {
			return parsed.Format(dateLayout)
		}
	}

	log.Printf("NormalizeDate: leaving unparseable date %q unchanged", dateStr)
	return dateStr
}

// FormatDMY renders "YYYY-MM-DD" as "DD.MM.YYYY" for report labels.
// Unparseable input is returned unchanged.
func FormatDMY(dateISO string) string {
	parsed, err := time.Parse(dateLayout, dateISO)
	if err != nil {
		return dateISO
	}
	return parsed.Format("02.01.2006")
}
