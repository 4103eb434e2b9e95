// internal/normalize/date.go
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Excel serial 25569 corresponds to 1970-01-01 (Unix epoch, 1900 date system).
const excelEpochOffset = 25569

var unixEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Cell date layouts seen across the source workbooks, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"2 Jan 2006",
}

// ParseDate converts a cell value into a UTC time.
//
//  1. Numeric values are Excel serial dates: epoch + (serial − 25569) days.
//     Fractional serials carry the time of day.
//  2. Otherwise the string is tried against the known workbook layouts.
//  3. Anything else yields nil.
func ParseDate(cell string) *time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		t := unixEpoch.Add(time.Duration((serial - excelEpochOffset) * float64(24*time.Hour)))
		return &t
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// InPeriod reports whether t falls in the given month and year. A nil date is
// never in period.
func InPeriod(t *time.Time, month, year int) bool {
	if t == nil {
		return false
	}
	return int(t.Month()) == month && t.Year() == year
}

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseMonthYear reads target-sheet month cells such as "Aug-2025",
// "August 2025" or "8/2025". Returns (0, 0, false) when the cell does not
// name a month and a 4-digit year.
func ParseMonthYear(cell string) (month, year int, ok bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, 0, false
	}

	fields := strings.FieldsFunc(cell, func(r rune) bool {
		return r == '-' || r == '/' || r == ' ' || r == ','
	})
	if len(fields) != 2 {
		return 0, 0, false
	}

	y, err := strconv.Atoi(fields[1])
	if err != nil || y < 1000 || y > 9999 {
		return 0, 0, false
	}

	if m, found := monthNames[strings.ToLower(fields[0])]; found {
		return int(m), y, true
	}
	if m, err := strconv.Atoi(fields[0]); err == nil && m >= 1 && m <= 12 {
		return m, y, true
	}
	return 0, 0, false
}
