// Package dates parses the date formats that appear in bank statements
// and manual entry: ISO dates plus day/month-name/year variants with
// English or Spanish month abbreviations.
package dates

import (
	"strings"
	"time"
)

// englishMonths maps English three-letter abbreviations to months.
var englishMonths = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// spanishMonths maps Spanish three-letter abbreviations to months.
var spanishMonths = map[string]time.Month{
	"ene": time.January,
	"feb": time.February,
	"mar": time.March,
	"abr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dic": time.December,
}

// monthAbbrevs is the merged lookup table used everywhere a month name
// is resolved. Spanish entries are merged second and override English
// on shared keys ("feb", "mar", "may", ...). Statements arrive in both
// locales and the keys the two tables share all resolve to the same
// month today, but the override order is load-bearing and pinned by a
// test so a future table edit cannot silently change resolution.
var monthAbbrevs = buildMonthAbbrevs()

func buildMonthAbbrevs() map[string]time.Month {
	merged := make(map[string]time.Month, len(englishMonths)+len(spanishMonths))
	for abbrev, month := range englishMonths {
		merged[abbrev] = month
	}
	for abbrev, month := range spanishMonths {
		merged[abbrev] = month
	}
	return merged
}

// MonthFromAbbrev resolves a three-letter month abbreviation in either
// supported locale. Matching is case-insensitive.
func MonthFromAbbrev(abbrev string) (time.Month, bool) {
	month, ok := monthAbbrevs[strings.ToLower(strings.TrimSpace(abbrev))]
	return month, ok
}
