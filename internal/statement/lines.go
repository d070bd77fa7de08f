package statement

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/osoriof/plata/internal/dates"
	"github.com/osoriof/plata/internal/model"
)

// anchorRe matches the start of a movement line: day, three-letter
// month name, four-digit year, then the rest of the line.
var anchorRe = regexp.MustCompile(`^\s*(\d{1,2})\s+([A-Za-z]{3})\s+(\d{4})\s+(.+)$`)

// referenceRe captures a trailing run of six or more digits, which
// statements print as the movement reference number.
var referenceRe = regexp.MustCompile(`(\d{6,})\s*$`)

// extractLines runs the shared line grammar over statement page text.
// Lines that do not anchor a movement are ignored; anchored lines
// without a locatable amount token are dropped with a log, never an
// error, so one malformed line cannot abort the whole statement. skip
// filters out known non-movement lines before anchoring.
func extractLines(text string, skip func(line string) bool) []model.Movement {
	var movements []model.Movement

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if skip != nil && skip(line) {
			continue
		}

		date, rest, ok := anchorLine(line)
		if !ok {
			continue
		}

		movement, ok := parseMovementLine(date, rest)
		if !ok {
			slog.Debug("Dropping anchored line without amount token", "line", line)
			continue
		}
		movements = append(movements, movement)
	}

	return movements
}

// anchorLine reports whether the line starts a movement and returns
// the parsed date plus the remainder of the line.
func anchorLine(line string) (time.Time, string, bool) {
	m := anchorRe.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, "", false
	}

	month, ok := dates.MonthFromAbbrev(m[2])
	if !ok {
		return time.Time{}, "", false
	}

	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	if day < 1 || day > 31 {
		return time.Time{}, "", false
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		// Normalization moved the date: day out of range for month.
		return time.Time{}, "", false
	}

	return date, m[4], true
}

// parseMovementLine splits the rest-of-line text into description,
// reference, and signed amount.
func parseMovementLine(date time.Time, rest string) (model.Movement, bool) {
	start, token, ok := findAmountToken(rest)
	if !ok {
		return model.Movement{}, false
	}

	amount, err := parseAmount(token)
	if err != nil {
		slog.Debug("Dropping line with malformed amount", "token", token, "error", err)
		return model.Movement{}, false
	}

	span := strings.TrimSpace(rest[:start])

	reference := ""
	if m := referenceRe.FindStringSubmatch(span); m != nil {
		reference = m[1]
		span = strings.TrimSpace(span[:len(span)-len(m[0])])
	}

	return model.Movement{
		Date:        date,
		Amount:      amount,
		Description: span,
		Reference:   reference,
	}, true
}
