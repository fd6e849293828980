package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const canonicalDateLayout = "02-01-2006"

var (
	ddmmyyyyRe      = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	yyyymmddRe      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	ddmmyyyySlashRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
)

// serialDateAnchor is the epoch for spreadsheet serial-date numbers.
// The effective formula is anchor + (serial − 1) days: together with the
// anchor one day after the scheme's nominal epoch, this reproduces the
// historical 1900 leap-year quirk of the numbering scheme. Previously
// exported data depends on this exact offset; do not change it without a
// migration for already-imported dates.
var serialDateAnchor = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// ParseCanonicalDate parses a canonical DD-MM-YYYY string. The second
// return is false for any other shape, including the empty string.
func ParseCanonicalDate(s string) (time.Time, bool) {
	if !ddmmyyyyRe.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(canonicalDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeDate converts a date-like cell to the canonical DD-MM-YYYY
// string, or "" when the cell is blank or the value cannot be interpreted.
// It never fails: unrecognized non-empty strings pass through unchanged as
// a best effort.
func NormalizeDate(c Cell) string {
	switch c.Kind {
	case CellEmpty:
		return ""
	case CellString:
		return normalizeDateString(c.Str)
	case CellNumber:
		return normalizeSerialDate(c.Num)
	case CellTime:
		return c.Time.Format(canonicalDateLayout)
	default:
		return ""
	}
}

func normalizeDateString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Already canonical.
	if ddmmyyyyRe.MatchString(s) {
		return s
	}

	// ISO order, reorder to canonical.
	if m := yyyymmddRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
	}

	// Slash-separated day-first, swap separators.
	if m := ddmmyyyySlashRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	}

	// Best-effort passthrough for anything else non-empty.
	return s
}

func normalizeSerialDate(serial float64) string {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return ""
	}
	days := int(math.Trunc(serial))
	if days < 1 {
		return ""
	}
	return serialDateAnchor.AddDate(0, 0, days-1).Format(canonicalDateLayout)
}
