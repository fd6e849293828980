package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate_Strings(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "canonical passthrough", input: "15-01-2024", expected: "15-01-2024"},
		{name: "iso reordered", input: "2024-03-05", expected: "05-03-2024"},
		{name: "slash reordered", input: "05/03/2024", expected: "05-03-2024"},
		{name: "unrecognized passthrough", input: "mid January", expected: "mid January"},
		{name: "whitespace trimmed", input: "  2024-03-05  ", expected: "05-03-2024"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeDate(StringCell(tc.input)))
		})
	}
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	inputs := []string{"2024-03-05", "05/03/2024", "15-01-2024"}
	for _, input := range inputs {
		once := NormalizeDate(StringCell(input))
		twice := NormalizeDate(StringCell(once))
		assert.Equal(t, once, twice, "normalizing %q twice must be stable", input)
	}
}

func TestNormalizeDate_SerialNumbers(t *testing.T) {
	testCases := []struct {
		name     string
		serial   float64
		expected string
	}{
		// 45306 is 15-Jan-2024 under the anchor + (n-1) days rule.
		{name: "known serial", serial: 45306, expected: "15-01-2024"},
		{name: "serial one is the anchor day", serial: 1, expected: "31-12-1899"},
		{name: "zero is unusable", serial: 0, expected: ""},
		{name: "negative is unusable", serial: -3, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeDate(NumberCell(tc.serial)))
		})
	}
}

func TestNormalizeDate_TimeAndEmptyCells(t *testing.T) {
	assert.Equal(t, "", NormalizeDate(Cell{}))
	assert.Equal(t, "", NormalizeDate(StringCell("   ")))

	d := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "15-01-2024", NormalizeDate(TimeCell(d)))
}

func TestParseCanonicalDate(t *testing.T) {
	parsed, ok := ParseCanonicalDate("15-01-2024")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), parsed)

	for _, bad := range []string{"", "2024-01-15", "15/01/2024", "99-99-2024", "soon"} {
		_, ok := ParseCanonicalDate(bad)
		assert.False(t, ok, "input %q must not parse", bad)
	}
}
