package importer

import (
	"strconv"
	"strings"
	"time"
)

// Excel serial dates count days from 1899-12-30 (the off-by-two Lotus epoch).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Text date layouts tried in order after the unambiguous ones. DD/MM/YYYY is
// preferred over MM/DD/YYYY, matching the source market's convention.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// CoerceDate converts a raw cell into a timestamp. It accepts numeric
// Excel-style serial day counts (fractional part is time of day) and the text
// layouts above. Returns nil when nothing parses; it never fails.
func CoerceDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	// Excel serial date: days since the epoch; the fractional part is the
	// time of day. Rounded to the nearest second to absorb float noise.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 0 {
			return nil
		}
		d := time.Duration(serial * 24 * float64(time.Hour)).Round(time.Second)
		t := excelEpoch.Add(d)
		return &t
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}

// currencyStripper removes currency symbols, thousands separators and
// whitespace ahead of numeric parsing.
var currencyStripper = strings.NewReplacer(
	"₹", "",
	"Rs.", "",
	"Rs", "",
	"INR", "",
	"$", "",
	"€", "",
	"£", "",
	",", "",
	" ", "",
	" ", "",
)

// CoerceDecimal parses a currency-ish cell into a float. Zero is a legitimate
// value, so failures return nil rather than 0.
func CoerceDecimal(raw string) *float64 {
	s := currencyStripper.Replace(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// CoerceInt parses an integer cell, tolerating float renderings like "2.0".
func CoerceInt(raw string) *int {
	s := currencyStripper.Replace(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}

	// Spreadsheets frequently render integer cells as floats.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		return &n
	}

	return nil
}

// CoerceString trims the cell; an empty result is the same state as "no value".
func CoerceString(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}
