package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatPrice renders a price in pence as pounds, e.g. 1250 -> "£12.50".
func FormatPrice(pence int64) string {
	neg := ""
	if pence < 0 {
		neg = "-"
		pence = -pence
	}
	return fmt.Sprintf("%s£%d.%02d", neg, pence/100, pence%100)
}

// ParsePrice parses a decimal pounds value ("12.50", "£12.50", "12") into
// pence. At most two decimal places are accepted.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "£"))
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	whole, frac, _ := strings.Cut(s, ".")
	pounds, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || pounds < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	var pence int64
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		pence = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || d < 0 {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		pence = d
	default:
		return 0, fmt.Errorf("invalid price %q: too many decimal places", s)
	}

	return pounds*100 + pence, nil
}

// FormatDate renders a timestamp in British dd/mm/yyyy form.
// The zero time renders as "Unknown".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("02/01/2006")
}

// FormatItemCode normalizes an item code for display.
func FormatItemCode(code string) string {
	if code == "" {
		return "Unknown"
	}
	return strings.ToUpper(code)
}
