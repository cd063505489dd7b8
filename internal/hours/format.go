package hours

import (
	"fmt"
	"strconv"
	"strings"
)

// parseHM splits a zero-padded "HH:MM" value. ok is false for anything
// malformed or out of range.
func parseHM(s string) (hour, minute int, ok bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// To12Hour converts "HH:MM" to "H:MM AM/PM". Midnight is "12:00 AM" and
// noon is "12:00 PM". Malformed input is returned unchanged; the function
// is total and never fails.
func To12Hour(hm string) string {
	h, m, ok := parseHM(hm)
	if !ok {
		return hm
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, m, suffix)
}

// To24Hour converts "H:MM AM/PM" back to "HH:MM". It is the exact inverse
// of To12Hour for well-formed values: "12:00 AM" is "00:00" and "12:00 PM"
// is "12:00". Malformed input is returned unchanged.
func To24Hour(s string) string {
	fields := strings.SplitN(s, " ", 2)
	if len(fields) != 2 {
		return s
	}
	suffix := strings.ToUpper(fields[1])
	if suffix != "AM" && suffix != "PM" {
		return s
	}

	parts := strings.SplitN(fields[0], ":", 2)
	if len(parts) != 2 {
		return s
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return s
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return s
	}
	if h < 1 || h > 12 || m < 0 || m > 59 {
		return s
	}

	if suffix == "AM" {
		if h == 12 {
			h = 0
		}
	} else if h != 12 {
		h += 12
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
