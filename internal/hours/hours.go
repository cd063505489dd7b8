// Package hours computes open/closed status for a storefront from its
// weekly schedule and date-specific overrides, and validates schedules
// before they are persisted.
//
// Times are minute-resolution "HH:MM" strings in the store's local
// timezone. Because values are zero-padded, ordering is plain string
// comparison. Overnight spans (close before open) are not supported.
package hours

import (
	"fmt"
	"time"
)

// WeeklyPeriod is one open interval on a weekday. A weekday may carry
// several non-overlapping periods (e.g. split lunch/dinner service).
type WeeklyPeriod struct {
	Day   time.Weekday `json:"day"`
	Open  string       `json:"open"`
	Close string       `json:"close"`
}

// Override is a date-specific exception to the weekly schedule. When
// Closed is set the store is shut for the whole date and Open/Close are
// ignored.
type Override struct {
	Date   string `json:"date"` // YYYY-MM-DD, store-local calendar date
	Closed bool   `json:"isClosed"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Note   string `json:"note,omitempty"`
}

// Status is the live open/closed state with a display label.
type Status struct {
	IsOpen bool   `json:"isOpen"`
	Label  string `json:"label"`
}

const localDateLayout = "2006-01-02"

// ComputeStatus evaluates the store's status at the given instant.
//
// Today's override, if any, takes precedence over the weekly schedule. An
// unknown timezone falls back to UTC rather than failing; status display
// degrades, it never errors.
func ComputeStatus(periods []WeeklyPeriod, overrides []Override, now time.Time, timezone string) Status {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := local.Format(localDateLayout)
	nowHM := local.Format("15:04")

	// A date may carry several non-overlapping windows (split service), so
	// all of today's overrides are scanned before concluding closed. A
	// Closed override shuts the whole date regardless of other windows.
	for _, o := range overrides {
		if o.Date == today && o.Closed {
			return Status{IsOpen: false, Label: "Closed today (special hours)"}
		}
	}

	overridesToday := false
	var nextSpecial string
	for _, o := range overrides {
		if o.Date != today {
			continue
		}
		overridesToday = true
		if o.Open <= nowHM && nowHM < o.Close {
			return Status{IsOpen: true, Label: fmt.Sprintf("Open until %s (special hours)", To12Hour(o.Close))}
		}
		if o.Open > nowHM && (nextSpecial == "" || o.Open < nextSpecial) {
			nextSpecial = o.Open
		}
	}
	if overridesToday {
		if nextSpecial != "" {
			return Status{IsOpen: false, Label: fmt.Sprintf("Opens at %s (special hours)", To12Hour(nextSpecial))}
		}
		return Status{IsOpen: false, Label: "Closed (special hours)"}
	}

	var nextOpen string
	for _, p := range periods {
		if p.Day != local.Weekday() {
			continue
		}
		if p.Open <= nowHM && nowHM < p.Close {
			return Status{IsOpen: true, Label: fmt.Sprintf("Open until %s", To12Hour(p.Close))}
		}
		if p.Open > nowHM && (nextOpen == "" || p.Open < nextOpen) {
			nextOpen = p.Open
		}
	}

	if nextOpen != "" {
		return Status{IsOpen: false, Label: fmt.Sprintf("Opens at %s", To12Hour(nextOpen))}
	}
	return Status{IsOpen: false, Label: "Closed today"}
}
