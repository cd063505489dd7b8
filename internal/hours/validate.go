package hours

import "fmt"

// Validate checks a weekly schedule before it is saved. It rejects
// malformed times, empty or inverted ranges, and overlapping periods on
// the same weekday. The slice itself is never modified.
func Validate(periods []WeeklyPeriod) error {
	for _, p := range periods {
		if err := validateRange(p.Open, p.Close); err != nil {
			return fmt.Errorf("%s: %w", p.Day, err)
		}
	}

	for i := 0; i < len(periods); i++ {
		for j := i + 1; j < len(periods); j++ {
			a, b := periods[i], periods[j]
			if a.Day != b.Day {
				continue
			}
			if overlaps(a.Open, a.Close, b.Open, b.Close) {
				return fmt.Errorf("%s: periods %s-%s and %s-%s overlap",
					a.Day, a.Open, a.Close, b.Open, b.Close)
			}
		}
	}
	return nil
}

// ValidateOverrides checks date overrides before save. Closed overrides
// carry no times and are exempt from the range check; open overrides on
// the same date must not overlap.
func ValidateOverrides(overrides []Override) error {
	for _, o := range overrides {
		if o.Closed {
			continue
		}
		if err := validateRange(o.Open, o.Close); err != nil {
			return fmt.Errorf("%s: %w", o.Date, err)
		}
	}

	for i := 0; i < len(overrides); i++ {
		for j := i + 1; j < len(overrides); j++ {
			a, b := overrides[i], overrides[j]
			if a.Date != b.Date || a.Closed || b.Closed {
				continue
			}
			if overlaps(a.Open, a.Close, b.Open, b.Close) {
				return fmt.Errorf("%s: special hours %s-%s and %s-%s overlap",
					a.Date, a.Open, a.Close, b.Open, b.Close)
			}
		}
	}
	return nil
}

func validateRange(open, close string) error {
	if _, _, ok := parseHM(open); !ok {
		return fmt.Errorf("invalid opening time %q", open)
	}
	if _, _, ok := parseHM(close); !ok {
		return fmt.Errorf("invalid closing time %q", close)
	}
	if open >= close {
		return fmt.Errorf("opening time %s must be before closing time %s", open, close)
	}
	return nil
}

// overlaps reports whether two half-open "HH:MM" intervals intersect:
// [aOpen,aClose) overlaps [bOpen,bClose) iff aOpen < bClose && bOpen < aClose.
func overlaps(aOpen, aClose, bOpen, bClose string) bool {
	return aOpen < bClose && bOpen < aClose
}
