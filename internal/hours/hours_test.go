package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mondayAt returns a time.Time on a known Monday (2026-03-02) at the given
// local clock time in the given zone.
func mondayAt(t *testing.T, hour, minute int, tz string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load location %s: %v", tz, err)
	}
	return time.Date(2026, 3, 2, hour, minute, 0, 0, loc)
}

func TestComputeStatus_WeeklyOpen(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}

	s := ComputeStatus(periods, nil, mondayAt(t, 10, 0, "UTC"), "UTC")

	assert.True(t, s.IsOpen)
	assert.Equal(t, "Open until 5:00 PM", s.Label)
}

func TestComputeStatus_WeeklyAfterClose(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}

	s := ComputeStatus(periods, nil, mondayAt(t, 18, 0, "UTC"), "UTC")

	assert.False(t, s.IsOpen)
	assert.Equal(t, "Closed today", s.Label)
}

func TestComputeStatus_WeeklyBeforeOpen(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}

	s := ComputeStatus(periods, nil, mondayAt(t, 8, 0, "UTC"), "UTC")

	assert.False(t, s.IsOpen)
	assert.Equal(t, "Opens at 9:00 AM", s.Label)
}

func TestComputeStatus_BoundariesAreHalfOpen(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}

	atOpen := ComputeStatus(periods, nil, mondayAt(t, 9, 0, "UTC"), "UTC")
	assert.True(t, atOpen.IsOpen)

	atClose := ComputeStatus(periods, nil, mondayAt(t, 17, 0, "UTC"), "UTC")
	assert.False(t, atClose.IsOpen)
}

func TestComputeStatus_SplitDayFindsNextOpening(t *testing.T) {
	periods := []WeeklyPeriod{
		{Day: time.Monday, Open: "18:00", Close: "22:00"},
		{Day: time.Monday, Open: "11:00", Close: "14:00"},
	}

	s := ComputeStatus(periods, nil, mondayAt(t, 15, 0, "UTC"), "UTC")

	assert.False(t, s.IsOpen)
	assert.Equal(t, "Opens at 6:00 PM", s.Label)
}

func TestComputeStatus_NoScheduleForToday(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Tuesday, Open: "09:00", Close: "17:00"}}

	s := ComputeStatus(periods, nil, mondayAt(t, 10, 0, "UTC"), "UTC")

	assert.False(t, s.IsOpen)
	assert.Equal(t, "Closed today", s.Label)
}

func TestComputeStatus_ClosedOverrideBeatsWeekly(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}
	overrides := []Override{{Date: "2026-03-02", Closed: true, Note: "inventory day"}}

	s := ComputeStatus(periods, overrides, mondayAt(t, 10, 0, "UTC"), "UTC")

	assert.False(t, s.IsOpen)
	assert.Equal(t, "Closed today (special hours)", s.Label)
}

func TestComputeStatus_TimedOverride(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}
	overrides := []Override{{Date: "2026-03-02", Open: "12:00", Close: "15:00"}}

	within := ComputeStatus(periods, overrides, mondayAt(t, 13, 0, "UTC"), "UTC")
	assert.True(t, within.IsOpen)
	assert.Equal(t, "Open until 3:00 PM (special hours)", within.Label)

	// 10:00 is inside the weekly period, but the override owns the day.
	before := ComputeStatus(periods, overrides, mondayAt(t, 10, 0, "UTC"), "UTC")
	assert.False(t, before.IsOpen)
	assert.Equal(t, "Opens at 12:00 PM (special hours)", before.Label)
}

func TestComputeStatus_SplitOverrideDay(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}
	overrides := []Override{
		{Date: "2026-03-02", Open: "09:00", Close: "12:00"},
		{Date: "2026-03-02", Open: "14:00", Close: "18:00"},
	}
	assert.NoError(t, ValidateOverrides(overrides))

	// Inside the second window: open, regardless of override ordering.
	within := ComputeStatus(periods, overrides, mondayAt(t, 15, 0, "UTC"), "UTC")
	assert.True(t, within.IsOpen)
	assert.Equal(t, "Open until 6:00 PM (special hours)", within.Label)

	// Between windows: closed, with the next window as the opening time.
	between := ComputeStatus(periods, overrides, mondayAt(t, 13, 0, "UTC"), "UTC")
	assert.False(t, between.IsOpen)
	assert.Equal(t, "Opens at 2:00 PM (special hours)", between.Label)

	// After the last window: closed with no further opening today.
	after := ComputeStatus(periods, overrides, mondayAt(t, 19, 0, "UTC"), "UTC")
	assert.False(t, after.IsOpen)
	assert.Equal(t, "Closed (special hours)", after.Label)
}

func TestComputeStatus_ClosedOverrideBeatsSameDateWindows(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}
	overrides := []Override{
		{Date: "2026-03-02", Open: "09:00", Close: "17:00"},
		{Date: "2026-03-02", Closed: true},
	}

	s := ComputeStatus(periods, overrides, mondayAt(t, 10, 0, "UTC"), "UTC")

	assert.False(t, s.IsOpen)
	assert.Equal(t, "Closed today (special hours)", s.Label)
}

func TestComputeStatus_OverrideOnOtherDateIgnored(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}
	overrides := []Override{{Date: "2026-03-03", Closed: true}}

	s := ComputeStatus(periods, overrides, mondayAt(t, 10, 0, "UTC"), "UTC")

	assert.True(t, s.IsOpen)
}

func TestComputeStatus_TimezoneLocalDate(t *testing.T) {
	// 2026-03-03 02:00 UTC is still Monday evening 2026-03-02 in Los Angeles,
	// so the Monday schedule and Monday override apply.
	loc, err := time.LoadLocation("UTC")
	assert.NoError(t, err)
	now := time.Date(2026, 3, 3, 2, 0, 0, 0, loc)

	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "21:00"}}

	s := ComputeStatus(periods, nil, now, "America/Los_Angeles")
	assert.True(t, s.IsOpen)
}

func TestComputeStatus_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Monday, Open: "09:00", Close: "17:00"}}

	s := ComputeStatus(periods, nil, mondayAt(t, 10, 0, "UTC"), "Mars/Olympus_Mons")

	assert.True(t, s.IsOpen)
}
