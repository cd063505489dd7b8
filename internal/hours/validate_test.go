package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate_OK(t *testing.T) {
	periods := []WeeklyPeriod{
		{Day: time.Monday, Open: "09:00", Close: "12:00"},
		{Day: time.Monday, Open: "13:00", Close: "17:00"},
		{Day: time.Tuesday, Open: "09:00", Close: "17:00"},
	}

	assert.NoError(t, Validate(periods))
}

func TestValidate_RejectsOverlap(t *testing.T) {
	periods := []WeeklyPeriod{
		{Day: time.Monday, Open: "09:00", Close: "12:00"},
		{Day: time.Monday, Open: "11:00", Close: "14:00"},
	}

	err := Validate(periods)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}

func TestValidate_AdjacentPeriodsDoNotOverlap(t *testing.T) {
	periods := []WeeklyPeriod{
		{Day: time.Monday, Open: "09:00", Close: "12:00"},
		{Day: time.Monday, Open: "12:00", Close: "17:00"},
	}

	assert.NoError(t, Validate(periods))
}

func TestValidate_SameTimesDifferentDays(t *testing.T) {
	periods := []WeeklyPeriod{
		{Day: time.Monday, Open: "09:00", Close: "17:00"},
		{Day: time.Tuesday, Open: "09:00", Close: "17:00"},
	}

	assert.NoError(t, Validate(periods))
}

func TestValidate_RejectsInvertedRange(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Friday, Open: "17:00", Close: "09:00"}}

	assert.Error(t, Validate(periods))
}

func TestValidate_RejectsEmptyRange(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Friday, Open: "09:00", Close: "09:00"}}

	assert.Error(t, Validate(periods))
}

func TestValidate_RejectsMalformedTime(t *testing.T) {
	periods := []WeeklyPeriod{{Day: time.Friday, Open: "9am", Close: "17:00"}}

	assert.Error(t, Validate(periods))
}

func TestValidateOverrides_OK(t *testing.T) {
	overrides := []Override{
		{Date: "2026-12-24", Open: "09:00", Close: "13:00"},
		{Date: "2026-12-25", Closed: true},
	}

	assert.NoError(t, ValidateOverrides(overrides))
}

func TestValidateOverrides_ClosedSkipsRangeCheck(t *testing.T) {
	overrides := []Override{{Date: "2026-12-25", Closed: true, Open: "", Close: ""}}

	assert.NoError(t, ValidateOverrides(overrides))
}

func TestValidateOverrides_RejectsSameDateOverlap(t *testing.T) {
	overrides := []Override{
		{Date: "2026-12-24", Open: "09:00", Close: "12:00"},
		{Date: "2026-12-24", Open: "11:00", Close: "14:00"},
	}

	err := ValidateOverrides(overrides)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}

func TestValidateOverrides_RejectsInvertedRange(t *testing.T) {
	overrides := []Override{{Date: "2026-12-24", Open: "14:00", Close: "09:00"}}

	assert.Error(t, ValidateOverrides(overrides))
}
