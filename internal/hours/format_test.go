package hours

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo12Hour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:00", "12:00 AM"},
		{"00:30", "12:30 AM"},
		{"01:05", "1:05 AM"},
		{"11:59", "11:59 AM"},
		{"12:00", "12:00 PM"},
		{"12:01", "12:01 PM"},
		{"13:05", "1:05 PM"},
		{"23:59", "11:59 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, To12Hour(tt.in))
		})
	}
}

func TestTo24Hour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12:00 AM", "00:00"},
		{"12:30 AM", "00:30"},
		{"1:05 AM", "01:05"},
		{"11:59 AM", "11:59"},
		{"12:00 PM", "12:00"},
		{"1:05 PM", "13:05"},
		{"11:59 PM", "23:59"},
		{"11:59 pm", "23:59"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, To24Hour(tt.in))
		})
	}
}

func TestConversionRoundTrip(t *testing.T) {
	// Every minute of the day must round-trip exactly.
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			hm := fmt.Sprintf("%02d:%02d", h, m)
			if got := To24Hour(To12Hour(hm)); got != hm {
				t.Fatalf("round trip failed: %s -> %s -> %s", hm, To12Hour(hm), got)
			}
		}
	}
}

func TestConversionsAreTotal(t *testing.T) {
	malformed := []string{"", "9:00", "25:00", "12:60", "noon", "12:00PM", "13:05 XM", "hh:mm"}

	for _, s := range malformed {
		assert.Equal(t, s, To12Hour(s), "To12Hour(%q)", s)
		assert.Equal(t, s, To24Hour(s), "To24Hour(%q)", s)
	}
}
