package ui

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/doridoridoriand/pingclock/internal/timeline"
)

func TestFormatLastResponse(t *testing.T) {
	if got := formatLastResponse(nil); got != "N/A" {
		t.Fatalf("expected N/A for nil, got %q", got)
	}
	millis := 42.35
	if got := formatLastResponse(&millis); got != "42.3ms" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestSlotAngle(t *testing.T) {
	// 0 degrees is 12 o'clock, which the screen coordinate system puts at
	// -pi/2.
	cases := []struct {
		degrees float64
		want    float64
	}{
		{0, -math.Pi / 2},
		{90, 0},
		{180, math.Pi / 2},
		{270, math.Pi},
	}
	for _, tc := range cases {
		if got := slotAngle(tc.degrees); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("slotAngle(%v): expected %v, got %v", tc.degrees, tc.want, got)
		}
	}
}

func TestRGBColor(t *testing.T) {
	c := rgbColor(timeline.RGB{R: 0, G: 255, B: 0})
	if c != tcell.NewRGBColor(0, 255, 0) {
		t.Fatalf("unexpected color %v", c)
	}
}
