package timemodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressOf(t *testing.T) {
	tests := []struct {
		name string
		in   Components
		want Progress
	}{
		{name: "midnight", in: Components{0, 0, 0}, want: Progress{0, 0, 0}},
		{name: "six am", in: Components{6, 0, 0}, want: Progress{Hour: 0.5}},
		{name: "noon wraps", in: Components{12, 0, 0}, want: Progress{Hour: 0}},
		{name: "six pm", in: Components{18, 0, 0}, want: Progress{Hour: 0.5}},
		{
			name: "half past with seconds",
			in:   Components{Hour: 3, Minute: 30, Second: 30},
			want: Progress{
				Hour:   (3 + (30+0.5)/60) / 12,
				Minute: (30 + 0.5) / 60,
				Second: 0.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressOf(tt.in)
			assert.InDelta(t, tt.want.Hour, got.Hour, 1e-12)
			assert.InDelta(t, tt.want.Minute, got.Minute, 1e-12)
			assert.InDelta(t, tt.want.Second, got.Second, 1e-12)
		})
	}
}

func TestProgressStaysBelowOne(t *testing.T) {
	p := ProgressOf(Components{Hour: 23, Minute: 59, Second: 59.999999999})
	assert.Less(t, p.Hour, 1.0)
	assert.Less(t, p.Minute, 1.0)
	assert.Less(t, p.Second, 1.0)
	assert.GreaterOrEqual(t, p.Hour, 0.0)
}

func TestProgressAtMidnightRollover(t *testing.T) {
	before := time.Date(2025, 12, 31, 23, 59, 59, 500_000_000, time.UTC)
	after := before.Add(500 * time.Millisecond)

	pb := ProgressAt(before, time.UTC)
	pa := ProgressAt(after, time.UTC)

	assert.Greater(t, pb.Hour, 0.99)
	assert.Greater(t, pb.Minute, 0.99)
	assert.Equal(t, Progress{}, pa)
}

func TestProgressAtAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10: clocks jump from 02:00 EST to 03:00 EDT.
	beforeJump := time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC) // 01:30 EST
	afterJump := time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC)  // 03:30 EDT

	assert.InDelta(t, 1.5/12, ProgressAt(beforeJump, ny).Hour, 1e-12)
	assert.InDelta(t, 3.5/12, ProgressAt(afterJump, ny).Hour, 1e-12)
}

func TestProgressAtNilLocationUsesLocal(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 15, 0, 0, time.Local)
	assert.Equal(t, ProgressAt(now, time.Local), ProgressAt(now, nil))
}

func TestDigitalTime(t *testing.T) {
	tests := []struct {
		name              string
		hour, min, second int
		format            Format
		want              string
	}{
		{"24h with seconds", 14, 30, 45, Format{Use24Hour: true, ShowSeconds: true}, "14:30:45"},
		{"24h zero padded", 9, 5, 7, Format{Use24Hour: true, ShowSeconds: true}, "09:05:07"},
		{"24h no seconds", 14, 30, 45, Format{Use24Hour: true}, "14:30"},
		{"12h morning", 9, 30, 45, Format{ShowSeconds: true}, "9:30:45 AM"},
		{"12h midnight", 0, 0, 0, Format{ShowSeconds: true}, "12:00:00 AM"},
		{"12h noon", 12, 1, 0, Format{}, "12:01 PM"},
		{"12h evening", 23, 59, 59, Format{ShowSeconds: true}, "11:59:59 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DigitalTime(tt.hour, tt.min, tt.second, tt.format))
		})
	}
}

func TestDigitalTimeTwelveHourContainsParts(t *testing.T) {
	s := DigitalTime(9, 30, 45, Format{ShowSeconds: true})
	assert.Contains(t, s, "9:30:45")
	assert.Contains(t, s, "AM")
}

func TestDigitalTimeAt(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	instant := time.Date(2025, 1, 1, 0, 0, 5, 0, time.UTC)
	assert.Equal(t, "09:00:05", DigitalTimeAt(instant, tokyo, Format{Use24Hour: true, ShowSeconds: true}))
}

func TestHandAngles(t *testing.T) {
	tests := []struct {
		hour, minute         int
		wantHour, wantMinute float64
	}{
		{11, 33, 346.5, 198},
		{11, 15, 337.5, 90},
		{0, 0, 0, 0},
		{12, 0, 0, 0},
		{23, 59, 359.5, 354},
		{6, 30, 195, 180},
	}

	for _, tt := range tests {
		h, m := HandAngles(tt.hour, tt.minute)
		assert.Equal(t, tt.wantHour, h, "hour angle for %02d:%02d", tt.hour, tt.minute)
		assert.Equal(t, tt.wantMinute, m, "minute angle for %02d:%02d", tt.hour, tt.minute)
	}
}

func TestHandAnglesAllMinutes(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			h, m := HandAngles(hour, minute)
			assert.Equal(t, float64(minute)*6, m)
			assert.Equal(t, float64(hour%12)*30+float64(minute)*0.5, h)
		}
	}
}

func TestIsInAnimationWindow(t *testing.T) {
	inside := []float64{59, 59.0, 59.5, 59.9, 59.999}
	outside := []float64{0, 30, 58, 58.99, 58.999999}

	for _, s := range inside {
		assert.True(t, IsInAnimationWindow(s), "second %v should be inside the window", s)
	}
	for _, s := range outside {
		assert.False(t, IsInAnimationWindow(s), "second %v should be outside the window", s)
	}
}
