package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nextgen-hub/studenthub/internal"
)

func moods(labels ...string) []internal.MoodEntry {
	out := make([]internal.MoodEntry, len(labels))
	now := time.Now()
	for i, l := range labels {
		out[i] = internal.MoodEntry{Mood: l, CreatedAt: now.Add(-time.Duration(i) * time.Hour)}
	}
	return out
}

func repeat(label string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = label
	}
	return out
}

func TestMoodTrend(t *testing.T) {
	tests := []struct {
		name    string
		entries []internal.MoodEntry
		want    Trend
	}{
		{name: "empty", entries: nil, want: TrendNeutral},
		{name: "single amazing", entries: moods("amazing"), want: TrendNeutral},
		{name: "all amazing", entries: moods(repeat("amazing", 7)...), want: TrendUp},
		{name: "all terrible", entries: moods(repeat("terrible", 7)...), want: TrendDown},
		{name: "exactly 2.5 is neutral", entries: moods("good", "okay"), want: TrendNeutral},
		{name: "exactly 1.5 is neutral", entries: moods("bad", "okay"), want: TrendNeutral},
		{name: "alternating good and bad", entries: moods("good", "bad", "good", "bad"), want: TrendNeutral},
		{name: "just above 2.5", entries: moods("amazing", "okay", "okay"), want: TrendUp},
		{name: "only last seven count",
			entries: moods(append(repeat("terrible", 7), repeat("amazing", 10)...)...), want: TrendDown},
		{name: "unknown moods skipped", entries: moods("ecstatic", "good", "amazing"), want: TrendUp},
		{name: "all unknown", entries: moods("meh", "blah"), want: TrendNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MoodTrend(tt.entries))
		})
	}
}

func TestMoodRank(t *testing.T) {
	r, ok := MoodRank("terrible")
	assert.True(t, ok)
	assert.Equal(t, 0, r)
	r, ok = MoodRank("amazing")
	assert.True(t, ok)
	assert.Equal(t, 4, r)
	_, ok = MoodRank("fine")
	assert.False(t, ok)
}

func TestCountSince(t *testing.T) {
	now := time.Now()
	entries := []internal.MoodEntry{
		{Mood: "good", CreatedAt: now.AddDate(0, 0, -1)},
		{Mood: "okay", CreatedAt: now.AddDate(0, 0, -6)},
		{Mood: "bad", CreatedAt: now.AddDate(0, 0, -8)},
	}
	assert.Equal(t, 2, CountSince(entries, now.AddDate(0, 0, -7)))
	assert.Equal(t, 0, CountSince(nil, now))
}
