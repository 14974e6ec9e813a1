package metrics

import (
	"time"

	"github.com/nextgen-hub/studenthub/internal"
)

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// trendWindow is how many of the most recent entries feed the trend.
const trendWindow = 7

var moodRanks = map[string]int{
	internal.MoodTerrible: 0,
	internal.MoodBad:      1,
	internal.MoodOkay:     2,
	internal.MoodGood:     3,
	internal.MoodAmazing:  4,
}

// MoodRank orders mood labels from terrible (0) to amazing (4).
func MoodRank(mood string) (int, bool) {
	r, ok := moodRanks[mood]
	return r, ok
}

// MoodTrend classifies the recent trajectory of entries, which must be ordered
// newest first. The mean rank of the latest seven entries above 2.5 is up, below
// 1.5 is down, anything in between (inclusive) is neutral. Entries with an
// unknown mood inside the window are ignored.
func MoodTrend(entries []internal.MoodEntry) Trend {
	if len(entries) < 2 {
		return TrendNeutral
	}
	window := entries
	if len(window) > trendWindow {
		window = window[:trendWindow]
	}

	sum, n := 0, 0
	for _, e := range window {
		r, ok := MoodRank(e.Mood)
		if !ok {
			continue
		}
		sum += r
		n++
	}
	if n == 0 {
		return TrendNeutral
	}

	avg := float64(sum) / float64(n)
	switch {
	case avg > 2.5:
		return TrendUp
	case avg < 1.5:
		return TrendDown
	default:
		return TrendNeutral
	}
}

// CountSince counts entries created strictly after since.
func CountSince(entries []internal.MoodEntry, since time.Time) int {
	n := 0
	for _, e := range entries {
		if e.CreatedAt.After(since) {
			n++
		}
	}
	return n
}
