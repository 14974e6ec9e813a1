package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/metrics"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

type MoodRequest struct {
	Mood       string   `json:"mood" validate:"required,oneof=amazing good okay bad terrible"`
	Note       string   `json:"note,omitempty" validate:"max=1000"`
	Activities []string `json:"activities,omitempty" validate:"max=20,dive,required,max=50"`
}

func ValidateMoodRequest(body *MoodRequest) error {
	return validateStruct(body)
}

func LogMood(ctx context.Context, repo storage.MoodRepository, pub notify.Publisher, user *internal.User, body *MoodRequest) (*internal.MoodEntry, error) {
	entry := &internal.MoodEntry{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Mood:       body.Mood,
		Note:       body.Note,
		Activities: body.Activities,
		CreatedAt:  time.Now(),
	}
	if err := repo.SaveMoodEntry(ctx, entry); err != nil {
		return nil, err
	}
	publish(pub, TableMoodEntries, notify.OpInsert, user.ID, entry.ID)
	return entry, nil
}

type MoodStats struct {
	Trend           metrics.Trend `json:"trend"`
	EntriesThisWeek int           `json:"entries_this_week"`
	Total           int           `json:"total"`
}

// CalculateMoodStats expects entries newest first, as the repository returns them.
func CalculateMoodStats(entries []internal.MoodEntry, now time.Time) MoodStats {
	return MoodStats{
		Trend:           metrics.MoodTrend(entries),
		EntriesThisWeek: metrics.CountSince(entries, now.AddDate(0, 0, -7)),
		Total:           len(entries),
	}
}
