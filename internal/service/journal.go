package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

type JournalRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Content    string   `json:"content" validate:"required,max=20000"`
	Tags       []string `json:"tags,omitempty" validate:"max=20,dive,required,max=50"`
	MoodBefore string   `json:"mood_before,omitempty" validate:"omitempty,oneof=amazing good okay bad terrible"`
	MoodAfter  string   `json:"mood_after,omitempty" validate:"omitempty,oneof=amazing good okay bad terrible"`
}

func ValidateJournalRequest(body *JournalRequest) error {
	return validateStruct(body)
}

func CreateJournalEntry(ctx context.Context, repo storage.JournalRepository, pub notify.Publisher, user *internal.User, body *JournalRequest) (*internal.JournalEntry, error) {
	now := time.Now()
	entry := &internal.JournalEntry{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Title:      body.Title,
		Content:    body.Content,
		Tags:       body.Tags,
		MoodBefore: body.MoodBefore,
		MoodAfter:  body.MoodAfter,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.SaveJournalEntry(ctx, entry); err != nil {
		return nil, err
	}
	publish(pub, TableJournalEntries, notify.OpInsert, user.ID, entry.ID)
	return entry, nil
}

// UpdateJournalEntry replaces the editable fields of one of the user's entries.
func UpdateJournalEntry(ctx context.Context, repo storage.JournalRepository, pub notify.Publisher, user *internal.User, id string, body *JournalRequest) (*internal.JournalEntry, error) {
	entry, err := repo.GetJournalEntry(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	entry.Title = body.Title
	entry.Content = body.Content
	entry.Tags = body.Tags
	entry.MoodBefore = body.MoodBefore
	entry.MoodAfter = body.MoodAfter
	entry.UpdatedAt = time.Now()
	if err := repo.UpdateJournalEntry(ctx, entry); err != nil {
		return nil, err
	}
	publish(pub, TableJournalEntries, notify.OpUpdate, user.ID, entry.ID)
	return entry, nil
}

func DeleteJournalEntry(ctx context.Context, repo storage.JournalRepository, pub notify.Publisher, user *internal.User, id string) error {
	if err := repo.DeleteJournalEntry(ctx, user.ID, id); err != nil {
		return err
	}
	publish(pub, TableJournalEntries, notify.OpDelete, user.ID, id)
	return nil
}
