package storage

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
)

// Seed is the reference data shared by every user.
type Seed struct {
	Colleges       []internal.College      `json:"colleges"`
	QuizCategories []internal.QuizCategory `json:"quiz_categories"`
	QuizQuestions  []internal.QuizQuestion `json:"quiz_questions"`
}

// ReferenceWriter is the part of a Store that seeding needs.
type ReferenceWriter interface {
	SaveCollege(ctx context.Context, c *internal.College) error
	SaveQuizCategory(ctx context.Context, cat *internal.QuizCategory) error
	SaveQuizQuestion(ctx context.Context, q *internal.QuizQuestion) error
}

// LoadSeed reads a seed file and upserts its records. An empty path is a no-op.
func LoadSeed(ctx context.Context, w ReferenceWriter, path string, logger internal.Logger) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "storage: read seed file %s", path)
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return errors.Wrapf(err, "storage: parse seed file %s", path)
	}
	if err := ApplySeed(ctx, w, &seed); err != nil {
		return err
	}
	logger.Infof("seeded %d colleges, %d quiz categories, %d quiz questions from %s",
		len(seed.Colleges), len(seed.QuizCategories), len(seed.QuizQuestions), path)
	return nil
}

func ApplySeed(ctx context.Context, w ReferenceWriter, seed *Seed) error {
	for i := range seed.QuizCategories {
		if err := w.SaveQuizCategory(ctx, &seed.QuizCategories[i]); err != nil {
			return errors.Wrapf(err, "storage: seed quiz category %s", seed.QuizCategories[i].ID)
		}
	}
	for i := range seed.QuizQuestions {
		q := &seed.QuizQuestions[i]
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return errors.Errorf("storage: seed quiz question %s: correct_answer %d out of range", q.ID, q.CorrectAnswer)
		}
		if err := w.SaveQuizQuestion(ctx, q); err != nil {
			return errors.Wrapf(err, "storage: seed quiz question %s", q.ID)
		}
	}
	for i := range seed.Colleges {
		if err := w.SaveCollege(ctx, &seed.Colleges[i]); err != nil {
			return errors.Wrapf(err, "storage: seed college %s", seed.Colleges[i].ID)
		}
	}
	return nil
}
