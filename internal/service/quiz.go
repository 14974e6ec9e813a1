package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/metrics"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

// PublicQuestion is a quiz question as served to the player, without the answer.
type PublicQuestion struct {
	ID         string   `json:"id"`
	CategoryID string   `json:"category_id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
}

func StripAnswers(questions []internal.QuizQuestion) []PublicQuestion {
	out := make([]PublicQuestion, len(questions))
	for i, q := range questions {
		out[i] = PublicQuestion{ID: q.ID, CategoryID: q.CategoryID, Question: q.Question, Options: q.Options}
	}
	return out
}

// QuizSubmission pairs answers[i] with question_ids[i]. Missing answers and -1
// count as unanswered.
type QuizSubmission struct {
	QuestionIDs []string `json:"question_ids" validate:"required,min=1,max=100,dive,required"`
	Answers     []int    `json:"answers" validate:"max=100"`
	TimeTaken   int      `json:"time_taken" validate:"gte=0"`
}

func ValidateQuizSubmission(body *QuizSubmission) error {
	return validateStruct(body)
}

// QuizOutcome is the stored attempt plus the figures derived from it.
type QuizOutcome struct {
	Attempt *internal.QuizAttempt `json:"attempt"`
	Result  metrics.QuizResult    `json:"result"`
}

// SubmitQuiz scores a submission against the stored answer key of categoryID and
// records the attempt. Question ids outside the category are rejected.
func SubmitQuiz(ctx context.Context, repo storage.QuizRepository, pub notify.Publisher, user *internal.User, categoryID string, body *QuizSubmission) (*QuizOutcome, error) {
	all, err := repo.GetQuizQuestions(ctx, categoryID, 0)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.Wrapf(internal.ErrNotFound, "quiz category %s", categoryID)
	}
	byID := make(map[string]internal.QuizQuestion, len(all))
	for _, q := range all {
		byID[q.ID] = q
	}

	questions := make([]internal.QuizQuestion, 0, len(body.QuestionIDs))
	seen := make(map[string]bool, len(body.QuestionIDs))
	for _, id := range body.QuestionIDs {
		q, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(internal.ErrInvalid, "question %s is not in category %s", id, categoryID)
		}
		if seen[id] {
			return nil, errors.Wrapf(internal.ErrInvalid, "question %s submitted twice", id)
		}
		seen[id] = true
		questions = append(questions, q)
	}

	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = -1
		if i < len(body.Answers) {
			answers[i] = body.Answers[i]
		}
	}

	result := metrics.ScoreQuiz(questions, answers, body.TimeTaken)
	attempt := &internal.QuizAttempt{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		CategoryID:     categoryID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Answers:        answers,
		TimeTaken:      result.TimeTakenSeconds,
		CompletedAt:    time.Now(),
	}
	if err := repo.InsertQuizResult(ctx, attempt); err != nil {
		return nil, err
	}
	publish(pub, TableQuizResults, notify.OpInsert, user.ID, attempt.ID)
	return &QuizOutcome{Attempt: attempt, Result: result}, nil
}
