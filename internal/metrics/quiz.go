package metrics

import (
	"math"

	"github.com/nextgen-hub/studenthub/internal"
)

// QuizResult is the graded outcome of one quiz attempt.
type QuizResult struct {
	Score            int `json:"score"`
	TotalQuestions   int `json:"total_questions"`
	Percentage       int `json:"percentage"`
	TimeTakenSeconds int `json:"time_taken_seconds"`
}

// ScoreQuiz grades answers against questions position by position. Missing,
// negative or out-of-range answers are simply wrong.
func ScoreQuiz(questions []internal.QuizQuestion, answers []int, elapsedSeconds int) QuizResult {
	score := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if answers[i] == q.CorrectAnswer {
			score++
		}
	}
	return QuizResult{
		Score:            score,
		TotalQuestions:   len(questions),
		Percentage:       Percentage(score, len(questions)),
		TimeTakenSeconds: elapsedSeconds,
	}
}

// Percentage returns score/total as a whole percentage, or 0 when total is 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// AveragePercentage is the rounded mean of the per-attempt percentages.
func AveragePercentage(attempts []internal.QuizAttempt) int {
	if len(attempts) == 0 {
		return 0
	}
	var sum float64
	for _, a := range attempts {
		if a.TotalQuestions > 0 {
			sum += float64(a.Score) / float64(a.TotalQuestions) * 100
		}
	}
	return int(math.Round(sum / float64(len(attempts))))
}
