package api

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/metrics"
	"github.com/nextgen-hub/studenthub/internal/service"
)

func GetQuizCategories(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := app.Store().ListQuizCategories(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch quizzes")
			return
		}
		HandleSuccess(c, app.Logger(), cats, nil)
	}
}

// GetQuizQuestions serves a playable quiz: questions without their answers.
func GetQuizQuestions(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID := c.Param("id")

		questions, err := app.Store().GetQuizQuestions(c.Request.Context(), categoryID, app.Config().QuizQuestionLimit)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch questions")
			return
		}
		if len(questions) == 0 {
			HandleError(c, app.Logger(), errors.Wrapf(internal.ErrNotFound, "quiz %s", categoryID), 404, "Quiz not found")
			return
		}
		HandleSuccess(c, app.Logger(), service.StripAnswers(questions), map[string]any{"count": len(questions)})
	}
}

func PostQuizResult(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.QuizSubmission
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateQuizSubmission(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		outcome, err := service.SubmitQuiz(c.Request.Context(), app.Store(), app.Hub(), user, c.Param("id"), &body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to submit quiz")
			return
		}
		HandleCreated(c, app.Logger(), outcome.Attempt, map[string]any{
			"percentage": outcome.Result.Percentage,
			"score":      outcome.Result.Score,
			"total":      outcome.Result.TotalQuestions,
		})
	}
}

func GetQuizResults(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		results, err := app.Store().ListQuizResults(c.Request.Context(), user.ID, app.Config().QuizResultsLimit)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch quiz results")
			return
		}
		HandleSuccess(c, app.Logger(), results, map[string]any{
			"average_percentage": metrics.AveragePercentage(results),
		})
	}
}
