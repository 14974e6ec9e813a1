package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/service"
)

func PostMood(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.MoodRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateMoodRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		entry, err := service.LogMood(c.Request.Context(), app.Store(), app.Hub(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save mood")
			return
		}
		HandleCreated(c, app.Logger(), entry, nil)
	}
}

func GetMood(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		entries, err := app.Store().ListMoodEntries(c.Request.Context(), user.ID, app.Config().MoodHistoryLimit)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch mood entries")
			return
		}
		HandleSuccess(c, app.Logger(), entries, nil)
	}
}

func GetMoodStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		entries, err := app.Store().ListMoodEntries(c.Request.Context(), user.ID, app.Config().MoodHistoryLimit)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch mood entries for stats")
			return
		}

		stats := service.CalculateMoodStats(entries, time.Now())
		meta := map[string]any{
			"trend":             stats.Trend,
			"entries_this_week": stats.EntriesThisWeek,
			"total":             stats.Total,
		}
		HandleSuccess(c, app.Logger(), nil, meta)
	}
}
