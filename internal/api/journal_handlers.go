package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/service"
)

func GetJournal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		entries, err := app.Store().ListJournalEntries(c.Request.Context(), user.ID, app.Config().JournalLimit)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch journal entries")
			return
		}
		HandleSuccess(c, app.Logger(), entries, nil)
	}
}

func bindJournal(c *gin.Context, app App) (*service.JournalRequest, bool) {
	var body service.JournalRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		HandleError(c, app.Logger(), err, 400, "Invalid JSON")
		return nil, false
	}
	if err := service.ValidateJournalRequest(&body); err != nil {
		HandleError(c, app.Logger(), err, 400, "Validation failed")
		return nil, false
	}
	return &body, true
}

func PostJournal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		body, ok := bindJournal(c, app)
		if !ok {
			return
		}

		entry, err := service.CreateJournalEntry(c.Request.Context(), app.Store(), app.Hub(), user, body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save journal entry")
			return
		}
		HandleCreated(c, app.Logger(), entry, nil)
	}
}

func PutJournal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		body, ok := bindJournal(c, app)
		if !ok {
			return
		}

		entry, err := service.UpdateJournalEntry(c.Request.Context(), app.Store(), app.Hub(), user, c.Param("id"), body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to update journal entry")
			return
		}
		HandleSuccess(c, app.Logger(), entry, nil)
	}
}

func DeleteJournal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		id := c.Param("id")

		if err := service.DeleteJournalEntry(c.Request.Context(), app.Store(), app.Hub(), user, id); err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to delete journal entry")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"id": id}, nil)
	}
}
