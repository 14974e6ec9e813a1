package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/metrics"
	"github.com/nextgen-hub/studenthub/internal/service"
)

func GetColleges(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		filter, err := service.ParseCollegeFilter(c.Query("search"), c.Query("state"), c.Query("min_gpa"))
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid filter")
			return
		}
		gpa, err := service.StudentGPA(c.Request.Context(), app.Store(), user)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to compute GPA")
			return
		}

		matches, err := service.SearchColleges(c.Request.Context(), app.Store(), filter, gpa)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch colleges")
			return
		}
		meta := map[string]any{"count": len(matches)}
		if gpa != nil {
			meta["student_gpa"] = metrics.RoundGPA(*gpa)
		}
		HandleSuccess(c, app.Logger(), matches, meta)
	}
}

func GetSavedColleges(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		saved, err := app.Store().ListSavedColleges(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch saved colleges")
			return
		}
		HandleSuccess(c, app.Logger(), saved, nil)
	}
}

func PostSavedCollege(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.SaveCollegeRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateSaveCollegeRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		saved, err := service.SaveCollege(c.Request.Context(), app.Store(), app.Hub(), user, &body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to save college")
			return
		}
		HandleCreated(c, app.Logger(), saved, nil)
	}
}

func DeleteSavedCollege(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		id := c.Param("id")

		if err := service.RemoveSavedCollege(c.Request.Context(), app.Store(), app.Hub(), user, id); err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to remove saved college")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"id": id}, nil)
	}
}
