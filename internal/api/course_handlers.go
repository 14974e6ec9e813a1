package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/service"
)

func GetCourses(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		courses, err := app.Store().ListCourses(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch courses")
			return
		}

		summary := service.SummarizeCourses(courses)
		meta := map[string]any{
			"gpa":           summary.GPA,
			"gpa_display":   summary.Display,
			"total_credits": summary.TotalCredits,
		}
		HandleSuccess(c, app.Logger(), courses, meta)
	}
}

func PostCourse(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.CourseRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateCourseRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		course, err := service.CreateCourse(c.Request.Context(), app.Store(), app.Hub(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save course")
			return
		}

		// The course is already stored; a failed snapshot only loses a history point.
		_, recorded, err := service.RecordGPASnapshot(c.Request.Context(), app.Store(), app.Hub(), user, course.Semester, course.Year)
		if err != nil {
			app.Logger().Warnf("[request_id=%s] failed to record gpa snapshot: %v", c.GetString("request_id"), err)
		}

		HandleCreated(c, app.Logger(), course, map[string]any{"snapshot_recorded": recorded})
	}
}

func DeleteCourse(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		id := c.Param("id")

		if err := service.DeleteCourse(c.Request.Context(), app.Store(), app.Hub(), user, id); err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to delete course")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"id": id}, nil)
	}
}

func GetGPAHistory(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		history, err := app.Store().ListGPASnapshots(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch GPA history")
			return
		}
		HandleSuccess(c, app.Logger(), history, nil)
	}
}
