package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/service"
)

func GetTasks(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var q service.TaskQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid query")
			return
		}
		if err := service.ValidateTaskQuery(&q); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		tasks, err := service.ListTasks(c.Request.Context(), app.Store(), user, q, time.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch tasks")
			return
		}
		HandleSuccess(c, app.Logger(), tasks, map[string]any{"count": len(tasks)})
	}
}

func bindTask(c *gin.Context, app App) (*service.TaskRequest, bool) {
	var body service.TaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		HandleError(c, app.Logger(), err, 400, "Invalid JSON")
		return nil, false
	}
	if err := service.ValidateTaskRequest(&body); err != nil {
		HandleError(c, app.Logger(), err, 400, "Validation failed")
		return nil, false
	}
	return &body, true
}

func PostTask(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		body, ok := bindTask(c, app)
		if !ok {
			return
		}

		task, err := service.CreateTask(c.Request.Context(), app.Store(), app.Hub(), user, body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save task")
			return
		}
		HandleCreated(c, app.Logger(), task, nil)
	}
}

func PutTask(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		body, ok := bindTask(c, app)
		if !ok {
			return
		}

		task, err := service.UpdateTask(c.Request.Context(), app.Store(), app.Hub(), user, c.Param("id"), body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to update task")
			return
		}
		HandleSuccess(c, app.Logger(), task, nil)
	}
}

func DeleteTask(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		id := c.Param("id")

		if err := service.DeleteTask(c.Request.Context(), app.Store(), app.Hub(), user, id); err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to delete task")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"id": id}, nil)
	}
}
