package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nextgen-hub/studenthub/internal/auth"
)

// NewRouter wires every route. middleware runs after the request id is set.
func NewRouter(app App, provider auth.Provider, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(middleware...)

	r.GET("/healthz", func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), gin.H{"status": "ok"}, nil)
	})

	protected := r.Group("/api")
	protected.Use(auth.AuthMiddleware(provider))

	protected.GET("/courses", GetCourses(app))
	protected.POST("/courses", PostCourse(app))
	protected.DELETE("/courses/:id", DeleteCourse(app))
	protected.GET("/gpa/history", GetGPAHistory(app))

	protected.GET("/mood", GetMood(app))
	protected.POST("/mood", PostMood(app))
	protected.GET("/mood/stats", GetMoodStats(app))

	protected.GET("/journal", GetJournal(app))
	protected.POST("/journal", PostJournal(app))
	protected.PUT("/journal/:id", PutJournal(app))
	protected.DELETE("/journal/:id", DeleteJournal(app))

	protected.GET("/quizzes", GetQuizCategories(app))
	protected.GET("/quizzes/results", GetQuizResults(app))
	protected.GET("/quizzes/:id/questions", GetQuizQuestions(app))
	protected.POST("/quizzes/:id/results", PostQuizResult(app))

	protected.GET("/colleges", GetColleges(app))
	protected.GET("/colleges/saved", GetSavedColleges(app))
	protected.POST("/colleges/saved", PostSavedCollege(app))
	protected.DELETE("/colleges/saved/:id", DeleteSavedCollege(app))

	protected.GET("/tasks", GetTasks(app))
	protected.POST("/tasks", PostTask(app))
	protected.PUT("/tasks/:id", PutTask(app))
	protected.DELETE("/tasks/:id", DeleteTask(app))

	protected.GET("/events", GetEvents(app))
	return r
}
