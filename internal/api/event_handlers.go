package api

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/notify"
)

const (
	eventBuffer       = 32
	heartbeatInterval = 25 * time.Second
)

// GetEvents streams the caller's record changes as Server-Sent Events. A client
// that falls behind loses events and should re-fetch.
func GetEvents(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		events := make(chan notify.Change, eventBuffer)
		cancel := app.Hub().Subscribe(notify.AllTables, func(ch notify.Change) {
			if ch.UserID != user.ID {
				return
			}
			select {
			case events <- ch:
			default:
			}
		})
		defer cancel()

		app.Logger().Infof("[request_id=%s] event stream opened for %s", c.GetString("request_id"), user.ID)
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.SSEvent("ready", gin.H{"user_id": user.ID})
		c.Writer.Flush()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case ch := <-events:
				c.SSEvent("change", ch)
				return true
			case <-heartbeat.C:
				c.SSEvent("ping", time.Now().Unix())
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
		app.Logger().Infof("[request_id=%s] event stream closed for %s", c.GetString("request_id"), user.ID)
	}
}
