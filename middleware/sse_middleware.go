package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"verse-scene-api/application/ports/outbound"
)

// SSEKeepAlive writes periodic comment lines on event-stream responses so
// proxies do not drop an idle connection while a generation is running.
// Applied only to the events route.
func SSEKeepAlive(workerPool outbound.TaskDispatcher, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientGone := c.Request.Context().Done()

		err := workerPool.Submit(func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
						return
					}
					c.Writer.Flush()
				case <-clientGone:
					return
				}
			}
		})
		if err != nil {
			c.AbortWithStatusJSON(500, gin.H{"error": err.Error()})
			return
		}

		c.Next()
	}
}
