package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meraki-backend/internal/pkg/ctxutil"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

// quietPaths are polled by load balancers and never logged.
var quietPaths = map[string]bool{
	"/healthcheck": true,
	"/api/health":  true,
}

// RequestLogger writes one line per request once the handler chain is done.
// Level follows the response status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil || quietPaths[c.Request.URL.Path] {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		ctx := c.Request.Context()
		if td := ctxutil.GetTraceData(ctx); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if sid := ctxutil.StudentID(ctx); sid != "" {
			fields = append(fields, "student_id", sid)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		l := log.Info
		switch {
		case status >= 500:
			l = log.Error
		case status >= 400:
			l = log.Warn
		}
		l("HTTP request", fields...)
	}
}
