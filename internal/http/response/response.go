package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meraki-backend/internal/pkg/ctxutil"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/apierr"
)

// ErrorBody is the JSON shape of every failed request: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondErr classifies err and writes it. Server-side failures are logged
// with the request id and replaced by fallback so storage details do not leak.
func RespondErr(c *gin.Context, log *logger.Logger, err error, fallback string) {
	status, code := apierr.Classify(err)
	if status >= http.StatusInternalServerError {
		if log != nil {
			fields := []interface{}{"path", c.FullPath(), "error", err}
			if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
				fields = append(fields, "request_id", td.RequestID)
			}
			log.Error(fallback, fields...)
		}
		c.JSON(status, ErrorBody{Error: fallback, Code: code})
		return
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
