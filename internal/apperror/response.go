package apperror

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Keoroanthony/go-inventory/internal/logging"
)

// Abort writes err as a JSON error body and stops the gin handler chain.
// Server errors are logged with their cause; clients only see the detail.
func Abort(c *gin.Context, err error) {
	appErr := As(err)
	if appErr.Kind == KindServerError {
		logging.FromContext(c.Request.Context()).Error("request_failed",
			zap.String("detail", appErr.Detail),
			zap.Error(appErr.Err),
		)
	}
	if appErr.Kind == KindNotAuthenticated {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(appErr.Status(), gin.H{"error": appErr.Detail})
}
