package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"imagemapper/pkg/logging"
	"imagemapper/pkg/models"
)

func LoggerMiddleware(logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		statusCode := c.Writer.Status()
		logFields := []interface{}{
			"status", statusCode,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"method", c.Request.Method,
			"path", path,
		}
		logFields = append(logFields, logging.GetLogFields(c.Request.Context())...)

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			logFields = append(logFields, "error", errorMessage)
		}

		if statusCode >= http.StatusInternalServerError {
			logger.Errorw("HTTP Request", logFields...)
		} else {
			logger.Infow("HTTP Request", logFields...)
		}
	}
}

func RecoveryMiddleware(logger interface {
	Errorw(msg string, keysAndValues ...interface{})
}) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Errorw("Panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message":    "internal server error",
			"error_code": "INTERNAL_ERROR",
		})
	})
}

// TransactionIDMiddleware reads X-Request-Id, generating one when absent, stores it
// in the request context for logging and echoes it on the response.
func TransactionIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tid := c.GetHeader(models.HeaderTransactionID)
		if tid == "" {
			tid = models.NewTransactionID()
		}

		c.Request = c.Request.WithContext(logging.WithTransactionID(c.Request.Context(), tid))
		c.Header(models.HeaderTransactionID, tid)
		c.Next()
	}
}

// TransactionID returns the id set by TransactionIDMiddleware.
func TransactionID(c *gin.Context) string {
	return logging.GetTransactionID(c.Request.Context())
}
