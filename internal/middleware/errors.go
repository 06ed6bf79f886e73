package middleware

import (
	"errors"
	"log/slog"
	"time"

	"flyhigh/internal/apperr"
	"flyhigh/internal/i18n"

	"github.com/gin-gonic/gin"
)

// ErrorResponder is the single place errors become HTTP responses. Handlers
// record an error with c.Error and return; this middleware renders the
// standard body {path, timestamp, message[, validationErrors]} with the
// message localized from the Accept-Language header.
func ErrorResponder(translator *i18n.Translator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			logger.Error("unexpected error", "path", c.Request.URL.Path, "error", err)
			appErr = apperr.Internal(err)
		}

		lang := c.GetHeader("Accept-Language")
		body := gin.H{
			"path":      c.Request.URL.Path,
			"timestamp": time.Now().UnixMilli(),
			"message":   translator.Translate(appErr.MessageID, lang),
		}
		if appErr.Validation != nil {
			validationErrors := make(map[string]string, len(appErr.Validation))
			for field, messageID := range appErr.Validation {
				validationErrors[field] = translator.Translate(messageID, lang)
			}
			body["validationErrors"] = validationErrors
		}

		c.JSON(appErr.Status, body)
	}
}
