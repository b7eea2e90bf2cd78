package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		event := log.Error().Str("path", c.Request.URL.Path)
		if err, ok := recovered.(error); ok {
			event = event.Err(err)
		} else {
			event = event.Interface("panic", recovered)
		}
		event.Msg("Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
