package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"animediary/internal/api/apperror"
)

// respondError maps an error's kind to a status code in one place. Internal
// failures get an opaque message, everything else surfaces the service's
// message unchanged.
func respondError(c *gin.Context, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperror.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperror.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperror.KindExternal:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
