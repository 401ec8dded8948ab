package controllers

import (
	"errors"
	"log"
	"net/http"

	"letter-approval-api/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the workflow error taxonomy onto HTTP status
// codes. Unexpected errors are logged and hidden behind a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateHandle):
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrDuplicateHandle.Error()})
	case errors.Is(err, services.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidCredential.Error()})
	case errors.Is(err, services.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrInvalidStateTransition.Error()})
	case errors.Is(err, services.ErrMissingRemark):
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrMissingRemark.Error()})
	case errors.Is(err, services.ErrUnsupportedFileType):
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrUnsupportedFileType.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrNotFound.Error()})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
