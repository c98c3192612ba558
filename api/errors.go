package api

import (
	"net/http"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Code  string `json:"code,omitempty"`
}

// writeError maps domain errors to status codes. Unknown errors are attached to the context for the request logger.
func writeError(c *gin.Context, err error) {
	if v, ok := domain.AsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: v.Error(), Field: v.Field, Code: v.Code})
		return
	}
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
