package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondDomainError maps the domain error taxonomy to HTTP status codes.
// Unknown errors are treated as internal.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, ErrCapacityExceeded):
		RespondError(c, http.StatusConflict, err)
	case errors.Is(err, ErrDependency):
		RespondError(c, http.StatusBadGateway, err)
	default:
		RespondError(c, http.StatusInternalServerError, err)
	}
}
