// Package respond writes the dto.Result envelope and maps service errors to
// HTTP status codes.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecocart/dto"
	"ecocart/services"
)

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, dto.Result{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, dto.Result{Success: true, Message: message, Data: data})
}

// BadRequest is used for bodies that do not bind.
func BadRequest(c *gin.Context, message, field string) {
	c.JSON(http.StatusBadRequest, dto.Result{Message: message, Field: field})
}

func Error(c *gin.Context, err error) {
	if services.KindOf(err) == services.KindBackend {
		_ = c.Error(err)
	}
	c.JSON(Status(err), dto.Result{
		Message: services.PublicMessage(err),
		Field:   services.FieldOf(err),
	})
}

func Status(err error) int {
	switch services.KindOf(err) {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindAuth:
		return http.StatusUnauthorized
	case services.KindAuthorization:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
