package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a 200 success envelope.
func Success(c *gin.Context, message string, data interface{}) {
	RespondJSON(c, "success", http.StatusOK, message, data, nil)
}

// BadRequest writes a 400 error envelope.
func BadRequest(c *gin.Context, message string, errors interface{}) {
	RespondJSON(c, "error", http.StatusBadRequest, message, nil, errors)
}
