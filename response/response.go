package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Errors     []string    `json:"errors,omitempty"`
}

// JSON writes a success envelope with the given status.
func JSON(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{
		StatusCode: status,
		Success:    status < http.StatusBadRequest,
		Data:       data,
		Message:    message,
	})
}

// OK is JSON with 200.
func OK(c *gin.Context, data interface{}, message string) {
	JSON(c, http.StatusOK, data, message)
}

// Created is JSON with 201.
func Created(c *gin.Context, data interface{}, message string) {
	JSON(c, http.StatusCreated, data, message)
}

// Fail writes an error envelope. errs may be nil.
func Fail(c *gin.Context, status int, message string, errs []string) {
	if errs == nil {
		errs = []string{}
	}
	c.AbortWithStatusJSON(status, Envelope{
		StatusCode: status,
		Success:    false,
		Data:       nil,
		Message:    message,
		Errors:     errs,
	})
}
