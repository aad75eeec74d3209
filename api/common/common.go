package common

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the success envelope: the HTTP verb as action plus the payload.
type Response struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

// ErrorResponse carries either a field→message map (validation) or a
// single string (authorization and generic failures).
type ErrorResponse struct {
	Errors interface{} `json:"errors"`
}

// RespondSuccess sends the {action, data} envelope with the request verb.
func RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Action: c.Request.Method,
		Data:   data,
	})
}

// RespondError sends a single-string error envelope.
func RespondError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorResponse{Errors: message})
}

// RespondFieldErrors sends a field→message error envelope. All invalid
// fields are reported together, never one at a time.
func RespondFieldErrors(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Errors: fields})
}

// NotFound renders the canonical "<model> not found" message. Handlers
// use it for both absent and not-visible resources so existence never
// leaks through the error text.
func NotFound(c *gin.Context, model string) {
	RespondError(c, http.StatusNotFound, fmt.Sprintf("%s not found", model))
}

// RespondInternalError hides internals behind a generic message.
func RespondInternalError(c *gin.Context) {
	RespondError(c, http.StatusInternalServerError, "something went wrong")
}
