package common

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/v-wei40680/mcp-linker/backend/common/errors"
)

// Standard API response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// FieldProblem describes a single invalid request field.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	RFC3339MilliZ = "2006-01-02T15:04:05.000Z07:00"
)

// RespSuccess responds with data.
func RespSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "",
		Data:    data,
	})
}

// RespCreated responds with data and a 201 status.
func RespCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// RespError responds with an error message plus the underlying cause.
func RespError(c *gin.Context, statusCode int, msg string, err error) {
	errMsg := msg
	if err != nil {
		errMsg = msg + ": " + err.Error()
	}

	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: errMsg,
	})
}

// RespErrorStr responds with an error message only.
func RespErrorStr(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: msg,
	})
}

// RespAPIError maps a typed *errors.APIError onto the response envelope,
// defaulting anything else to a generic 500.
func RespAPIError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, APIResponse{
			Success: false,
			Message: apiErr.Message,
		})
		return
	}
	RespError(c, http.StatusInternalServerError, "internal server error", err)
}

// RespValidationError turns binding failures into a per-field problem list.
func RespValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		problems := make([]FieldProblem, 0, len(verrs))
		for _, fe := range verrs {
			problems = append(problems, FieldProblem{
				Field:   fe.Field(),
				Message: "failed on '" + fe.Tag() + "' validation",
			})
		}
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "validation error",
			Errors:  problems,
		})
		return
	}
	RespError(c, http.StatusBadRequest, "invalid request", err)
}

// FormatTime formats a time in the RFC3339MilliZ layout.
func FormatTime(t time.Time) string {
	return t.Format(RFC3339MilliZ)
}
