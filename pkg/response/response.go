package response

import "github.com/gin-gonic/gin"

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Meta    *Meta    `json:"meta,omitempty"`
}

// With Meta (for list responses)
func SuccessWithMeta(message string, data any, meta *Meta) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

func Success(message string, data any) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func Error(message string, err string) Response {
	return Response{
		Success: false,
		Message: message,
		Error:   err,
	}
}

// Validation carries one message per invalid field
func Validation(message string, errs []string) Response {
	return Response{
		Success: false,
		Message: message,
		Errors:  errs,
	}
}

// WriteSuccess writes a success response to the gin context
func WriteSuccess(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Success(message, data))
}

func WriteSuccessWithMeta(c *gin.Context, code int, message string, data any, meta *Meta) {
	c.JSON(code, SuccessWithMeta(message, data, meta))
}

// WriteError writes an error response to the gin context
func WriteError(c *gin.Context, code int, message string, err string) {
	c.JSON(code, Error(message, err))
}

func WriteValidation(c *gin.Context, code int, message string, errs []string) {
	c.JSON(code, Validation(message, errs))
}
