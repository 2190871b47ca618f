package serverutils

import "fmt"

type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) ApiResponse {
	return ApiResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ApiError is an error carrying an HTTP status. The error handler middleware
// maps it onto the response; anything else becomes a 500.
type ApiError struct {
	Code    int
	Message string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

func NewApiError(code int, message string) *ApiError {
	return &ApiError{Code: code, Message: message}
}
