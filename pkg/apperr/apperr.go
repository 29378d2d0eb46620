package apperr

import "net/http"

// AppError carries an HTTP status alongside the message so the error
// handler middleware can map service failures without string matching.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NewBadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func NewUnauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func NewNotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func NewConflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

func NewUnprocessable(message string) *AppError {
	return New(http.StatusUnprocessableEntity, message)
}
