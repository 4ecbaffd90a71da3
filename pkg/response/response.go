// Package response defines the JSON envelope every endpoint replies with
// and the error type the service layer raises for client-caused failures.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the reply envelope. Code is zero on success and mirrors the
// HTTP status on failure; Data carries the payload when there is one.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AppError is a failure the service layer wants rendered to the client
// with a specific status instead of a blanket 500.
type AppError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *AppError) Error() string { return e.Message }

// NewBadRequest flags invalid input, reserved names, duplicates and similar
// caller mistakes.
func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Code: 400, Message: msg}
}

// NewForbidden flags an operation the requester may not perform.
func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Code: 403, Message: msg}
}

// NewNotFound flags a record that is missing or hidden from the requester.
func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Code: 404, Message: msg}
}

// Success sends 200 with the payload wrapped in the envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Message: "ok", Data: data})
}

// Created sends 201 with the payload wrapped in the envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Message: "created", Data: data})
}

// Error renders err. An AppError keeps its own status and code; anything
// else becomes a 500.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{Code: appErr.Code, Message: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{Code: 500, Message: err.Error()})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: 400, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Code: 403, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: 404, Message: msg})
}
