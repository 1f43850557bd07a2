package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/piwi3910/StoneQuote/internal/session"
)

// Response is the JSON envelope of every endpoint. Code is 0 on success,
// otherwise the HTTP status times 100 plus a detail digit.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error codes.
const (
	CodeBadRequest       = 40000
	CodeValidation       = 40001
	CodeNotFound         = 40400
	CodeStoneUnavailable = 40900
	CodeInternal         = 50000
)

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error response whose status is derived from code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, CodeBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, CodeNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, CodeInternal, message)
}

// ValidationFailed writes a 400 carrying the per-field messages.
func ValidationFailed(c *gin.Context, errs model.ValidationErrors) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeValidation,
		Message: "validation failed",
		Data:    errs,
	})
}

// handleError maps domain errors to responses.
func handleError(c *gin.Context, err error) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		ValidationFailed(c, verrs)
	case errors.Is(err, session.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, session.ErrStoneUnavailable):
		Error(c, CodeStoneUnavailable, err.Error())
	default:
		_ = c.Error(err)
		InternalError(c, err.Error())
	}
}
