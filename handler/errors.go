package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/Aashish23092/taxwise-dashboard/client"
	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/gin-gonic/gin"
)

// sendError sends a structured error response. code is a stable machine
// readable identifier, the message is err's text when err is set.
func sendError(c *gin.Context, statusCode int, code, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, dto.ErrNoAnalysis):
		return http.StatusNotFound
	case errors.Is(err, dto.ErrNoStatements), errors.Is(err, dto.ErrUnsupportedFile):
		return http.StatusBadRequest
	case errors.Is(err, dto.ErrInvalidStatement):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr),
		errors.Is(err, client.ErrBackendUnavailable),
		errors.Is(err, client.ErrBadResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// backendMessage surfaces the analysis API's own error text when there is
// one, and the error chain otherwise.
func backendMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
