package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/jai/internal/apperr"
)

type errorResponse struct {
	Error   bool              `json:"error"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// respondError writes err as a JSON error body with the status of its code.
// Internal errors are logged and never leak their cause to the client.
func (s *Server) respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	body := errorResponse{Error: true, Code: string(code)}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Details = appErr.Details
	}
	if code == apperr.CodeInternal {
		s.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		body.Message = "Internal server error"
		body.Details = nil
	}

	c.AbortWithStatusJSON(code.HTTPStatus(), body)
}

func (s *Server) respondTooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
		Error:   true,
		Code:    "TOO_MANY_REQUESTS",
		Message: "Too many summary requests, slow down",
	})
}
