package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gpatracker/internal/common"
)

const internalServerError = "Internal server error"

// respondError maps err onto a status code and a coarse message and aborts
// the request. internalMsg replaces the generic text for 500s; the full error
// only goes to the log.
func (s *Server) respondError(c *gin.Context, err error, internalMsg string) {
	status, msg := classify(err)

	ctx := c.Request.Context()
	if status == http.StatusInternalServerError {
		if internalMsg != "" {
			msg = internalMsg
		}
		s.log(c).Error(ctx, "Request failed", "error", err)
	} else {
		s.log(c).Debug(ctx, "Request rejected", "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		var ie *common.InputError
		if errors.As(err, &ie) {
			return http.StatusBadRequest, ie.Message
		}
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, common.ErrDuplicateUser):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, common.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest, "Invalid or expired reset token"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Username or password not valid"
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, "Access token required"
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusForbidden, "Token expired"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusForbidden, "Invalid token"
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Record not found"
	default:
		return http.StatusInternalServerError, internalServerError
	}
}
