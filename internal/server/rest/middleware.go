package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gpatracker/internal/common"
	"github.com/dmitrijs2005/gpatracker/internal/logging"
	"github.com/dmitrijs2005/gpatracker/internal/server/auth"
)

const (
	loggerKey = "logger"
	claimsKey = "claims"
)

// requestID reuses a well-formed incoming X-Request-ID or assigns a new one,
// and binds it to a request-scoped logger.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Header(common.RequestIDHeaderName, id)
		c.Set(loggerKey, s.logger.With("request_id", id))
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.log(c).Info(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		s.log(c).Error(c.Request.Context(), "Panic while serving request", "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

// authenticate requires "Authorization: Bearer <token>" and stores the
// validated claims for the handlers. The tenant handlers use comes only from
// these claims.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader(common.AuthorizationHeaderName), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
			s.respondError(c, common.ErrUnauthenticated, "")
			return
		}

		claims, err := s.accounts.Authenticate(token)
		if err != nil {
			s.respondError(c, err, "")
			return
		}

		c.Set(claimsKey, claims)
		c.Set(loggerKey, s.log(c).With("user_id", claims.UserID))
		c.Next()
	}
}

func (s *Server) log(c *gin.Context) logging.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logging.Logger); ok {
			return l
		}
	}
	return s.logger
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, _ := c.Get(claimsKey)
	claims, _ := v.(*auth.Claims)
	return claims
}
