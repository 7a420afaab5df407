package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const ownerKey = "owner_id"

// observe logs and counts every request once it has been handled.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		status := c.Writer.Status()
		if s.metrics != nil {
			s.metrics.ObserveHTTP(route, status)
		}

		args := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if owner := c.GetString(ownerKey); owner != "" {
			args = append(args, ownerKey, owner)
		}
		if status >= 500 {
			s.log.Warn(c.Request.Context(), "request", args...)
		} else {
			s.log.Info(c.Request.Context(), "request", args...)
		}
	}
}

// requireOwner resolves the bearer token to an owner id.
func (s *Server) requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := s.auth.Resolve(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.Set(ownerKey, owner)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// limitSummaries applies the per-owner summarize budget.
func (s *Server) limitSummaries() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}
		if !s.limiter.Allow(c.GetString(ownerKey)) {
			c.Header("Retry-After", strconv.Itoa(s.limiter.RetryAfter()))
			s.respondTooManyRequests(c)
			return
		}
		c.Next()
	}
}
