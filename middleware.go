// middleware.go
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Arif-miad/education-economic-dashboard/internal/session"
)

const sessionKey = "session"

// requestLogger logs every request once it has been served.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// sessionMiddleware attaches the caller's session context. A missing or
// unknown cookie gets a fresh context that is only stored once a handler
// saves it.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(session.CookieName); err == nil {
			if ctx, ok := s.sessions.Get(id); ok {
				c.Set(sessionKey, ctx)
				c.Next()
				return
			}
		}

		ctx := session.New()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(session.CookieName, ctx.ID, 0, "/", "", false, true)
		c.Set(sessionKey, ctx)
		c.Next()
	}
}

// requireAuth stops unauthenticated requests. Pages redirect to the login
// form, API calls get a 401.
func (s *Server) requireAuth(api bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c).Authenticated {
			c.Next()
			return
		}
		if api {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{Success: false, Error: "login required"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

func currentSession(c *gin.Context) session.Context {
	if v, ok := c.Get(sessionKey); ok {
		if ctx, ok := v.(session.Context); ok {
			return ctx
		}
	}
	return session.Context{}
}
