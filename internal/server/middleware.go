package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderAuthToken is injected by the internal gateway. The standard
	// Authorization header is the fallback for direct and local access.
	HeaderAuthToken = "X-Auth-Token"

	bearerPrefix = "Bearer "

	contextSubjectKey = "auth_subject"
	contextAdminKey   = "auth_admin"
)

// TokenAuth locates and verifies the bearer credential. A missing
// credential proceeds as anonymous; a present but invalid one aborts with
// 401 before any downstream handler runs. A valid token only elevates the
// request when the admin claim is true and the subject is non-empty.
func (s *Server) TokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := s.validator.Validate(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if claims.Admin && claims.Subject != "" {
			c.Set(contextSubjectKey, claims.Subject)
			c.Set(contextAdminKey, true)
		}
		c.Next()
	}
}

// RequireAdmin rejects requests that carry no elevated security context.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(contextAdminKey) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// Subject returns the authenticated identity, or "" for anonymous.
func Subject(c *gin.Context) string {
	return c.GetString(contextSubjectKey)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(HeaderAuthToken)
	if header == "" {
		header = c.GetHeader("Authorization")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}
