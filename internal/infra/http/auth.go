package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

const tokenContextKey = "token"

// requirePermission authorizes the request before the route handler runs.
// With no permissions it only requires a verified token.
func (s *Server) requirePermission(perms ...string) gin.HandlerFunc {
	required := domain.Permissions(perms...)
	return func(c *gin.Context) {
		if s.gate == nil {
			writeStatus(c, http.StatusInternalServerError, "auth misconfigured")
			return
		}
		token, err := s.gate.Authorize(c.Request.Context(), c.GetHeader("Authorization"), required)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(tokenContextKey, token)
		c.Next()
	}
}

func tokenFromContext(c *gin.Context) (domain.Token, bool) {
	raw, ok := c.Get(tokenContextKey)
	if !ok {
		return domain.Token{}, false
	}
	token, ok := raw.(domain.Token)
	return token, ok
}
