package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/service"
	"github.com/d60-Lab/mingle/pkg/errors"
	"github.com/d60-Lab/mingle/pkg/response"
)

const userKey = "auth.user"

// Auth resolves the bearer token to a principal and stores it on the context.
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "No token, authorization denied")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		user, err := auth.ResolveToken(c.Request.Context(), token)
		if err != nil {
			msg := "Token is not valid"
			var appErr *errors.AppError
			if stderrors.As(err, &appErr) && appErr.Code == errors.CodeUnauthenticated {
				msg = appErr.Message
			}
			response.Unauthorized(c, msg)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated principal set by Auth.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}
