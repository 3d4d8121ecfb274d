package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var ErrInvalidToken = errors.New("invalid token")

type User struct {
	ID      string
	Name    string
	IsAdmin bool
}

// TokenAuthorizer resolves a bearer token to a user. The real session layer
// lives outside this service; handlers only depend on this interface.
type TokenAuthorizer interface {
	UserFromToken(ctx context.Context, token string) (User, error)
}

// StaticTokens authorizes a fixed set of operator tokens, all of them admin.
type StaticTokens struct {
	tokens map[string]bool
}

func NewStaticTokens(tokens []string) *StaticTokens {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if t != "" {
			set[t] = true
		}
	}
	return &StaticTokens{tokens: set}
}

func (s *StaticTokens) UserFromToken(_ context.Context, token string) (User, error) {
	if !s.tokens[token] {
		return User{}, ErrInvalidToken
	}
	return User{ID: token, Name: "operator", IsAdmin: true}, nil
}

// RequireAdmin checks the session token first, then the admin flag on the
// resolved user.
func RequireAdmin(sessions TokenAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		user, err := sessions.UserFromToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin required"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}
