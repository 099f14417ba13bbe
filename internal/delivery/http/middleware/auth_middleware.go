package middleware

import (
	"net/http"
	"strings"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/audit"
	"go-interview-scheduler/pkg/auth"
	"go-interview-scheduler/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

// identify resolves the caller. The role and timezone come from the local user
// row, not the token, since the token role is usually just "authenticated".
func identify(c *gin.Context, verifier TokenVerifier, authUC domain.AuthUsecase, tokenString string) (*domain.User, string, bool) {
	claims, err := verifier.Verify(tokenString)
	if err != nil {
		audit.Default().Log(c.Request.Context(), audit.Event{
			Event:     audit.EventTokenRejected,
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			RequestID: requestIDOf(c),
			Details:   map[string]any{"reason": err.Error()},
		})
		return nil, "", false
	}

	user, err := authUC.GetCurrentUser(c.Request.Context(), claims.Subject)
	if err != nil {
		logger.Log.Warn("token subject has no local user", "sub", claims.Subject, "error", err)
		return nil, "", false
	}

	email := claims.Email
	if email == "" {
		email = user.Email
	}
	return user, email, true
}

func setIdentity(c *gin.Context, user *domain.User, email string) {
	role := user.Role
	if role == "" {
		role = "candidate"
	}
	c.Set(string(domain.KeyUserID), user.ID)
	c.Set(string(domain.KeyUserEmail), email)
	c.Set(string(domain.KeyUserRole), role)
	if user.Timezone != nil && *user.Timezone != "" {
		c.Set(string(domain.KeyUserTimezone), *user.Timezone)
	}
}

func AuthMiddleware(verifier TokenVerifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		user, email, ok := identify(c, verifier, authUC, tokenString)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		setIdentity(c, user, email)
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(verifier TokenVerifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if user, email, ok := identify(c, verifier, authUC, tokenString); ok {
				setIdentity(c, user, email)
			}
		}
		c.Next()
	}
}
