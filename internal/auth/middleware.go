package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/socialsimple/backend/internal/errors"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/util"
	"go.uber.org/zap"
)

// Middleware rejects requests without a valid bearer token for an active
// account with 401, and stores the account in the context otherwise.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			util.RespondWithAPIError(c, apierrors.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}

		account, err := s.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) && !errors.Is(err, ErrInactiveUser) {
				logger.Log.Error("Token authentication failed", zap.Error(err))
			}
			util.RespondWithAPIError(c, apierrors.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}

		util.SetAccount(c, account)
		c.Next()
	}
}

// RequireSuperuser must run after Middleware.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := util.GetAccountFromContext(c)
		if !ok {
			c.Abort()
			return
		}
		if !account.Credential.IsSuperuser {
			util.RespondWithAPIError(c, apierrors.Forbidden("Forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
