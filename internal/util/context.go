package util

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/socialsimple/backend/internal/errors"
	"github.com/socialsimple/backend/internal/models"
)

const (
	accountKey = "account"
	userIDKey  = "user_id"
)

// SetAccount stores the authenticated account on the request context.
func SetAccount(c *gin.Context, account *models.Account) {
	c.Set(accountKey, account)
	c.Set(userIDKey, account.ID.String())
}

// GetAccountFromContext extracts the authenticated account from the Gin context.
// If the request is not authenticated, it responds with 401 Unauthorized.
func GetAccountFromContext(c *gin.Context) (*models.Account, bool) {
	value, exists := c.Get(accountKey)
	if !exists {
		RespondWithAPIError(c, errors.Unauthorized("Unauthorized"))
		return nil, false
	}
	account, ok := value.(*models.Account)
	if !ok || account == nil {
		RespondInternalError(c, "invalid account data in context")
		return nil, false
	}
	return account, true
}

// GetUserIDFromContext returns the authenticated user's ID, responding with
// 401 when there is none.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	account, ok := GetAccountFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	return account.ID, true
}
