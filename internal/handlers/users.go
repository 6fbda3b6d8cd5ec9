package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialsimple/backend/internal/auth"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/util"
	"go.uber.org/zap"
)

// GetMe returns the caller's account
// GET /users/me
func (h *Handlers) GetMe(c *gin.Context) {
	account, ok := util.GetAccountFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, account.Read())
}

// UpdateMe changes the caller's email or password. Status flags are ignored.
// PATCH /users/me
func (h *Handlers) UpdateMe(c *gin.Context) {
	account, ok := util.GetAccountFromContext(c)
	if !ok {
		return
	}

	var update auth.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		util.RespondValidationError(c, "body", err.Error())
		return
	}

	updated, err := h.kernel.Auth().UpdateAccount(c.Request.Context(), account.ID, update, false)
	if err != nil {
		respondAccountUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.Read())
}

// GetUser returns any account. Superuser only.
// GET /users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	userID, ok := util.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	account, err := h.kernel.Auth().GetAccount(c.Request.Context(), userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		util.RespondNotFound(c, "User")
		return
	}
	if err != nil {
		util.RespondInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, account.Read())
}

// UpdateUser applies a privileged update to any account. Superuser only.
// PATCH /users/:id
func (h *Handlers) UpdateUser(c *gin.Context) {
	userID, ok := util.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var update auth.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		util.RespondValidationError(c, "body", err.Error())
		return
	}

	updated, err := h.kernel.Auth().UpdateAccount(c.Request.Context(), userID, update, true)
	if err != nil {
		respondAccountUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.Read())
}

// DeleteUser removes an account with its posts, then their media. Superuser only.
// DELETE /users/:id
func (h *Handlers) DeleteUser(c *gin.Context) {
	userID, ok := util.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	posts, err := h.kernel.Posts().ListPostsByUser(ctx, userID)
	if err != nil {
		util.RespondInternalError(c, err.Error())
		return
	}

	if err := h.kernel.Auth().DeleteAccount(ctx, userID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			util.RespondNotFound(c, "User")
			return
		}
		util.RespondInternalError(c, err.Error())
		return
	}

	for i := range posts {
		if posts[i].StorageKey != "" {
			h.deleteMedia(ctx, &posts[i])
		}
	}
	if len(posts) > 0 {
		logger.Log.Info("Removed media for deleted user",
			logger.WithUserID(userID.String()),
			zap.Int("posts", len(posts)),
		)
	}

	c.Status(http.StatusNoContent)
}
