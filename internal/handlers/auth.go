package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialsimple/backend/internal/auth"
	apierrors "github.com/socialsimple/backend/internal/errors"
	"github.com/socialsimple/backend/internal/metrics"
	"github.com/socialsimple/backend/internal/util"
)

// Machine-readable details returned by the auth and user routes
const (
	DetailRegisterUserAlreadyExists = "REGISTER_USER_ALREADY_EXISTS"
	DetailRegisterInvalidPassword   = "REGISTER_INVALID_PASSWORD"
	DetailLoginBadCredentials       = "LOGIN_BAD_CREDENTIALS"
	DetailResetPasswordBadToken     = "RESET_PASSWORD_BAD_TOKEN"
	DetailResetPasswordInvalidPass  = "RESET_PASSWORD_INVALID_PASSWORD"
	DetailVerifyUserBadToken        = "VERIFY_USER_BAD_TOKEN"
	DetailVerifyUserAlreadyVerified = "VERIFY_USER_ALREADY_VERIFIED"
	DetailUpdateUserEmailExists     = "UPDATE_USER_EMAIL_ALREADY_EXISTS"
	DetailUpdateUserInvalidPassword = "UPDATE_USER_INVALID_PASSWORD"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// Register creates an account
// POST /auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "body", err.Error())
		return
	}

	account, err := h.kernel.Auth().Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthEvent("register", "failure")
		switch {
		case errors.Is(err, auth.ErrUserExists):
			util.RespondBadRequest(c, DetailRegisterUserAlreadyExists)
		case errors.Is(err, auth.ErrInvalidPassword):
			util.RespondBadRequest(c, DetailRegisterInvalidPassword)
		case errors.Is(err, auth.ErrInvalidEmail):
			util.RespondValidationError(c, "email", err.Error())
		default:
			util.RespondInternalError(c, err.Error())
		}
		return
	}

	metrics.RecordAuthEvent("register", "success")
	c.JSON(http.StatusCreated, account.Read())
}

// Login exchanges form fields username (the email) and password for a bearer token
// POST /auth/jwt/login
func (h *Handlers) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		util.RespondValidationError(c, "username", "username and password are required")
		return
	}

	token, err := h.kernel.Auth().Login(c.Request.Context(), username, password)
	if err != nil {
		metrics.RecordAuthEvent("login", "failure")
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondBadRequest(c, DetailLoginBadCredentials)
			return
		}
		util.RespondInternalError(c, err.Error())
		return
	}

	metrics.RecordAuthEvent("login", "success")
	c.JSON(http.StatusOK, token)
}

// Logout revokes the caller's bearer token
// POST /auth/jwt/logout
func (h *Handlers) Logout(c *gin.Context) {
	token, ok := auth.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		util.RespondUnauthorized(c)
		return
	}

	if err := h.kernel.Auth().Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			util.RespondUnauthorized(c)
			return
		}
		util.RespondInternalError(c, err.Error())
		return
	}

	metrics.RecordAuthEvent("logout", "success")
	c.Status(http.StatusNoContent)
}

// ForgotPassword mails a reset token. The answer never reveals whether the address exists.
// POST /auth/forgot-password
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "email", err.Error())
		return
	}

	if err := h.kernel.Auth().ForgotPassword(c.Request.Context(), req.Email); err != nil {
		metrics.RecordAuthEvent("forgot_password", "failure")
		util.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusAccepted, nil)
}

// ResetPassword sets a new password using a reset token
// POST /auth/reset-password
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "body", err.Error())
		return
	}

	if err := h.kernel.Auth().ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		metrics.RecordAuthEvent("reset_password", "failure")
		switch {
		case errors.Is(err, auth.ErrBadResetToken):
			util.RespondBadRequest(c, DetailResetPasswordBadToken)
		case errors.Is(err, auth.ErrInvalidPassword):
			util.RespondBadRequest(c, DetailResetPasswordInvalidPass)
		default:
			util.RespondInternalError(c, err.Error())
		}
		return
	}

	metrics.RecordAuthEvent("reset_password", "success")
	c.JSON(http.StatusOK, nil)
}

// RequestVerifyToken mails a verification token. Always answers 202.
// POST /auth/request-verify-token
func (h *Handlers) RequestVerifyToken(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "email", err.Error())
		return
	}

	if err := h.kernel.Auth().RequestVerification(c.Request.Context(), req.Email); err != nil {
		util.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusAccepted, nil)
}

// Verify marks an account as verified
// POST /auth/verify
func (h *Handlers) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "token", err.Error())
		return
	}

	account, err := h.kernel.Auth().Verify(c.Request.Context(), req.Token)
	if err != nil {
		metrics.RecordAuthEvent("verify", "failure")
		switch {
		case errors.Is(err, auth.ErrBadVerifyToken):
			util.RespondBadRequest(c, DetailVerifyUserBadToken)
		case errors.Is(err, auth.ErrAlreadyVerified):
			util.RespondBadRequest(c, DetailVerifyUserAlreadyVerified)
		default:
			util.RespondInternalError(c, err.Error())
		}
		return
	}

	metrics.RecordAuthEvent("verify", "success")
	c.JSON(http.StatusOK, account.Read())
}

// respondAccountUpdateError maps UpdateAccount failures for the /users routes.
func respondAccountUpdateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		util.RespondNotFound(c, "User")
	case errors.Is(err, auth.ErrUserExists):
		util.RespondBadRequest(c, DetailUpdateUserEmailExists)
	case errors.Is(err, auth.ErrInvalidPassword):
		util.RespondBadRequest(c, DetailUpdateUserInvalidPassword)
	case errors.Is(err, auth.ErrInvalidEmail):
		util.RespondWithAPIError(c, apierrors.ValidationError("email", err.Error()))
	default:
		util.RespondInternalError(c, err.Error())
	}
}
