package handlers

import (
	"net/http"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/socialsimple/backend/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *HandlersTestSuite) TestRegister() {
	t := suite.T()

	w := suite.jsonRequest(http.MethodPost, "/auth/register", gin.H{"email": "new@example.com", "password": "password123"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "new@example.com", body["email"])
	assert.Equal(t, true, body["is_active"])
	assert.Equal(t, false, body["is_superuser"])
	assert.Equal(t, false, body["is_verified"])
	assert.NotContains(t, body, "hashed_password")

	w = suite.jsonRequest(http.MethodPost, "/auth/register", gin.H{"email": "NEW@example.com", "password": "password123"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailRegisterUserAlreadyExists, decode(t, w)["detail"])
}

func (suite *HandlersTestSuite) TestRegisterValidation() {
	t := suite.T()

	w := suite.jsonRequest(http.MethodPost, "/auth/register", gin.H{"email": "a@example.com", "password": "short"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailRegisterInvalidPassword, decode(t, w)["detail"])

	w = suite.jsonRequest(http.MethodPost, "/auth/register", gin.H{"email": "not-an-email", "password": "password123"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = suite.jsonRequest(http.MethodPost, "/auth/register", gin.H{"email": "a@example.com"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestLogin() {
	t := suite.T()
	suite.signup("a@example.com")

	w := suite.login("a@example.com", "password123")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "bearer", body["token_type"])
	assert.NotEmpty(t, body["access_token"])

	w = suite.login("a@example.com", "wrong-password")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailLoginBadCredentials, decode(t, w)["detail"])

	w = suite.login("nobody@example.com", "password123")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailLoginBadCredentials, decode(t, w)["detail"])

	w = suite.login("", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestInactiveUserCannotLogin() {
	t := suite.T()
	_, id := suite.signup("a@example.com")
	require.NoError(t, suite.kernel.Users().UpdateCredential(suite.ctx, id, map[string]interface{}{"is_active": false}))

	w := suite.login("a@example.com", "password123")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailLoginBadCredentials, decode(t, w)["detail"])
}

func (suite *HandlersTestSuite) TestLogoutRevokesToken() {
	t := suite.T()
	mr := miniredis.RunT(t)
	suite.kernel.WithMockCache(cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
	suite.router = gin.New()
	suite.setupRoutes()

	token, _ := suite.signup("a@example.com")
	require.Equal(t, http.StatusOK, suite.request(http.MethodGet, "/users/me", nil, "", token).Code)

	w := suite.request(http.MethodPost, "/auth/jwt/logout", nil, "", token)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusUnauthorized, suite.request(http.MethodGet, "/users/me", nil, "", token).Code)
}

func (suite *HandlersTestSuite) TestLogoutRequiresAuth() {
	w := suite.request(http.MethodPost, "/auth/jwt/logout", nil, "", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestForgotAndResetPassword() {
	t := suite.T()
	suite.signup("a@example.com")

	w := suite.jsonRequest(http.MethodPost, "/auth/forgot-password", gin.H{"email": "a@example.com"}, "")
	require.Equal(t, http.StatusAccepted, w.Code)
	token := suite.notifier.resets["a@example.com"]
	require.NotEmpty(t, token)

	// Unknown addresses look the same
	w = suite.jsonRequest(http.MethodPost, "/auth/forgot-password", gin.H{"email": "ghost@example.com"}, "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = suite.jsonRequest(http.MethodPost, "/auth/reset-password", gin.H{"token": token, "password": "short"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailResetPasswordInvalidPass, decode(t, w)["detail"])

	w = suite.jsonRequest(http.MethodPost, "/auth/reset-password", gin.H{"token": token, "password": "newpassword456"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusOK, suite.login("a@example.com", "newpassword456").Code)
	assert.Equal(t, http.StatusBadRequest, suite.login("a@example.com", "password123").Code)

	// Tokens are single-use
	w = suite.jsonRequest(http.MethodPost, "/auth/reset-password", gin.H{"token": token, "password": "another-password"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailResetPasswordBadToken, decode(t, w)["detail"])
}

func (suite *HandlersTestSuite) TestVerify() {
	t := suite.T()
	suite.signup("a@example.com")

	w := suite.jsonRequest(http.MethodPost, "/auth/request-verify-token", gin.H{"email": "a@example.com"}, "")
	require.Equal(t, http.StatusAccepted, w.Code)
	token := suite.notifier.verify["a@example.com"]
	require.NotEmpty(t, token)

	w = suite.jsonRequest(http.MethodPost, "/auth/verify", gin.H{"token": token}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_verified"])

	w = suite.jsonRequest(http.MethodPost, "/auth/verify", gin.H{"token": token}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailVerifyUserAlreadyVerified, decode(t, w)["detail"])

	w = suite.jsonRequest(http.MethodPost, "/auth/verify", gin.H{"token": "garbage"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailVerifyUserBadToken, decode(t, w)["detail"])
}
