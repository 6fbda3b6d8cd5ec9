package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *HandlersTestSuite) TestGetMe() {
	t := suite.T()
	token, id := suite.signup("a@example.com")

	w := suite.request(http.MethodGet, "/users/me", nil, "", token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, "a@example.com", body["email"])

	w = suite.request(http.MethodGet, "/users/me", nil, "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateMe() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")
	suite.signup("b@example.com")

	w := suite.jsonRequest(http.MethodPatch, "/users/me", gin.H{"email": "b@example.com"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailUpdateUserEmailExists, decode(t, w)["detail"])

	w = suite.jsonRequest(http.MethodPatch, "/users/me", gin.H{"password": "short"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailUpdateUserInvalidPassword, decode(t, w)["detail"])

	// Status flags are ignored for self-service updates
	w = suite.jsonRequest(http.MethodPatch, "/users/me", gin.H{"email": "a2@example.com", "is_superuser": true}, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "a2@example.com", body["email"])
	assert.Equal(t, false, body["is_superuser"])
}

func (suite *HandlersTestSuite) TestUpdateMeRejectedPasswordKeepsEmail() {
	t := suite.T()
	token, id := suite.signup("a@example.com")
	require.NoError(t, suite.kernel.Users().UpdateCredential(suite.ctx, id, map[string]interface{}{"is_verified": true}))

	w := suite.jsonRequest(http.MethodPatch, "/users/me", gin.H{"email": "new@example.com", "password": "short"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, DetailUpdateUserInvalidPassword, decode(t, w)["detail"])

	w = suite.request(http.MethodGet, "/users/me", nil, "", token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "a@example.com", body["email"])
	assert.Equal(t, true, body["is_verified"])
}

func (suite *HandlersTestSuite) TestUserAdminRoutesRequireSuperuser() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")
	_, other := suite.signup("b@example.com")

	assert.Equal(t, http.StatusForbidden, suite.request(http.MethodGet, "/users/"+other.String(), nil, "", token).Code)
	assert.Equal(t, http.StatusForbidden, suite.request(http.MethodDelete, "/users/"+other.String(), nil, "", token).Code)
	assert.Equal(t, http.StatusUnauthorized, suite.request(http.MethodGet, "/users/"+other.String(), nil, "", "").Code)
}

func (suite *HandlersTestSuite) TestSuperuserManagesUsers() {
	t := suite.T()
	adminToken, adminID := suite.signup("admin@example.com")
	suite.promote(adminID)
	userToken, userID := suite.signup("b@example.com")

	w := suite.upload(userToken, "cat.jpg", "image/jpeg", "", jpegBytes)
	require.Equal(t, http.StatusOK, w.Code)
	fileName := decode(t, w)["file_name"].(string)

	w = suite.request(http.MethodGet, "/users/"+userID.String(), nil, "", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b@example.com", decode(t, w)["email"])

	w = suite.request(http.MethodGet, "/users/"+uuid.NewString(), nil, "", adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/users/nope", nil, "", adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.jsonRequest(http.MethodPatch, "/users/"+userID.String(), gin.H{"is_verified": true}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_verified"])

	w = suite.request(http.MethodDelete, "/users/"+userID.String(), nil, "", adminToken)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Empty(t, suite.feed(adminToken))
	assert.Equal(t, []string{"mock/" + fileName}, suite.kernel.Store.DeletedKeys())
	assert.Equal(t, http.StatusUnauthorized, suite.request(http.MethodGet, "/users/me", nil, "", userToken).Code)

	w = suite.request(http.MethodDelete, "/users/"+userID.String(), nil, "", adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestHealth() {
	t := suite.T()
	w := suite.request(http.MethodGet, "/health", nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "healthy", body["checks"].(map[string]any)["database"])
}
