package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/socialsimple/backend/internal/models"
	"github.com/socialsimple/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegBytes = []byte("\xff\xd8\xff\xe0fake-jpeg-data")

func (suite *HandlersTestSuite) TestUploadImage() {
	t := suite.T()
	token, userID := suite.signup("a@example.com")

	w := suite.upload(token, "cat.jpg", "image/jpeg", "my cat", jpegBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, userID.String(), body["user_id"])
	assert.Equal(t, "my cat", body["caption"])
	assert.Equal(t, models.FileTypeImage, body["file_type"])
	assert.True(t, strings.HasPrefix(body["file_name"].(string), "cat_"))
	assert.True(t, strings.HasSuffix(body["file_name"].(string), ".jpg"))
	assert.Equal(t, "https://media.example.com/mock/"+body["file_name"].(string), body["url"])
	assert.NotContains(t, body, "storage_key")
	_, err := uuid.Parse(body["id"].(string))
	assert.NoError(t, err)

	require.Len(t, suite.kernel.Store.Uploads, 1)
	sent := suite.kernel.Store.Uploads[0]
	assert.True(t, sent.UniqueName)
	assert.Equal(t, []string{storage.UploadTag}, sent.Tags)
	assert.Equal(t, "cat.jpg", sent.FileName)
	assert.Equal(t, int64(len(jpegBytes)), sent.Size)

	post, err := suite.kernel.Posts().GetPost(suite.ctx, uuid.MustParse(body["id"].(string)))
	require.NoError(t, err)
	assert.Equal(t, "mock/"+body["file_name"].(string), post.StorageKey)
}

func (suite *HandlersTestSuite) TestUploadClassifiesByContentType() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")

	tests := []struct {
		filename    string
		contentType string
		expected    string
	}{
		{"clip.mp4", "video/mp4", models.FileTypeVideo},
		{"clip.mov", "video/quicktime", models.FileTypeVideo},
		{"pic.png", "image/png", models.FileTypeImage},
		{"blob.bin", "application/octet-stream", models.FileTypeImage},
	}

	for _, tt := range tests {
		w := suite.upload(token, tt.filename, tt.contentType, "", []byte("data"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, tt.expected, decode(t, w)["file_type"], tt.contentType)
	}
}

func (suite *HandlersTestSuite) TestUploadWithoutCaption() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")

	w := suite.upload(token, "cat.jpg", "image/jpeg", "", jpegBytes)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode(t, w)["caption"])
}

func (suite *HandlersTestSuite) TestUploadRequiresAuth() {
	w := suite.upload("", "cat.jpg", "image/jpeg", "", jpegBytes)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Empty(suite.T(), suite.kernel.Store.Uploads)
}

func (suite *HandlersTestSuite) TestUploadMissingFile() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")

	w := suite.upload(token, "", "", "caption only", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "file", body["field"])
}

func (suite *HandlersTestSuite) TestUploadFilenameTooLong() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")

	w := suite.upload(token, strings.Repeat("a", 256)+".jpg", "image/jpeg", "", []byte("jpeg"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file", decode(t, w)["field"])
	assert.Empty(t, suite.kernel.Store.Uploads)
}

func (suite *HandlersTestSuite) TestUploadTooLarge() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")
	suite.kernel.SetMaxUploadBytes(8)

	w := suite.upload(token, "cat.jpg", "image/jpeg", "", bytes.Repeat([]byte("x"), 64))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decode(t, w)["code"])
	assert.Empty(t, suite.kernel.Store.Uploads)
}

func (suite *HandlersTestSuite) TestUploadRejectedByStore() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")
	suite.kernel.Store.UploadFunc = func(ctx context.Context, req *storage.UploadRequest) (*storage.UploadResult, error) {
		return &storage.UploadResult{StatusCode: http.StatusForbidden, Message: "quota"}, nil
	}

	w := suite.upload(token, "cat.jpg", "image/jpeg", "", jpegBytes)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "UPLOAD_FAILED", decode(t, w)["code"])

	count, err := suite.kernel.Posts().GetTotalPostCount(suite.ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func (suite *HandlersTestSuite) TestUploadStoreError() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")
	suite.kernel.Store.UploadFunc = func(ctx context.Context, req *storage.UploadRequest) (*storage.UploadResult, error) {
		return nil, errors.New("connection reset")
	}

	w := suite.upload(token, "cat.jpg", "image/jpeg", "", jpegBytes)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "UPLOAD_FAILED", body["code"])
	assert.Equal(t, "connection reset", body["detail"])
}

func (suite *HandlersTestSuite) TestFeedOrderingAndOwnership() {
	t := suite.T()
	tokenA, userA := suite.signup("a@example.com")
	_, userB := suite.signup("b@example.com")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, owner := range []uuid.UUID{userA, userB, userA} {
		require.NoError(t, suite.kernel.Posts().CreatePost(suite.ctx, &models.Post{
			UserID:    owner,
			URL:       "https://media.example.com/p",
			FileType:  models.FileTypeImage,
			FileName:  "p.jpg",
			Caption:   string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	posts := suite.feed(tokenA)
	require.Len(t, posts, 3)

	var captions []string
	for _, p := range posts {
		captions = append(captions, p["caption"].(string))
		assert.Equal(t, p["user_id"] == userA.String(), p["is_owner"])
		if p["user_id"] == userB.String() {
			assert.Equal(t, "b@example.com", p["email"])
		} else {
			assert.Equal(t, "a@example.com", p["email"])
		}
	}
	assert.Equal(t, []string{"c", "b", "a"}, captions)

	prev, err := time.Parse(time.RFC3339Nano, posts[0]["created_at"].(string))
	require.NoError(t, err)
	for _, p := range posts[1:] {
		ts, err := time.Parse(time.RFC3339Nano, p["created_at"].(string))
		require.NoError(t, err)
		assert.True(t, !ts.After(prev))
		prev = ts
	}
}

func (suite *HandlersTestSuite) TestFeedEmpty() {
	token, _ := suite.signup("a@example.com")
	w := suite.request(http.MethodGet, "/feed", nil, "", token)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `{"posts": []}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestFeedRequiresAuth() {
	w := suite.request(http.MethodGet, "/feed", nil, "", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestUploadFeedRoundTrip() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")

	w := suite.upload(token, "clip.mp4", "video/mp4", "look", []byte("mp4"))
	require.Equal(t, http.StatusOK, w.Code)
	created := decode(t, w)

	posts := suite.feed(token)
	require.Len(t, posts, 1)
	for _, field := range []string{"id", "url", "file_type", "file_name", "caption"} {
		assert.Equal(t, created[field], posts[0][field], field)
	}
	assert.Equal(t, true, posts[0]["is_owner"])
	assert.Equal(t, "a@example.com", posts[0]["email"])
}

// User A uploads cat.jpg; B may not delete it, A may, and it leaves the feed.
func (suite *HandlersTestSuite) TestDeleteOwnershipScenario() {
	t := suite.T()
	tokenA, _ := suite.signup("a@example.com")
	tokenB, _ := suite.signup("b@example.com")

	w := suite.upload(tokenA, "cat.jpg", "image/jpeg", "", jpegBytes)
	require.Equal(t, http.StatusOK, w.Code)
	created := decode(t, w)
	postPath := "/posts/" + created["id"].(string)

	posts := suite.feed(tokenB)
	require.Len(t, posts, 1)
	assert.Equal(t, false, posts[0]["is_owner"])

	w = suite.request(http.MethodDelete, postPath, nil, "", tokenB)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You don't have permission to delete this post.", decode(t, w)["detail"])
	assert.Len(t, suite.feed(tokenA), 1)
	assert.Empty(t, suite.kernel.Store.DeletedKeys())

	w = suite.request(http.MethodDelete, postPath, nil, "", tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "message": "Post deleted successfully"}`, w.Body.String())
	assert.Empty(t, suite.feed(tokenA))
	assert.Equal(t, []string{"mock/" + created["file_name"].(string)}, suite.kernel.Store.DeletedKeys())

	w = suite.request(http.MethodDelete, postPath, nil, "", tokenA)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", decode(t, w)["detail"])
}

func (suite *HandlersTestSuite) TestDeleteInvalidID() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")

	w := suite.request(http.MethodDelete, "/posts/not-a-uuid", nil, "", token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "post_id", decode(t, w)["field"])
}

func (suite *HandlersTestSuite) TestDeleteUnknownPost() {
	token, _ := suite.signup("a@example.com")
	w := suite.request(http.MethodDelete, "/posts/"+uuid.NewString(), nil, "", token)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteSucceedsWhenMediaCleanupFails() {
	t := suite.T()
	token, _ := suite.signup("a@example.com")
	suite.kernel.Store.DeleteFunc = func(ctx context.Context, key string) error {
		return errors.New("cdn down")
	}

	w := suite.upload(token, "cat.jpg", "image/jpeg", "", jpegBytes)
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w)["id"].(string)

	w = suite.request(http.MethodDelete, "/posts/"+id, nil, "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, suite.feed(token))
}
