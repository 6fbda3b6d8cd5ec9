package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/socialsimple/backend/internal/errors"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/metrics"
	"github.com/socialsimple/backend/internal/models"
	"github.com/socialsimple/backend/internal/repository"
	"github.com/socialsimple/backend/internal/storage"
	"github.com/socialsimple/backend/internal/util"
	"go.uber.org/zap"
)

// multipartOverhead is allowed on top of the file limit for boundaries and
// the caption field.
const multipartOverhead = 1 << 20

const mediaDeleteTimeout = 10 * time.Second

// Upload stores a multipart "file" in the media store and records it as a
// post owned by the caller.
// POST /upload
func (h *Handlers) Upload(c *gin.Context) {
	account, ok := util.GetAccountFromContext(c)
	if !ok {
		return
	}

	maxBytes := h.kernel.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.RecordUploadFailure("too_large")
			util.RespondWithAPIError(c, apierrors.PayloadTooLarge(maxBytes))
			return
		}
		metrics.RecordUploadFailure("read")
		util.RespondWithAPIError(c, apierrors.InvalidParam("file", "file is required"))
		return
	}
	if err := util.ValidateFilename(fileHeader.Filename); err != nil {
		metrics.RecordUploadFailure("bad_name")
		util.RespondWithAPIError(c, apierrors.InvalidParam("file", err.Error()))
		return
	}
	caption := c.PostForm("caption")
	contentType := fileHeader.Header.Get("Content-Type")

	tmp, err := util.SaveUploadedFile(fileHeader, maxBytes)
	if errors.Is(err, util.ErrFileTooLarge) {
		metrics.RecordUploadFailure("too_large")
		util.RespondWithAPIError(c, apierrors.PayloadTooLarge(maxBytes))
		return
	}
	if err != nil {
		metrics.RecordUploadFailure("read")
		util.RespondWithAPIError(c, apierrors.UploadFailed(err.Error()))
		return
	}
	defer tmp.Remove()

	f, err := os.Open(tmp.Path)
	if err != nil {
		metrics.RecordUploadFailure("read")
		util.RespondWithAPIError(c, apierrors.UploadFailed(err.Error()))
		return
	}
	defer f.Close()

	result, err := h.kernel.MediaStore().Upload(c.Request.Context(), &storage.UploadRequest{
		Body:        f,
		Size:        tmp.Size,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Tags:        []string{storage.UploadTag},
		UniqueName:  true,
	})
	if err != nil {
		metrics.RecordUploadFailure("store")
		util.RespondWithAPIError(c, apierrors.UploadFailed(err.Error()))
		return
	}
	if result.StatusCode != http.StatusOK {
		metrics.RecordUploadFailure("rejected")
		logger.Log.Warn("Media store rejected upload",
			zap.Int("provider_status", result.StatusCode),
			zap.String("message", result.Message),
			logger.WithUserID(account.ID.String()),
		)
		util.RespondWithAPIError(c, apierrors.UploadRejected(result.StatusCode))
		return
	}

	post := &models.Post{
		UserID:     account.ID,
		Caption:    caption,
		URL:        result.URL,
		FileType:   models.FileTypeFor(contentType),
		FileName:   result.Name,
		StorageKey: result.Key,
	}
	if err := h.kernel.Posts().CreatePost(c.Request.Context(), post); err != nil {
		metrics.RecordUploadFailure("persist")
		util.RespondWithAPIError(c, apierrors.UploadFailed(err.Error()))
		return
	}

	metrics.RecordPostUploaded(post.FileType, tmp.Size)
	logger.Log.Info("Post uploaded",
		logger.WithPostID(post.ID.String()),
		logger.WithUserID(account.ID.String()),
		zap.String("file_type", post.FileType),
		zap.Int64("size", tmp.Size),
	)

	c.JSON(http.StatusOK, post)
}

// GetFeed returns every post, newest first, annotated for the caller.
// GET /feed
func (h *Handlers) GetFeed(c *gin.Context) {
	account, ok := util.GetAccountFromContext(c)
	if !ok {
		return
	}
	start := time.Now()
	ctx := c.Request.Context()

	posts, err := h.kernel.Posts().ListPostsNewestFirst(ctx)
	if err != nil {
		util.RespondWithAPIError(c, apierrors.InternalError(err.Error()))
		return
	}
	emails, err := h.kernel.Users().GetEmailsByID(ctx)
	if err != nil {
		util.RespondWithAPIError(c, apierrors.InternalError(err.Error()))
		return
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, models.NewPostView(p, account.ID, emails))
	}

	metrics.RecordFeedGeneration("global", time.Since(start), len(views))
	c.JSON(http.StatusOK, gin.H{"posts": views})
}

// DeletePost removes one of the caller's posts, then its media on a best-effort basis.
// DELETE /posts/:post_id
func (h *Handlers) DeletePost(c *gin.Context) {
	account, ok := util.GetAccountFromContext(c)
	if !ok {
		return
	}
	postID, ok := util.ParseUUIDParam(c, "post_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	post, err := h.kernel.Posts().GetPost(ctx, postID)
	if errors.Is(err, repository.ErrPostNotFound) {
		util.RespondNotFound(c, "Post")
		return
	}
	if err != nil {
		util.RespondWithAPIError(c, apierrors.InternalError(err.Error()))
		return
	}

	if post.UserID != account.ID {
		util.RespondForbidden(c, "You don't have permission to delete this post.")
		return
	}

	if err := h.kernel.Posts().DeletePost(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondWithAPIError(c, apierrors.InternalError(err.Error()))
		return
	}
	metrics.RecordPostDeleted()

	if post.StorageKey != "" {
		h.deleteMedia(ctx, post)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post deleted successfully",
	})
}

// deleteMedia removes the post's remote file. Failures leave an orphaned
// object and are only logged.
func (h *Handlers) deleteMedia(ctx context.Context, post *models.Post) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mediaDeleteTimeout)
	defer cancel()

	if err := h.kernel.MediaStore().Delete(ctx, post.StorageKey); err != nil {
		metrics.RecordMediaDeleteError()
		logger.Log.Warn("Failed to delete post media",
			logger.WithPostID(post.ID.String()),
			zap.String("storage_key", post.StorageKey),
			zap.Error(err),
		)
	}
}
