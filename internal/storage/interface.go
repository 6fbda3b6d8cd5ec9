package storage

import (
	"context"
	"io"
)

// UploadTag is attached to every object the API stores.
const UploadTag = "backend_upload"

// MediaStore is the remote file store behind post uploads.
// This interface allows for easy mocking in tests
type MediaStore interface {
	// Upload stores a file. A provider-side rejection is reported through
	// UploadResult.StatusCode with a nil error; transport and local failures
	// are returned as errors.
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	CheckAccess(ctx context.Context) error
}

// UploadRequest describes a file to store.
type UploadRequest struct {
	Body        io.Reader
	Size        int64
	FileName    string
	ContentType string
	Tags        []string
	// UniqueName asks the store to derive a globally unique stored name from FileName.
	UniqueName bool
}

// UploadResult contains the result of an upload
type UploadResult struct {
	StatusCode int    `json:"status_code"`
	URL        string `json:"url"`
	Name       string `json:"name"`
	Key        string `json:"key"`
	Size       int64  `json:"size"`
	Message    string `json:"message,omitempty"`
}

// Ensure implementations satisfy MediaStore
var (
	_ MediaStore = (*S3Store)(nil)
	_ MediaStore = (*CloudinaryStore)(nil)
)
