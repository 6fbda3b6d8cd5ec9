package util

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// ErrFileTooLarge is returned when an upload exceeds the caller's limit.
var ErrFileTooLarge = errors.New("uploaded file too large")

// TempFile is an upload spooled to local disk.
type TempFile struct {
	Path string
	Size int64
}

// Remove deletes the temp file. Safe to call more than once.
func (f *TempFile) Remove() {
	if f == nil || f.Path == "" {
		return
	}
	_ = os.Remove(f.Path)
}

// SaveUploadedFile copies a multipart file into a temp file, refusing more
// than maxBytes. The part is always closed and nothing is left on disk when
// an error is returned.
func SaveUploadedFile(file *multipart.FileHeader, maxBytes int64) (*TempFile, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "socialsimple-upload-*"+filepath.Ext(file.Filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := &TempFile{Path: dst.Name()}

	reader := io.Reader(src)
	if maxBytes > 0 {
		reader = io.LimitReader(src, maxBytes+1)
	}

	n, err := io.Copy(dst, reader)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		tmp.Remove()
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	if maxBytes > 0 && n > maxBytes {
		tmp.Remove()
		return nil, ErrFileTooLarge
	}

	tmp.Size = n
	return tmp, nil
}
