// Package storage keeps the images attached to actualities.
package storage

import (
	"context"
	"io"

	apperrors "github.com/aslectra/backend/internal/errors"
)

// FileInfo describes a stored image.
type FileInfo struct {
	ContentType string
	Size        int64
}

// ImageStore saves uploaded images and serves them back by reference.
type ImageStore interface {
	Save(ctx context.Context, r io.Reader, contentType string) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, FileInfo, error)
	Delete(ctx context.Context, id string) error
}

// Unavailable is used when no image backend is configured.
type Unavailable struct{}

func (Unavailable) Save(context.Context, io.Reader, string) (string, error) {
	return "", apperrors.ErrImageStoreUnavailable
}

func (Unavailable) Open(context.Context, string) (io.ReadCloser, FileInfo, error) {
	return nil, FileInfo{}, apperrors.ErrImageNotFound
}

func (Unavailable) Delete(context.Context, string) error {
	return nil
}
