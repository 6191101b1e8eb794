// Package storage keeps uploaded files (request attachments, result files and
// patient ID photos) in an object store.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by Get and Delete for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Store puts, reads and removes objects by key.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds a collision-free key under prefix that keeps the
// extension of the original file name.
func ObjectKey(prefix, fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(fileName, "\\", "/"))))
	return path.Join(strings.Trim(prefix, "/"), uuid.NewString()+ext)
}

// Upload stores body under a fresh key below prefix and returns its metadata.
func Upload(ctx context.Context, s Store, prefix, fileName string, body io.Reader, size int64, contentType string) (Object, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	obj := Object{
		Key:         ObjectKey(prefix, fileName),
		Name:        path.Base(strings.ReplaceAll(fileName, "\\", "/")),
		Size:        size,
		ContentType: contentType,
	}
	if err := s.Put(ctx, obj.Key, body, size, contentType); err != nil {
		return Object{}, err
	}
	return obj, nil
}
