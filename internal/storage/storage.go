package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Package storage holds the generated-PDF store. Two drivers exist: a local directory served
// under a public prefix, and an S3-compatible bucket (MinIO, AWS S3, etc.).

var (
	// ErrNotExist is returned by Get when the key is unknown.
	ErrNotExist = errors.New("object does not exist")
	// ErrInvalidKey rejects keys that could escape the storage root.
	ErrInvalidKey = errors.New("invalid object key")
	// ErrPresignUnsupported is returned by drivers that serve objects from a public path instead.
	ErrPresignUnsupported = errors.New("presigned urls are not supported by this driver")
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for generated PDFs.
type Storage interface {
	// Put stores the reader under key. A reader error leaves no object behind.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every object whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

var fieldSanitizer = strings.NewReplacer("/", "-", `\`, "-")

// PDFKeyPrefix starts every generated PDF key.
const PDFKeyPrefix = "RPP_"

// PDFFileName builds RPP_{subject}_{phase}_{epochMillis}.pdf. Path separators inside the
// fields are replaced so the name always stays a single path segment.
func PDFFileName(subject, phase string, now time.Time) string {
	return fmt.Sprintf("%s%s_%s_%d.pdf",
		PDFKeyPrefix,
		fieldSanitizer.Replace(subject),
		fieldSanitizer.Replace(phase),
		now.UnixMilli(),
	)
}

// PublicURL joins the public prefix and a key.
func PublicURL(prefix, key string) string {
	return strings.TrimRight(prefix, "/") + "/" + key
}

// KeyFromURL reverses PublicURL. ok is false for URLs outside the prefix.
func KeyFromURL(prefix, u string) (key string, ok bool) {
	p := strings.TrimRight(prefix, "/") + "/"
	if !strings.HasPrefix(u, p) {
		return "", false
	}
	key = strings.TrimPrefix(u, p)
	if ValidateKey(key) != nil {
		return "", false
	}
	return key, true
}

// ValidateKey accepts only single-segment keys.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
