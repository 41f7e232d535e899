// Package images turns an incoming product image into the string stored on
// the product row: a remote URL, a Cloudinary secure URL or a local path.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	ModeURL        = "url"
	ModeCloudinary = "cloudinary"
	ModeLocal      = "local"

	// MaxUploadBytes caps uploaded image files.
	MaxUploadBytes = 8 << 20
)

var (
	ErrMissingImage    = errors.New("image is required")
	ErrInvalidURL      = errors.New("image must be an absolute http or https URL")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = fmt.Errorf("image exceeds the %d MB limit", MaxUploadBytes>>20)
)

// AllowedTypes maps sniffed MIME types to the file extension used on disk.
var AllowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Source is what a client sent for the image field: either a URL string or
// an uploaded file.
type Source struct {
	URL      string
	File     io.ReadSeeker
	Filename string
}

func (s Source) HasFile() bool { return s.File != nil }

type Ingester interface {
	// Ingest stores the image and returns the reference to persist.
	Ingest(ctx context.Context, src Source) (string, error)
	// Remove deletes a previously ingested image. References the ingester
	// did not produce are ignored.
	Remove(ctx context.Context, ref string) error
	Mode() string
}

// SniffMIME reads the first 512 bytes to detect the content type, rewinds the
// reader and rejects anything outside AllowedTypes.
func SniffMIME(file io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read: %w", err)
	}
	mime := http.DetectContentType(buf[:n])

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek reset: %w", err)
	}

	if _, ok := AllowedTypes[mime]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
	return mime, nil
}

// CheckSize rejects files over MaxUploadBytes and rewinds the reader.
func CheckSize(file io.ReadSeeker) error {
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek end: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek reset: %w", err)
	}

	if size > MaxUploadBytes {
		return fmt.Errorf("%w: got %d bytes", ErrTooLarge, size)
	}
	return nil
}

// IsClientError reports whether err was caused by the request rather than
// the storage backend.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingImage) ||
		errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrTooLarge)
}
