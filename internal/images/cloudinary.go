package images

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// uploadAPI is the part of the Cloudinary SDK used here.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type CloudinaryIngester struct {
	upload  uploadAPI
	folder  string
	timeout time.Duration
}

func NewCloudinaryIngester(cld *cloudinary.Cloudinary, folder string) *CloudinaryIngester {
	return &CloudinaryIngester{upload: &cld.Upload, folder: folder, timeout: 30 * time.Second}
}

// for cloudinary uploadParams
func boolPtr(b bool) *bool {
	return &b
}

func (c *CloudinaryIngester) Mode() string { return ModeCloudinary }

// Ingest uploads the file once. A failed upload is reported to the caller
// as is; there is no retry.
func (c *CloudinaryIngester) Ingest(ctx context.Context, src Source) (string, error) {
	if !src.HasFile() {
		return "", ErrMissingImage
	}

	if err := CheckSize(src.File); err != nil {
		return "", err
	}
	if _, err := SniffMIME(src.File); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.upload.Upload(ctx, src.File, uploader.UploadParams{
		Folder:    c.folder,
		PublicID:  fmt.Sprintf("product_%d_%s", time.Now().Unix(), uuid.NewString()[:8]),
		Overwrite: boolPtr(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (c *CloudinaryIngester) Remove(ctx context.Context, ref string) error {
	publicID, err := PublicIDFromURL(ref)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}

// PublicIDFromURL extracts the public id from a Cloudinary delivery URL:
//
//	https://res.cloudinary.com/demo/image/upload/v1740815725/products/abc.png -> products/abc
func PublicIDFromURL(photoURL string) (string, error) {
	parsedURL, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	parts := strings.Split(parsedURL.Path, "/")
	for i, part := range parts {
		if part != "upload" || i+1 >= len(parts) {
			continue
		}
		rest := parts[i+1:]
		if isVersion(rest[0]) {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			break
		}
		id := strings.Join(rest, "/")
		return strings.TrimSuffix(id, path.Ext(id)), nil
	}

	return "", errors.New("failed to extract public ID from URL")
}

func isVersion(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
