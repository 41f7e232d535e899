package images

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const defaultTestTimeout = 5 * time.Second

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func TestSniffMIME(t *testing.T) {
	r := bytes.NewReader(pngBytes)
	mime, err := SniffMIME(r)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	// reader is rewound for the upload that follows
	pos, _ := r.Seek(0, 1)
	assert.Zero(t, pos)

	_, err = SniffMIME(strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.True(t, IsClientError(err))
}

func TestURLIngester(t *testing.T) {
	in := NewURLIngester()
	ctx := context.Background()

	ref, err := in.Ingest(ctx, Source{URL: " https://cdn.example.com/lamp.png "})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/lamp.png", ref)

	_, err = in.Ingest(ctx, Source{})
	assert.ErrorIs(t, err, ErrMissingImage)

	for _, bad := range []string{"lamp.png", "ftp://example.com/a.png", "https://"} {
		_, err = in.Ingest(ctx, Source{URL: bad})
		assert.ErrorIs(t, err, ErrInvalidURL, bad)
	}

	assert.NoError(t, in.Remove(ctx, "https://cdn.example.com/lamp.png"))
	assert.Equal(t, ModeURL, in.Mode())
}

func TestLocalIngester(t *testing.T) {
	dir := t.TempDir()
	in, err := NewLocalIngester(dir, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := in.Ingest(ctx, Source{File: bytes.NewReader(pngBytes), Filename: "lamp.png"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	stored := filepath.Join(dir, filepath.Base(ref))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	require.NoError(t, in.Remove(ctx, ref))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// removing twice or removing foreign references is harmless
	assert.NoError(t, in.Remove(ctx, ref))
	assert.NoError(t, in.Remove(ctx, "https://cdn.example.com/lamp.png"))
	assert.NoError(t, in.Remove(ctx, "/uploads/../secrets"))
}

func TestLocalIngesterRejects(t *testing.T) {
	in, err := NewLocalIngester(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = in.Ingest(context.Background(), Source{URL: "https://cdn.example.com/a.png"})
	assert.ErrorIs(t, err, ErrMissingImage)

	_, err = in.Ingest(context.Background(), Source{File: strings.NewReader("<html></html>")})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	entries, err := os.ReadDir(in.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1740815725/products/abc.png", "products/abc"},
		{"https://res.cloudinary.com/demo/image/upload/products/nested/abc.jpg", "products/nested/abc"},
		{"https://res.cloudinary.com/demo/image/upload/v12/abc", "abc"},
	}
	for _, tt := range tests {
		got, err := PublicIDFromURL(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got)
	}

	_, err := PublicIDFromURL("https://cdn.example.com/lamp.png")
	assert.Error(t, err)
	_, err = PublicIDFromURL("https://res.cloudinary.com/demo/image/upload/v12")
	assert.Error(t, err)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	args := m.Called(ctx, file, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uploader.UploadResult), args.Error(1)
}

func (m *mockUploader) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uploader.DestroyResult), args.Error(1)
}

func TestCloudinaryIngester(t *testing.T) {
	up := new(mockUploader)
	in := &CloudinaryIngester{upload: up, folder: "products", timeout: defaultTestTimeout}

	const secureURL = "https://res.cloudinary.com/demo/image/upload/v1/products/product_1_ab.png"
	up.On("Upload", mock.Anything, mock.Anything, mock.MatchedBy(func(p uploader.UploadParams) bool {
		return p.Folder == "products" && strings.HasPrefix(p.PublicID, "product_")
	})).Return(&uploader.UploadResult{SecureURL: secureURL}, nil).Once()

	ref, err := in.Ingest(context.Background(), Source{File: bytes.NewReader(pngBytes)})
	require.NoError(t, err)
	assert.Equal(t, secureURL, ref)

	up.On("Destroy", mock.Anything, uploader.DestroyParams{PublicID: "products/product_1_ab"}).
		Return(&uploader.DestroyResult{Result: "ok"}, nil).Once()
	require.NoError(t, in.Remove(context.Background(), ref))

	up.AssertExpectations(t)
}

func TestCloudinaryIngesterUploadFailure(t *testing.T) {
	up := new(mockUploader)
	in := &CloudinaryIngester{upload: up, folder: "products", timeout: defaultTestTimeout}

	up.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	_, err := in.Ingest(context.Background(), Source{File: bytes.NewReader(pngBytes)})
	require.Error(t, err)
	assert.False(t, IsClientError(err))

	_, err = in.Ingest(context.Background(), Source{})
	assert.ErrorIs(t, err, ErrMissingImage)

	up.AssertNumberOfCalls(t, "Upload", 1)
}

// imageOfSize returns a PNG-signed payload of exactly n bytes.
func imageOfSize(n int) []byte {
	return append(append([]byte{}, pngBytes[:8]...), bytes.Repeat([]byte{0}, n-8)...)
}

func TestCheckSize(t *testing.T) {
	r := bytes.NewReader(imageOfSize(MaxUploadBytes))
	require.NoError(t, CheckSize(r))
	pos, _ := r.Seek(0, 1)
	assert.Zero(t, pos)

	err := CheckSize(bytes.NewReader(imageOfSize(MaxUploadBytes + 1)))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.True(t, IsClientError(err))
}

func TestLocalIngesterRejectsOversizeFile(t *testing.T) {
	in, err := NewLocalIngester(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = in.Ingest(context.Background(), Source{File: bytes.NewReader(imageOfSize(MaxUploadBytes + 512<<10))})
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(in.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)

	// exactly at the cap is stored whole
	ref, err := in.Ingest(context.Background(), Source{File: bytes.NewReader(imageOfSize(MaxUploadBytes))})
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(in.Dir(), filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, int64(MaxUploadBytes), info.Size())
}

func TestCloudinaryIngesterRejectsOversizeFile(t *testing.T) {
	up := new(mockUploader)
	in := &CloudinaryIngester{upload: up, folder: "products", timeout: defaultTestTimeout}

	_, err := in.Ingest(context.Background(), Source{File: bytes.NewReader(imageOfSize(MaxUploadBytes + 1))})
	assert.ErrorIs(t, err, ErrTooLarge)

	up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}
