package images

import (
	"context"
	"net/url"
	"strings"
)

// URLIngester stores the image URL exactly as the client sent it.
type URLIngester struct{}

func NewURLIngester() *URLIngester {
	return &URLIngester{}
}

func (URLIngester) Mode() string { return ModeURL }

func (URLIngester) Ingest(_ context.Context, src Source) (string, error) {
	raw := strings.TrimSpace(src.URL)
	if raw == "" {
		return "", ErrMissingImage
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}
	return raw, nil
}

// Remove is a no-op; the image lives on someone else's server.
func (URLIngester) Remove(context.Context, string) error { return nil }
