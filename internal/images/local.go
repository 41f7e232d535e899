package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalIngester writes uploads into dir and returns the public path they are
// served under, e.g. /uploads/3f2a...c1.png.
type LocalIngester struct {
	dir       string
	publicURL string
}

func NewLocalIngester(dir, publicURL string) (*LocalIngester, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalIngester{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (l *LocalIngester) Mode() string { return ModeLocal }

func (l *LocalIngester) Dir() string { return l.dir }

func (l *LocalIngester) Ingest(ctx context.Context, src Source) (string, error) {
	if !src.HasFile() {
		return "", ErrMissingImage
	}

	if err := CheckSize(src.File); err != nil {
		return "", err
	}

	mime, err := SniffMIME(src.File)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + AllowedTypes[mime]
	dst, err := os.OpenFile(filepath.Join(l.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	// One byte past the cap means the file grew after CheckSize.
	n, err := io.Copy(dst, io.LimitReader(src.File, MaxUploadBytes+1))
	if err == nil && n > MaxUploadBytes {
		err = ErrTooLarge
	}
	if err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("close image file: %w", err)
	}

	return path.Join(l.publicURL, name), nil
}

func (l *LocalIngester) Remove(_ context.Context, ref string) error {
	prefix := l.publicURL + "/"
	if !strings.HasPrefix(ref, prefix) {
		return nil
	}

	name := strings.TrimPrefix(ref, prefix)
	// Only plain file names produced by Ingest are removed.
	if name == "" || name != filepath.Base(name) {
		return nil
	}

	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
