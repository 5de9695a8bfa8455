package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/labstack/gommon/log"

	apperrors "homefinder/internal/errors"
)

const (
	// MaxImages is the largest number of files accepted in one request.
	MaxImages = 10
	// MaxImageSize caps a single uploaded file.
	MaxImageSize = 10 << 20
)

// Store persists uploaded files and returns the URL they are served from.
type Store interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitize reduces a client supplied file name to a safe base name.
func sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "image"
	}
	return name
}

// SaveImages validates and stores multipart image files in order, returning their URLs.
// Nothing is stored unless every file is acceptable, and a failed save removes the
// files already written by the same call.
func SaveImages(ctx context.Context, store Store, files []*multipart.FileHeader) ([]string, error) {
	if len(files) > MaxImages {
		return nil, fmt.Errorf("%w: at most %d images per request", apperrors.ErrInvalidUpload, MaxImages)
	}
	for _, fh := range files {
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			return nil, fmt.Errorf("%w: %s is not an image", apperrors.ErrInvalidUpload, fh.Filename)
		}
		if fh.Size > MaxImageSize {
			return nil, fmt.Errorf("%w: %s is too large", apperrors.ErrInvalidUpload, fh.Filename)
		}
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := saveOne(ctx, store, fh, fh.Header.Get("Content-Type"))
		if err != nil {
			RemoveAll(ctx, store, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// RemoveAll deletes stored files, logging the ones that could not be removed.
func RemoveAll(ctx context.Context, store Store, urls []string) {
	for _, url := range urls {
		if err := store.Remove(ctx, url); err != nil {
			log.Warnf("remove upload %s: %v", url, err)
		}
	}
}

func saveOne(ctx context.Context, store Store, fh *multipart.FileHeader, contentType string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	url, err := store.Save(ctx, fh.Filename, contentType, io.LimitReader(f, MaxImageSize))
	if err != nil {
		return "", fmt.Errorf("save upload %s: %w", fh.Filename, err)
	}
	return url, nil
}
