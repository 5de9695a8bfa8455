package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore writes files to a directory that the router serves under URLPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	now       func() time.Time
	newID     func() string
}

// Ensure LocalStore implements Store
var _ Store = (*LocalStore)(nil)

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: urlPrefix,
		now:       time.Now,
		newID:     func() string { return uuid.NewString()[:8] },
	}, nil
}

// Dir is the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes body as <unix millis>-<random id>-<sanitized filename>.
func (s *LocalStore) Save(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), s.newID(), sanitize(filename))
	full := filepath.Join(s.dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(full)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", err
	}
	return path.Join(s.urlPrefix, name), nil
}

// Remove deletes a file previously returned by Save. Missing files are not an error.
func (s *LocalStore) Remove(_ context.Context, url string) error {
	name := path.Base(strings.TrimPrefix(url, s.urlPrefix))
	if name == "." || name == "/" {
		return fmt.Errorf("not an upload url: %q", url)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
