package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps files on the local filesystem.
type LocalStorage struct {
	root      string // absolute root directory
	urlPrefix string // always starts and ends with "/" unless absolute
}

func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	if root == "" {
		root = "media"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("media/local: resolve root %s: %w", root, err)
	}
	if urlPrefix == "" {
		urlPrefix = "/media/"
	}
	if !isAbsolute(urlPrefix) && !strings.HasPrefix(urlPrefix, "/") {
		urlPrefix = "/" + urlPrefix
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStorage{root: abs, urlPrefix: urlPrefix}, nil
}

func (s *LocalStorage) abs(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *LocalStorage) Put(_ context.Context, key string, r io.Reader, _ string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	full := s.abs(k)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("media/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("media/local: create %s: %w", k, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return fmt.Errorf("media/local: write %s: %w", k, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("media/local: close %s: %w", k, err)
	}
	return nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(s.abs(k)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("media/local: delete %s: %w", k, err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.urlPrefix + strings.TrimLeft(key, "/")
}

// MountPath is the router prefix files are served from, or "" when
// MEDIA_URL points at another host.
func (s *LocalStorage) MountPath() string {
	if isAbsolute(s.urlPrefix) {
		return ""
	}
	return s.urlPrefix
}

// Handler serves stored files below MountPath.
func (s *LocalStorage) Handler() http.Handler {
	return http.StripPrefix(s.urlPrefix, http.FileServer(http.Dir(s.root)))
}
