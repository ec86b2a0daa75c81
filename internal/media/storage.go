// Package media stores uploaded assets (partner logos, product images,
// catalogue PDFs) and resolves the public URL of a stored key.
//
// Two drivers are available:
//   - "local": files under MEDIA_ROOT, served by the API process at MEDIA_URL
//   - "s3":    any S3-compatible bucket (AWS S3, MinIO, R2)
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"partner-catalog-service/internal/config"
)

// Upload directories, one per asset field.
const (
	DirPartnerLogos          = "partenaires/logos"
	DirSupplierProductImages = "produits_fournisseur/images"
	DirCataloguePDFs         = "catalogues/pdf"
	DirProductCovers         = "produits/couvertures"
)

// Storage is the driver interface. Keys are slash-separated relative paths.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL of key, absolute or rooted at "/".
	URL(key string) string
}

// New builds the driver selected by cfg.Driver.
func New(ctx context.Context, cfg config.MediaConfig) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocalStorage(cfg.Root, cfg.URL)
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("media: unknown driver %q", cfg.Driver)
	}
}

// NewKey returns dir/<stem>_<8 hex chars><ext> for an uploaded filename.
// The stem keeps letters, digits, '-' and '_'; spaces become '_'.
func NewKey(dir, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := path.Ext(base)
	stem := sanitize(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "file"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return path.Join(dir, stem+"_"+suffix+sanitize(ext))
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '-' || r == '_' || r == '.',
			r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve returns the URL a client should use for key. origin is the
// scheme://host of the current request and may be empty; when it is, a
// relative storage URL is returned unchanged.
func Resolve(s Storage, origin, key string) string {
	u := s.URL(key)
	if isAbsolute(u) || origin == "" {
		return u
	}
	return strings.TrimRight(origin, "/") + u
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// cleanKey rejects keys that would escape the storage root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.TrimSpace(key))[1:]
	if k == "" || k != strings.TrimPrefix(strings.TrimSpace(key), "/") {
		return "", fmt.Errorf("media: invalid key %q", key)
	}
	return k, nil
}
