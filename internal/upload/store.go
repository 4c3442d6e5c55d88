package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"electromart/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

const maxImageSize = 5 << 20 // 5 MiB

// Store saves product images on local disk under a configured directory,
// renaming each file to a UUID so uploads can never collide or traverse paths.
type Store struct {
	dir string
	log *logrus.Logger
}

func NewStore(dir string, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload directory %s: %w", dir, err)
	}
	return &Store{dir: dir, log: logger}, nil
}

// SaveImage writes the uploaded file to disk and returns the stored filename.
func (s *Store) SaveImage(header *multipart.FileHeader) (string, error) {
	if header.Size > maxImageSize {
		return "", fmt.Errorf("%w: image exceeds 5 MB", domain.ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", domain.ErrValidation, ext)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("could not open uploaded file: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dstPath := filepath.Join(s.dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		s.log.Errorf("Upload: failed to create %s: %v", dstPath, err)
		return "", fmt.Errorf("could not store uploaded file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		s.log.Errorf("Upload: failed to write %s: %v", dstPath, err)
		return "", fmt.Errorf("could not store uploaded file: %w", err)
	}

	s.log.Infof("Upload: stored image %s (%d bytes)", name, header.Size)
	return name, nil
}

// URL maps a stored filename to the path the templates link to.
func (s *Store) URL(name string) string {
	if name == "" {
		return ""
	}
	return path.Join("/uploads", name)
}
