package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PublicUploadPrefix is the URL prefix uploaded images are served under.
const PublicUploadPrefix = "/uploads"

var ErrNotAnImage = errors.New("profileImage must be an image file")

type ImageStore struct {
	Dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &ImageStore{Dir: dir}, nil
}

// Save sniffs the upload, rejects non-images, and persists it under a
// collision-resistant name. Returns the public path for the stored file.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	detected := mimetype.Detect(head[:n])
	if !strings.HasPrefix(detected.String(), "image/") {
		return "", fmt.Errorf("%w, got %s", ErrNotAnImage, detected.String())
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding upload: %w", err)
	}

	name := "profile-" + uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}

	return path.Join(PublicUploadPrefix, name), nil
}
