// Package storage keeps uploaded profile photos on local disk.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	apperrors "garage/internal/errors"
)

// MaxPhotoSize is the largest accepted upload, in bytes.
const MaxPhotoSize = 5 << 20

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// PhotoStore saves photos under a single directory with generated names.
type PhotoStore struct {
	dir string
}

// NewPhotoStore creates the directory if needed.
func NewPhotoStore(dir string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &PhotoStore{dir: dir}, nil
}

// Dir returns the directory photos are written to.
func (s *PhotoStore) Dir() string {
	return s.dir
}

// Save writes the upload as <uuid><ext> and returns the file name.
// The type is sniffed from the content, not taken from the client.
func (s *PhotoStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxPhotoSize {
		return "", fmt.Errorf("%d bytes: %w", fh.Size, apperrors.ErrInvalidPhoto)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	ext, ok := photoExtensions[http.DetectContentType(head[:n])]
	if !ok {
		return "", fmt.Errorf("content type %q: %w", http.DetectContentType(head[:n]), apperrors.ErrInvalidPhoto)
	}

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create photo: %w", err)
	}

	written, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head[:n]), io.LimitReader(src, MaxPhotoSize-int64(n)+1)))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > MaxPhotoSize {
		err = fmt.Errorf("%d bytes: %w", written, apperrors.ErrInvalidPhoto)
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	return name, nil
}

// Remove deletes a saved photo. Empty and missing names are ignored.
func (s *PhotoStore) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
