package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Image uploads accepted with a new issue. Only the multipart header's
// declared type is checked, not the file contents.
var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/jpg":  true,
}

var ErrUnsupportedImage = fmt.Errorf("only image files are allowed (jpg, jpeg, png, webp)")

// Uploader stores issue images as flat files under a local directory.
type Uploader struct {
	dir string
}

// NewUploader ensures the upload directory exists.
func NewUploader(dir string) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Uploader{dir: dir}, nil
}

// Save writes the uploaded file under a generated name and returns the public
// path it will be served from.
func (u *Uploader) Save(fh *multipart.FileHeader) (string, error) {
	if !allowedImageMIMEs[fh.Header.Get("Content-Type")] {
		return "", ErrUnsupportedImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return "/uploads/" + name, nil
}

// Dir returns the directory uploads are written to.
func (u *Uploader) Dir() string {
	return u.dir
}
