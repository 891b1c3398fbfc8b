package util

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"course-portal/internal/model"
)

// ImageUpload is a course image that has been read and verified.
type ImageUpload struct {
	Filename string
	Format   string
	MIMEType string
	Width    int
	Height   int
	Data     []byte
}

// ReadImage reads at most maxSize bytes from r and verifies that they decode
// as a JPEG, PNG, GIF or WebP image.
func ReadImage(filename string, r io.Reader, maxSize int64) (*ImageUpload, error) {
	filename, err := UploadFilename(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrUnsupportedImage, err)
	}
	if !IsImageExtension(filepath.Ext(filename)) {
		return nil, fmt.Errorf("%s: %w", filename, model.ErrUnsupportedImage)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, model.ErrImageTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, model.ErrUnsupportedImage)
	}

	return &ImageUpload{
		Filename: filename,
		Format:   format,
		MIMEType: DetectMIME(data),
		Width:    cfg.Width,
		Height:   cfg.Height,
		Data:     data,
	}, nil
}

func DetectMIME(data []byte) string {
	if len(data) > 512 {
		data = data[:512]
	}
	return http.DetectContentType(data)
}

func IsImageExtension(extension string) bool {
	switch strings.ToLower(strings.TrimSpace(extension)) {
	case ".jpg", ".jpeg", ".jpe", ".jfif", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}
