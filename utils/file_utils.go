// utils/file_utils.go
package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
)

// Allowed image extensions. SVG is excluded on purpose: it cannot be
// re-encoded through the image pipeline and may carry scripts.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	filename = filepath.Base(filename)
	reg := regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	return reg.ReplaceAllString(filename, "")
}

// ValidateImageFile checks extension and size limits for an upload
func ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > maxFileSize {
		return errors.New("file too large (max 10MB)")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return errors.New("invalid file type: allowed extensions are jpg, jpeg, png, gif")
	}

	return nil
}

// SaveImage stores an uploaded image under uploads/<subdir>, downscaling
// it to maxWidth pixels wide when larger, and returns the served path.
func SaveImage(file *multipart.FileHeader, subdir string, maxWidth int) (string, error) {
	if err := ValidateImageFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", errors.New("file is not a valid image")
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	uploadDir := filepath.Join(uploadBaseDir, subdir)
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(cleanFilename(file.Filename)))
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	fullPath := filepath.Join(uploadDir, filename)

	if err := imaging.Save(img, fullPath); err != nil {
		return "", err
	}

	// Path as served by the static /uploads route
	return "/" + filepath.ToSlash(fullPath), nil
}
