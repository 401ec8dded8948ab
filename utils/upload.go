package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedUploadExts is the fixed allow-list for document and image uploads.
var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AllowedUploadExt reports whether the file extension is accepted.
func AllowedUploadExt(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedUploadExts[ext]
}

// StoredFilename builds an opaque stored name for an upload, keeping only
// the original extension.
func StoredFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s%s", uuid.New().String(), ext)
}
