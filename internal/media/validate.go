// Package media builds and validates local video files before upload.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"courtiq/internal/model"
)

// allowedTypes is the fixed allow-list of container MIME types the service
// accepts. The declared type is trusted; this is a UX gate, not a security
// boundary, so no content sniffing happens here.
var allowedTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/x-msvideo": true,
}

// mimeByExt maps the supported file extensions to their container types.
// We keep our own table instead of mime.TypeByExtension so behavior does not
// depend on the host's mime database.
var mimeByExt = map[string]string{
	".mp4": "video/mp4",
	".mov": "video/quicktime",
	".qt":  "video/quicktime",
	".avi": "video/x-msvideo",
}

// FromPath constructs a MediaFile from a local path, deriving the declared
// MIME type from the extension. The file must exist and be a regular file.
func FromPath(path string) (model.MediaFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.MediaFile{}, model.NewError(model.ErrClientSetup, fmt.Sprintf("cannot read %q: %v", path, err))
	}
	if info.IsDir() {
		return model.MediaFile{}, model.NewError(model.ErrClientSetup, fmt.Sprintf("%q is a directory, not a video file", path))
	}
	ext := strings.ToLower(filepath.Ext(path))
	return model.MediaFile{
		Path:      path,
		Name:      filepath.Base(path),
		MIMEType:  mimeByExt[ext], // empty for unknown extensions; Validate rejects it
		SizeBytes: info.Size(),
	}, nil
}

// Validate checks the file's declared type against the allow-list.
// Pure: no I/O, no side effects. Returns nil or a ClientSetup ErrorInfo
// with a human-readable reason.
func Validate(f model.MediaFile) error {
	if allowedTypes[f.MIMEType] {
		return nil
	}
	return model.NewError(model.ErrClientSetup,
		fmt.Sprintf("invalid file type for %q: please select an MP4, MOV, or AVI file", f.Name))
}
