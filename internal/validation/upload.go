package validation

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	// register decoders for content sniffing; client metadata is never trusted
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	nanoid "github.com/matoous/go-nanoid/v2"

	apperrors "github.com/startdash-dev/startdash/internal/errors"
)

const (
	maxStemLength   = 50
	fallbackStem    = "bg"
	suffixAlphabet  = "0123456789abcdef"
	suffixLength    = 16
	mimeOctetStream = "application/octet-stream"
)

// formatToMime maps a decoded image format (as registered with image.Decode)
// to its canonical MIME type.
var formatToMime = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
}

// formatToExts maps a decoded image format to the extensions a client may
// legitimately claim for it.
var formatToExts = map[string][]string{
	"png":  {".png"},
	"jpeg": {".jpg", ".jpeg", ".jfif"},
	"webp": {".webp"},
	"gif":  {".gif"},
}

var unsafeStemChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// UploadLimits configures the upload checker.
type UploadLimits struct {
	AllowedExtensions []string
	AllowedMimeTypes  []string
	MaxWidth          int
	MaxHeight         int
}

// CheckedUpload is the result of a successful upload validation.
type CheckedUpload struct {
	// Format is the decoded image format ("png", "jpeg", "webp", "gif").
	Format string
	Width  int
	Height int
	// StoredName is collision-resistant and safe to place under the managed
	// upload directory: sanitized stem, random suffix, validated extension.
	StoredName string
}

// CheckUpload validates an uploaded byte stream against the claimed filename
// and MIME type. The decoded pixel data is ground truth: extension and MIME
// are cross-checked against the detected format, never trusted on their own.
// On success the reader is positioned at the start of the stream.
func CheckUpload(filename, claimedMime string, r io.ReadSeeker, limits UploadLimits) (*CheckedUpload, error) {
	if filename == "" {
		return nil, apperrors.UploadRejected("empty filename")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(limits.AllowedExtensions, ext) {
		return nil, apperrors.UploadRejected("unsupported file extension")
	}
	if !contains(limits.AllowedMimeTypes, claimedMime) && claimedMime != mimeOctetStream {
		return nil, apperrors.UploadRejected("unsupported file type")
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek upload stream: %w", err)
	}
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, apperrors.UploadRejected("invalid image content")
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek upload stream: %w", err)
	}

	canonicalMime, ok := formatToMime[format]
	if !ok || !contains(limits.AllowedMimeTypes, canonicalMime) {
		return nil, apperrors.UploadRejected("unsupported image format")
	}
	// application/octet-stream is a wildcard fallback for clients that never
	// learned the real type; anything else must match the detected format
	if claimedMime != canonicalMime && claimedMime != mimeOctetStream {
		return nil, apperrors.UploadRejected("mime type does not match image content")
	}
	if !contains(formatToExts[format], ext) {
		return nil, apperrors.UploadRejected("file extension does not match image content")
	}
	if cfg.Width > limits.MaxWidth || cfg.Height > limits.MaxHeight {
		return nil, apperrors.UploadRejected("image dimensions exceed allowed limit")
	}

	suffix, err := nanoid.Generate(suffixAlphabet, suffixLength)
	if err != nil {
		return nil, fmt.Errorf("generate filename suffix: %w", err)
	}
	stored := fmt.Sprintf("%s_%s%s", sanitizeStem(filename), suffix, ext)

	return &CheckedUpload{
		Format:     format,
		Width:      cfg.Width,
		Height:     cfg.Height,
		StoredName: stored,
	}, nil
}

// sanitizeStem reduces the client-supplied filename to a bounded, traversal-safe
// stem. Anything outside [A-Za-z0-9_-] collapses to an underscore.
func sanitizeStem(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = unsafeStemChars.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._-")
	if len(stem) > maxStemLength {
		stem = stem[:maxStemLength]
	}
	if stem == "" {
		return fallbackStem
	}
	return stem
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
