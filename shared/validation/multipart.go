package validation

import (
	"fmt"
	"net/http"
)

// ValidateAndParseMultipart enforces the size limit via MaxBytesReader and
// parses the multipart form. When the limit is exceeded the server stops
// reading and closes the connection; clients see the 413 or a reset.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}

	return nil
}

// CalculateMaxRequestSize adds a buffer (typically 1 MiB) for form fields
// and multipart overhead on top of the attachment size limit.
func CalculateMaxRequestSize(maxAttachmentSize int64, bufferSize int64) int64 {
	return maxAttachmentSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-facing error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
