package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

// PendingUpload is a validated but not yet stored attachment.
type PendingUpload struct {
	Filename    string
	SizeBytes   int64
	MimeType    string
	ImageWidth  *int
	ImageHeight *int
	Data        multipart.File
}

// ValidateUploads opens each file header, detects its MIME type, checks it
// against the allow list and, for images, extracts dimensions.
func ValidateUploads(fileHeaders []*multipart.FileHeader, allowedMimes map[string]bool) ([]*PendingUpload, error) {
	if len(fileHeaders) == 0 {
		return nil, nil
	}

	var pending []*PendingUpload

	for _, fileHeader := range fileHeaders {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		mimeType, err := DetectMimeType(fileHeader)
		if err != nil {
			file.Close()
			return nil, err
		}

		if !allowedMimes[mimeType] {
			file.Close()
			return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
		}

		width, height := ExtractImageDimensions(file, mimeType)

		pending = append(pending, &PendingUpload{
			Filename:    fileHeader.Filename,
			SizeBytes:   fileHeader.Size,
			MimeType:    mimeType,
			ImageWidth:  width,
			ImageHeight: height,
			Data:        file,
		})
	}

	return pending, nil
}

// BuildAllowedMimeMap merges allow lists into a lookup map.
func BuildAllowedMimeMap(mimeLists ...[]string) map[string]bool {
	allowed := make(map[string]bool)
	for _, list := range mimeLists {
		for _, m := range list {
			allowed[m] = true
		}
	}
	return allowed
}

func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	// No Content-Type or a generic one: fall back to the extension
	if mimeType == "" || mimeType == "application/octet-stream" {
		ext := filepath.Ext(fileHeader.Filename)
		if detectedType := mime.TypeByExtension(ext); detectedType != "" {
			mimeType = detectedType
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("could not detect MIME type for file: %s", fileHeader.Filename)
	}

	return mimeType, nil
}

func ExtractImageDimensions(file multipart.File, mimeType string) (*int, *int) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, nil
	}

	img, _, err := image.DecodeConfig(file)
	if err != nil {
		// Not decodable is not fatal at this layer
		file.Seek(0, 0)
		return nil, nil
	}

	file.Seek(0, 0)

	width, height := img.Width, img.Height
	return &width, &height
}
