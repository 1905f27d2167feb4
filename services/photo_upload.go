package services

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"mini_kpi_app_go/models"

	"github.com/google/uuid"
)

const MaxUploadSize = 10 * 1024 * 1024 // 10MB

// ValidateImageUpload checks that the uploaded file is an image within the
// size limit, sniffing the content rather than trusting the extension.
func ValidateImageUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxUploadSize {
		return fmt.Errorf("file size exceeds maximum allowed size of 10MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file content: %w", err)
	}

	contentType := http.DetectContentType(buffer[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("only image files are allowed (got %s)", contentType)
	}

	return nil
}

// MakePhoto turns an uploaded image into a photo entry: compress first, then
// derive both the permanent base64 form and a transient display reference
// under the given scope. The permanent form is the only one relied upon
// after this session.
func MakePhoto(registry *BlobRegistry, scope string, fileHeader *multipart.FileHeader) (*models.Photo, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(raw)
	}

	compressed, outMime := CompressImage(raw, mimeType, CompressOptions{})

	fileName := fileHeader.Filename
	if fileName == "" {
		fileName = "photo.jpg"
	}

	return &models.Photo{
		ID:       uuid.New().String(),
		FileName: fileName,
		MimeType: outMime,
		Data:     "data:" + outMime + ";base64," + base64.StdEncoding.EncodeToString(compressed),
		Blob:     compressed,
		BlobURL:  registry.Add(scope, compressed, outMime),
	}, nil
}
