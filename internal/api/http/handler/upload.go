package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/model"
)

// maxImageSize is the upload limit in bytes.
const maxImageSize = 500_000

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// storeImage validates the uploaded image part and stores it in the blob
// store under a fresh key. The key is the opaque image reference persisted
// with the owning row.
func storeImage(r *http.Request, storage model.Storage, field string) (string, error) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return "", apperror.Validation("invalid inputs passed, please check your data")
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", apperror.Validation("invalid inputs passed, please check your data")
	}
	defer file.Close()

	if header.Size > maxImageSize {
		return "", apperror.Validation("image must be at most 500000 bytes")
	}

	ext, ok := imageExtensions[header.Header.Get("Content-Type")]
	if !ok {
		return "", apperror.Validation("invalid mime type")
	}

	key := uuid.NewString() + "." + ext
	if err := storage.Upload(r.Context(), key, file, header.Size, header.Header.Get("Content-Type")); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return key, nil
}
