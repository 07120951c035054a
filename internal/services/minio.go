package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"ecom_back_end/internal/database"
)

// UploadProductImage stocke l'image produit dans MinIO et renvoie son URL
// publique. Le nom est préfixé d'un UUID pour éviter les collisions.
func UploadProductImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "products-image"
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := uuid.NewString() + filepath.Ext(file.Filename)
	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), bucket, objectName)
	return url, nil
}
