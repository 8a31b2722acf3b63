package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/kendall-kelly/curtainry-specialist-api/utils"
)

// ErrStorageUnavailable is returned when photo storage is not configured
var ErrStorageUnavailable = errors.New("photo storage is not configured")

// StoredPhoto identifies the objects written for one uploaded photo
type StoredPhoto struct {
	Key          string
	ThumbnailKey string
	ContentType  string
}

// PhotoService stores site photos and their thumbnails
type PhotoService interface {
	// Store validates the upload, writes the photo and a thumbnail, and returns their keys
	Store(ctx context.Context, orderID string, fileHeader *multipart.FileHeader) (*StoredPhoto, error)

	// URL returns a time-limited URL for a stored object
	URL(ctx context.Context, key string) (string, error)

	// Delete removes a stored photo and its thumbnail
	Delete(ctx context.Context, photo *StoredPhoto) error
}

// S3PhotoService implements PhotoService on top of S3
type S3PhotoService struct {
	s3Service S3Interface
	newID     func() string
}

var photoServiceInstance PhotoService

// NewS3PhotoService creates a photo service writing to s3Service
func NewS3PhotoService(s3Service S3Interface) *S3PhotoService {
	return &S3PhotoService{
		s3Service: s3Service,
		newID:     func() string { return uuid.New().String() },
	}
}

// InitPhotoService initializes the photo service with an S3 backend
func InitPhotoService(s3Service S3Interface) PhotoService {
	photoServiceInstance = NewS3PhotoService(s3Service)
	return photoServiceInstance
}

// GetPhotoService returns the initialized photo service, nil when storage is not configured
func GetPhotoService() PhotoService {
	return photoServiceInstance
}

// AvailablePhotoService returns the photo service or ErrStorageUnavailable when none is configured
func AvailablePhotoService() (PhotoService, error) {
	if photoServiceInstance == nil {
		return nil, ErrStorageUnavailable
	}
	return photoServiceInstance, nil
}

// SetPhotoService sets the photo service instance (primarily for testing)
func SetPhotoService(service PhotoService) {
	photoServiceInstance = service
}

func photoKeys(orderID, id, contentType string) (string, string) {
	base := fmt.Sprintf("site-photos/%s/%s", orderID, id)
	return base + utils.ExtensionFor(contentType), base + "_thumb.png"
}

// Store validates the upload, writes the photo and a thumbnail
func (s *S3PhotoService) Store(ctx context.Context, orderID string, fileHeader *multipart.FileHeader) (*StoredPhoto, error) {
	data, contentType, err := utils.ReadImageFile(fileHeader)
	if err != nil {
		return nil, err
	}

	thumb, err := utils.MakeThumbnail(data)
	if err != nil {
		return nil, err
	}

	key, thumbKey := photoKeys(orderID, s.newID(), contentType)

	if err := s.s3Service.PutObject(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}
	if err := s.s3Service.PutObject(ctx, thumbKey, thumb, "image/png"); err != nil {
		if delErr := s.s3Service.DeleteObject(ctx, key); delErr != nil {
			slog.Warn("Failed to clean up photo after thumbnail upload failed", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	return &StoredPhoto{Key: key, ThumbnailKey: thumbKey, ContentType: contentType}, nil
}

// URL generates a presigned URL for a stored object
func (s *S3PhotoService) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	url, err := s.s3Service.GetPresignedURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate photo URL: %w", err)
	}
	return url, nil
}

// Delete removes a stored photo and its thumbnail
func (s *S3PhotoService) Delete(ctx context.Context, photo *StoredPhoto) error {
	if photo == nil {
		return nil
	}
	for _, key := range []string{photo.Key, photo.ThumbnailKey} {
		if err := s.s3Service.DeleteObject(ctx, key); err != nil {
			return fmt.Errorf("failed to delete photo: %w", err)
		}
	}
	return nil
}
