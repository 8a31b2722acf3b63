package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/lifecycle"
	"github.com/kendall-kelly/curtainry-specialist-api/metrics"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
	"github.com/kendall-kelly/curtainry-specialist-api/utils"
)

// UploadSitePhoto handles POST /api/v1/orders/:id/photos - stores a site photo (multipart field "photo")
func UploadSitePhoto(c *gin.Context) {
	specialistID, role, ok := currentSpecialist(c)
	if !ok {
		return
	}

	photoService, err := services.AvailablePhotoService()
	if errors.Is(err, services.ErrStorageUnavailable) {
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Photo storage is not configured")
		return
	}

	order, ok := loadOwnedOrder(c, specialistID)
	if !ok {
		return
	}
	// Checked before touching storage so rejected uploads leave nothing behind
	if err := lifecycle.CanUploadPhoto(lifecycle.StateOf(*order), role); err != nil {
		metrics.ObservePhotoUpload(writeOrderError(c, err))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "A photo file is required in the 'photo' field")
		return
	}

	stored, err := photoService.Store(c.Request.Context(), order.ID, fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			metrics.ObservePhotoUpload("invalid_file")
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		slog.Error("Failed to store site photo", "order_id", order.ID, "error", err)
		metrics.ObservePhotoUpload(metrics.OutcomeError)
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store photo")
		return
	}

	photo, err := services.GetOrderRepository().AddPhoto(c.Request.Context(), order.ID, services.PhotoRequest{
		S3Key:        stored.Key,
		ThumbnailKey: stored.ThumbnailKey,
		ContentType:  stored.ContentType,
		Role:         role,
		ActorID:      specialistID,
	})
	if err != nil {
		if delErr := photoService.Delete(c.Request.Context(), stored); delErr != nil {
			slog.Warn("Failed to remove orphaned site photo", "key", stored.Key, "error", delErr)
		}
		metrics.ObservePhotoUpload(writeOrderError(c, err))
		return
	}
	metrics.ObservePhotoUpload(metrics.OutcomeApplied)

	fillPhotoURLs(c, photoService, photo)
	respondSuccess(c, http.StatusCreated, photo)
}

// ListSitePhotos handles GET /api/v1/orders/:id/photos
func ListSitePhotos(c *gin.Context) {
	specialistID, _, ok := currentSpecialist(c)
	if !ok {
		return
	}

	order, ok := loadOwnedOrder(c, specialistID)
	if !ok {
		return
	}

	photos, err := services.GetOrderRepository().Photos(c.Request.Context(), order.ID)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	if photoService := services.GetPhotoService(); photoService != nil {
		for i := range photos {
			fillPhotoURLs(c, photoService, &photos[i])
		}
	}

	respondSuccess(c, http.StatusOK, photos)
}

// fillPhotoURLs attaches presigned URLs. A failed presign leaves the URL empty.
func fillPhotoURLs(c *gin.Context, photoService services.PhotoService, photo *models.SitePhoto) {
	url, err := photoService.URL(c.Request.Context(), photo.S3Key)
	if err != nil {
		slog.Warn("Failed to presign photo URL", "key", photo.S3Key, "error", err)
	}
	photo.URL = url

	if photo.ThumbnailKey == "" {
		return
	}
	thumbURL, err := photoService.URL(c.Request.Context(), photo.ThumbnailKey)
	if err != nil {
		slog.Warn("Failed to presign thumbnail URL", "key", photo.ThumbnailKey, "error", err)
	}
	photo.ThumbnailURL = thumbURL
}
