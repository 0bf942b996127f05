package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"arar/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MediaHandler struct {
	cloud  cloudinary.Client
	folder string
}

func NewMediaHandler(cloud cloudinary.Client, folder string) *MediaHandler {
	return &MediaHandler{cloud: cloud, folder: folder}
}

// UploadSignature handles GET /api/admin/media/upload-signature. The browser
// uploads directly to Cloudinary with the returned signature.
func (h *MediaHandler) UploadSignature(c *gin.Context) {
	sig, err := h.cloud.SignUpload(h.folder, time.Now())
	if errors.Is(err, cloudinary.ErrNotConfigured) {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Cloudinary credentials are not configured on the server."})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate secure upload signature: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, sig)
}

// Upload handles POST /api/admin/media/upload (multipart "file").
func (h *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file required"})
		return
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "only images can be uploaded"})
		return
	}
	publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "could not read file"})
		return
	}
	defer f.Close()

	url, thumb, err := h.cloud.UploadImage(c.Request.Context(), f, h.folder, publicID)
	if errors.Is(err, cloudinary.ErrNotConfigured) {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Cloudinary credentials are not configured on the server."})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "thumbnail_url": thumb})
}
