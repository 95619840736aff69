package v1

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"
	"net/http"
	"strings"
	"time"

	"go-collab-backend/config"
	"go-collab-backend/internal/delivery/http/response"
	"go-collab-backend/pkg/apperror"
	"go-collab-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/draw"
)

const maxUploadBytes = 10 << 20 // 10 MB

type MediaHandler struct {
	cfg *config.Config
}

func NewMediaHandler(protected *gin.RouterGroup, cfg *config.Config) {
	handler := &MediaHandler{cfg: cfg}

	protected.POST("/media", handler.Upload)
}

// Upload godoc
// @Summary      Upload media
// @Description  Upload an image (avatar, collab card art, proof screenshot) and get a public URL. Images are recompressed as JPEG.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "File to upload"
// @Param        bucket   query     string  false  "Target bucket"
// @Param        old_url  query     string  false  "Previous file URL to delete"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /media [post]
// @Security     BearerAuth
func (h *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}
	if file.Size > maxUploadBytes {
		c.Error(apperror.BadRequest("File exceeds the 10MB upload limit"))
		return
	}

	bucket := c.DefaultQuery("bucket", h.cfg.StorageBucket)
	validBuckets := map[string]bool{
		"media":   true,
		"avatars": true,
		"proofs":  true,
	}
	if !validBuckets[bucket] {
		logger.Log.Warn("invalid bucket requested, using default", "bucket", bucket)
		bucket = h.cfg.StorageBucket
	}

	if h.cfg.SupabaseUrl == "" || h.cfg.SupabaseKey == "" {
		c.Error(apperror.New(http.StatusInternalServerError, "Storage not configured", nil))
		return
	}

	// Replacing an existing file: best-effort delete of the old object.
	if oldURL := c.Query("old_url"); oldURL != "" {
		h.deleteOldFile(oldURL)
	}

	src, err := file.Open()
	if err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Failed to open file", nil))
		return
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Failed to read file", nil))
		return
	}

	// Sniffing the bytes is more reliable than trusting the header.
	contentType := http.DetectContentType(fileBytes)
	if !strings.HasPrefix(contentType, "image/") {
		c.Error(apperror.BadRequest("Only image uploads are supported"))
		return
	}

	finalBytes := fileBytes
	if compressed, compressErr := compressImage(fileBytes, 1200, 80); compressErr != nil {
		logger.Log.Warn("image compression failed, uploading original", "error", compressErr)
	} else {
		finalBytes = compressed
	}

	// Supabase requires ASCII-only object names. Compressed output is JPEG.
	finalFilename := fmt.Sprintf("%d_%s.jpg", time.Now().UnixNano(), sanitizeFilename(file.Filename))

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", h.cfg.SupabaseUrl, bucket, finalFilename)

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, uploadURL, bytes.NewReader(finalBytes))
	if err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Failed to create upload request", nil))
		return
	}
	req.Header.Set("Authorization", "Bearer "+h.cfg.SupabaseKey)
	req.Header.Set("Content-Type", "image/jpeg")
	req.Header.Set("x-upsert", "true")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		c.Error(apperror.New(http.StatusBadGateway, "Failed to upload file", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Log.Error("storage upload rejected", "status", resp.StatusCode, "body", string(respBody))
		c.Error(apperror.New(http.StatusBadGateway, "Upload failed", fmt.Errorf("storage returned status %d", resp.StatusCode)))
		return
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", h.cfg.SupabaseUrl, bucket, finalFilename)

	response.Success(c, http.StatusOK, "File uploaded", gin.H{"url": publicURL})
}

// deleteOldFile removes a previously uploaded object given its public URL.
// Failures are logged only; a stale object is not worth failing the upload.
func (h *MediaHandler) deleteOldFile(oldURL string) {
	// URL format: https://xxx.supabase.co/storage/v1/object/public/BUCKET/FILENAME
	parts := strings.Split(oldURL, "/storage/v1/object/public/")
	if len(parts) != 2 {
		return
	}
	pathParts := strings.SplitN(parts[1], "/", 2)
	if len(pathParts) != 2 {
		return
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", h.cfg.SupabaseUrl, pathParts[0], pathParts[1])
	req, err := http.NewRequest(http.MethodDelete, deleteURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+h.cfg.SupabaseKey)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Log.Warn("failed to delete old media object", "url", oldURL, "error", err)
		return
	}
	resp.Body.Close()
}

// compressImage resizes to maxDimension on the long edge and re-encodes as
// JPEG at the given quality.
func compressImage(data []byte, maxDimension, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	newWidth, newHeight := width, height
	if width >= height && width > maxDimension {
		newWidth = maxDimension
		newHeight = int(float64(height) * float64(maxDimension) / float64(width))
	} else if height > width && height > maxDimension {
		newHeight = maxDimension
		newWidth = int(float64(width) * float64(maxDimension) / float64(height))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeFilename strips the extension and keeps ASCII alphanumerics,
// underscores and dashes. Supabase rejects non-ASCII object names.
func sanitizeFilename(filename string) string {
	baseName := filename
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		baseName = filename[:idx]
	}
	baseName = strings.ReplaceAll(baseName, " ", "_")

	var result strings.Builder
	for _, r := range baseName {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			result.WriteRune(r)
		}
	}

	if result.Len() == 0 {
		return "file"
	}
	return result.String()
}
