package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"rewear/internal/config"
	"rewear/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder

	_ "image/gif"
	_ "image/png"
)

const (
	DefaultMediaUploadDir    = "/tmp/rewear/uploads"
	DefaultMediaMaxSizeMB    = 10
	ListingImageMaxDimension = 1600
	JPEGQuality              = 82
	WebPQuality              = 70
)

// MediaUpload is one raw image payload attached to a listing.
type MediaUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// MediaService accepts raw image bytes and turns them into hosted variant
// files, returning a stable URL. It stands in for the hosted CDN boundary:
// callers store only the returned URLs, never bytes.
type MediaService struct {
	uploadDir    string
	baseURL      string
	maxSizeBytes int64
}

func NewMediaService(cfg *config.Config) *MediaService {
	uploadDir := DefaultMediaUploadDir
	maxSizeMB := DefaultMediaMaxSizeMB
	baseURL := "/media"

	if cfg != nil {
		if cfg.MediaUploadDir != "" {
			uploadDir = cfg.MediaUploadDir
		}
		if cfg.MediaMaxSizeMB > 0 {
			maxSizeMB = cfg.MediaMaxSizeMB
		}
		if cfg.MediaBaseURL != "" {
			baseURL = strings.TrimRight(cfg.MediaBaseURL, "/")
		}
	}

	return &MediaService{
		uploadDir:    uploadDir,
		baseURL:      baseURL,
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
	}
}

// UploadDir returns the directory variant files are written to, for static
// file serving.
func (s *MediaService) UploadDir() string {
	return s.uploadDir
}

// Store validates, normalizes and persists one image, returning the URL of
// its primary variant. Content addressing makes re-uploads of the same bytes
// idempotent.
func (s *MediaService) Store(in MediaUpload) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewValidationError("Invalid image type")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, detectedType) {
		return "", models.NewValidationError("Image content type mismatch")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	master := resizeToFit(decoded, ListingImageMaxDimension, ListingImageMaxDimension)

	encodedJPG, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	hash := contentHash(encodedJPG)
	jpgRel := filepath.ToSlash(filepath.Join(hash, "master.jpg"))
	webpRel := filepath.ToSlash(filepath.Join(hash, "master.webp"))
	jpgAbs := filepath.Join(s.uploadDir, jpgRel)
	webpAbs := filepath.Join(s.uploadDir, webpRel)

	if err := writeBytesToFile(jpgAbs, encodedJPG); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpAbs, encodedWebP); err != nil {
		_ = os.Remove(jpgAbs)
		return "", models.NewInternalError(err)
	}

	return s.baseURL + "/" + webpRel, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func contentHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
