package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrFileTooLarge    = errors.New("file exceeds the size ceiling")
	ErrDecodeFailed    = errors.New("image could not be decoded")
)

// Storage is the object-storage dependency of the ingestor.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Object is a stored image: the public URL plus the storage key it was
// uploaded under. The key is what deletion uses; URLs are never parsed.
type Object struct {
	URL string
	Key string
}

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Ingestor normalizes uploaded images and persists them to object storage.
// Every accepted image is re-encoded as JPEG at a fixed quality; oversized
// images are downscaled so the longest edge fits MaxEdge.
type Ingestor struct {
	storage     Storage
	maxFileSize int64
	maxEdge     int
	jpegQuality int
	keyPrefix   string
	logger      *zap.Logger
}

func NewIngestor(storage Storage, maxFileSize int64, maxEdge, jpegQuality int, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		storage:     storage,
		maxFileSize: maxFileSize,
		maxEdge:     maxEdge,
		jpegQuality: jpegQuality,
		keyPrefix:   "listings",
		logger:      logger.Named("MediaIngestor"),
	}
}

// Ingest validates, re-encodes and uploads one image buffer. A failure at
// any step aborts this file only; the caller decides what a partial batch
// means for the request.
func (i *Ingestor) Ingest(ctx context.Context, data []byte) (*Object, error) {
	if int64(len(data)) > i.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (ceiling %d)", ErrFileTooLarge, len(data), i.maxFileSize)
	}

	contentType := http.DetectContentType(data)
	if _, ok := allowedTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	img = i.downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: i.jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to re-encode image: %w", err)
	}

	key := fmt.Sprintf("%s/%s.jpg", i.keyPrefix, uuid.New().String())
	url, err := i.storage.Upload(ctx, key, buf.Bytes(), "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to upload media object %s: %w", key, err)
	}

	i.logger.Info("media object ingested",
		zap.String("key", key),
		zap.String("source_type", contentType),
		zap.Int("bytes_in", len(data)),
		zap.Int("bytes_out", buf.Len()))

	return &Object{URL: url, Key: key}, nil
}

// Remove deletes a stored object by its key. A missing remote object is
// tolerated: the error is logged and swallowed so logical deletes never
// fail on storage drift.
func (i *Ingestor) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := i.storage.Delete(ctx, key); err != nil {
		i.logger.Warn("failed to delete remote media object", zap.String("key", key), zap.Error(err))
	}
}

func (i *Ingestor) downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= i.maxEdge && h <= i.maxEdge {
		return img
	}

	scale := float64(i.maxEdge) / float64(w)
	if h > w {
		scale = float64(i.maxEdge) / float64(h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
