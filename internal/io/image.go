package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

const jpegQuality = 90

// ImageService prepares album cover art for saving and tag embedding.
//
// Example usage:
//
//	svc := NewImageService()
//	cover, _ := svc.Prepare(ctx, imageData, 1000, true)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Prepare applies the configured cover art transformations.
//
// When maxSize is positive the image is scaled down to fit within
// maxSize x maxSize, which also re-encodes it as JPEG. Otherwise, when toJPEG
// is set, the image is only re-encoded. With neither, data is returned as is.
func (s *ImageService) Prepare(ctx context.Context, data []byte, maxSize int, toJPEG bool) ([]byte, error) {
	switch {
	case maxSize > 0:
		return s.ResizeImage(ctx, data, maxSize, maxSize)
	case toJPEG:
		return s.ConvertToJPEG(ctx, data)
	default:
		return data, nil
	}
}

// ResizeImage scales an image down to fit within maxWidth x maxHeight.
//
// The aspect ratio is preserved and images that already fit keep their size.
// The result is always JPEG-encoded. Scaling uses Catmull-Rom.
//
// Example:
//
//	// A 1500x1000 image becomes 1000x667
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodeJPEG(dst)
}

// ConvertToJPEG re-encodes an image (JPEG, PNG, GIF) as JPEG.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

// fitWithin returns the largest size with the same aspect ratio as width x
// height that fits in maxWidth x maxHeight, never scaling up.
func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// height is the limiting side
		return max(1, int(float64(maxHeight)*ratio)), maxHeight
	}
	return maxWidth, max(1, int(float64(maxWidth)/ratio))
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
