package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var (
	ErrImageTooLarge = errors.New("image exceeds the maximum upload size")
	ErrInvalidImage  = errors.New("not a supported image")
)

// ImageProcessor normalises uploaded cover images: it rejects oversized or
// undecodable files, shrinks anything wider or taller than MaxDimension and
// re-encodes the result as JPEG.
type ImageProcessor struct {
	MaxSize      int64 // bytes
	MaxDimension int   // pixels
	Quality      int
}

func NewImageProcessor(maxSize int64, maxDimension int) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	if maxDimension <= 0 {
		maxDimension = 1200
	}
	return &ImageProcessor{MaxSize: maxSize, MaxDimension: maxDimension, Quality: 90}
}

// ValidateImage accepts JPEG, PNG and GIF within the size limit.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("%w: %d bytes > %d", ErrImageTooLarge, len(data), p.MaxSize)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	switch format {
	case "jpeg", "png", "gif":
		return nil
	default:
		return fmt.Errorf("%w: format %s", ErrInvalidImage, format)
	}
}

// Process validates data and returns the JPEG encoded cover.
func (p *ImageProcessor) Process(data []byte) ([]byte, error) {
	if err := p.ValidateImage(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	b := img.Bounds()
	if b.Dx() > p.MaxDimension || b.Dy() > p.MaxDimension {
		img = imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
	}

	out := new(bytes.Buffer)
	if err := imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return nil, fmt.Errorf("cannot encode cover: %w", err)
	}
	return out.Bytes(), nil
}
