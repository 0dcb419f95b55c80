package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcess_ShrinksAndEncodesJPEG(t *testing.T) {
	p := NewImageProcessor(0, 100)

	out, err := p.Process(pngBytes(t, 400, 200))
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestProcess_KeepsSmallImages(t *testing.T) {
	p := NewImageProcessor(0, 100)

	out, err := p.Process(pngBytes(t, 40, 30))
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestProcess_Rejects(t *testing.T) {
	p := NewImageProcessor(0, 0)

	_, err := p.Process([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	small := NewImageProcessor(10, 0)
	_, err = small.Process(pngBytes(t, 10, 10))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
