package labels

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCode128(t *testing.T) {
	data, err := RenderCode128("LB00000001", Code128Options{})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func TestRenderCode128CustomSize(t *testing.T) {
	data, err := RenderCode128("EXT-9001", Code128Options{Width: 600, Height: 200})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestRenderQR(t *testing.T) {
	data, err := RenderQR("TRF: TRF-042\nExpiry: 2026-12-31")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}
