package xlgrid

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newWorkbook(t *testing.T, opts Options) *Workbook {
	t.Helper()
	wb, err := New(opts)
	require.NoError(t, err)
	return wb
}

func pixelOptions() Options {
	opts := DefaultOptions()
	opts.WidthUnit = "pixel"
	return opts
}
