package xlgrid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/units"
)

func TestLoadOptions(t *testing.T) {
	src := `
width_unit: pixel
min_width: 40
nan: "-"
title_line: 0
title:
  font:
    bold: true
  width: 12
cell:
  alignment:
    horizontal: right
auto_border:
  style: medium
show_grid_lines: false
timezone: UTC
`
	opts, err := LoadOptions(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, units.Pixel, opts.Unit())
	assert.Equal(t, 40.0, opts.MinWidth)
	assert.Equal(t, "-", opts.NaN)
	require.NotNil(t, opts.TitleLine)
	assert.Equal(t, 0, *opts.TitleLine)
	require.NotNil(t, opts.TitleOpts)
	assert.True(t, opts.TitleOpts.Font.Bold)
	assert.Equal(t, 12.0, *opts.TitleOpts.Width)
	assert.Equal(t, "right", opts.CellOpts.Alignment.Horizontal)
	assert.Equal(t, "medium", opts.AutoBorder.Style)
	assert.False(t, opts.ShouldShowGridLines())
	assert.Equal(t, float64(units.DefaultFontSize), opts.DefaultFontSize())
}

func TestLoadOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "colour: red\n"},
		{"bad unit", "width_unit: inch\n"},
		{"bad timezone", "timezone: Mars/Olympus\n"},
		{"bad watermark", "watermark: mark.gif\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOptions(strings.NewReader(tt.src))
			var ce *ConfigurationError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestLoadOptionsEmpty(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
	assert.True(t, opts.ShouldShowGridLines())
	assert.Equal(t, DefaultAlignment, opts.CellAlignment())
}

func TestCellOptionsMerge(t *testing.T) {
	base := &CellOptions{
		Alignment: &models.Alignment{Horizontal: "left", Vertical: "top"},
		Font:      &models.Font{Name: "Arial", Bold: true},
		Format:    "0.00",
	}
	over := &CellOptions{
		Alignment: &models.Alignment{Horizontal: "right"},
		Font:      &models.Font{Size: 14},
		BgColor:   "#EEEEEE",
	}
	got := base.Merge(over)
	assert.Equal(t, models.Alignment{Horizontal: "right", Vertical: "top"}, *got.Alignment)
	assert.Equal(t, models.Font{Name: "Arial", Size: 14, Bold: true}, *got.Font)
	assert.Equal(t, "0.00", got.Format)
	assert.Equal(t, "#EEEEEE", got.BgColor)

	assert.Equal(t, "left", base.Alignment.Horizontal, "base must not change")

	var nilOpts *CellOptions
	assert.Equal(t, &CellOptions{}, nilOpts.Merge(nil))
	assert.True(t, nilOpts.newLine())
	assert.False(t, SameLine().newLine())
}
