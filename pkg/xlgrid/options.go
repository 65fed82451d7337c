// Package xlgrid builds spreadsheet documents through a cursor-addressed grid
// and reads them back through header-mapped records.
package xlgrid

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/temporal"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/units"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/watermark"
)

// DefaultAlignment is applied to written cells without an explicit alignment.
var DefaultAlignment = models.Alignment{Horizontal: "left", Vertical: "center"}

// AutoBorder draws a uniform border over everything written when a sheet is
// finalized.
type AutoBorder struct {
	// Color is the border color (default #000000).
	Color string `yaml:"color"`
	// Style is the border style name (default thin).
	Style string `yaml:"style"`
}

// Options configures a Workbook.
type Options struct {
	// Alignment is the default cell alignment. If nil, DefaultAlignment is used.
	Alignment *models.Alignment `yaml:"alignment"`
	// WidthUnit selects how widths are interpreted (char or pixel). Defaults to char.
	WidthUnit units.Unit `yaml:"width_unit"`
	// FontSize is the default font size used for width conversion.
	FontSize float64 `yaml:"font_size"`
	// Width is a default column width applied to every write.
	Width float64 `yaml:"width"`
	// MinWidth clamps computed column widths upward.
	MinWidth float64 `yaml:"min_width"`
	// NaN is written in place of nil numeric values.
	NaN string `yaml:"nan"`
	// Undefined is written in place of nil values.
	Undefined string `yaml:"undefined"`
	// TitleOpts are layered under call options by title writers and on TitleLine.
	TitleOpts *CellOptions `yaml:"title"`
	// CellOpts are layered under call options for every other write.
	CellOpts *CellOptions `yaml:"cell"`
	// TitleLine is the row that receives TitleOpts automatically.
	TitleLine *int `yaml:"title_line"`
	// AutoBorder borders every sheet's written extent on finalize.
	AutoBorder *AutoBorder `yaml:"auto_border"`
	// ShowGridLines controls default grid lines. If nil, grid lines are shown.
	ShowGridLines *bool `yaml:"show_grid_lines"`
	// Watermark is PNG data attached to every sheet.
	Watermark []byte `yaml:"-"`
	// WatermarkPath is a PNG file attached to every sheet.
	WatermarkPath string `yaml:"watermark"`
	// Timezone names the location used for local-tagged dates.
	Timezone string `yaml:"timezone"`
	// Location overrides Timezone.
	Location *time.Location `yaml:"-"`
}

// DefaultOptions returns default workbook options.
func DefaultOptions() Options {
	return Options{
		WidthUnit: units.Char,
		FontSize:  units.DefaultFontSize,
	}
}

// LoadOptions reads Options from YAML. Unknown keys are rejected.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, NewConfigurationError("options", err)
	}
	return opts, opts.Validate()
}

// LoadOptionsFile reads Options from a YAML file.
func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()
	return LoadOptions(f)
}

// Validate checks option values.
func (o Options) Validate() error {
	switch o.WidthUnit {
	case "", units.Char, units.Pixel:
	default:
		return NewConfigurationError("width_unit", fmt.Errorf("unknown unit %q", o.WidthUnit))
	}
	if o.Location == nil && o.Timezone != "" {
		if _, err := time.LoadLocation(o.Timezone); err != nil {
			return NewConfigurationError("timezone", err)
		}
	}
	if len(o.Watermark) > 0 {
		if err := watermark.ValidateImage(o.Watermark); err != nil {
			return NewConfigurationError("watermark", err)
		}
	}
	if o.WatermarkPath != "" && !strings.HasSuffix(strings.ToLower(o.WatermarkPath), ".png") {
		return NewConfigurationError("watermark", watermark.ErrInvalidImage)
	}
	return nil
}

// Unit returns the width unit, defaulting to char.
func (o Options) Unit() units.Unit {
	if o.WidthUnit == "" {
		return units.Char
	}
	return o.WidthUnit
}

// DefaultFontSize returns the font size used when a cell has none.
func (o Options) DefaultFontSize() float64 {
	if o.FontSize > 0 {
		return o.FontSize
	}
	return units.DefaultFontSize
}

// CellAlignment returns the configured default alignment.
func (o Options) CellAlignment() models.Alignment {
	if o.Alignment != nil {
		return *o.Alignment
	}
	return DefaultAlignment
}

// ShouldShowGridLines returns whether default grid lines are shown.
func (o Options) ShouldShowGridLines() bool {
	if o.ShowGridLines != nil {
		return *o.ShowGridLines
	}
	return true
}

// Codec returns the temporal codec for the configured location.
func (o Options) Codec() temporal.Codec {
	if o.Location != nil {
		return temporal.New(o.Location)
	}
	if o.Timezone != "" {
		if loc, err := time.LoadLocation(o.Timezone); err == nil {
			return temporal.New(loc)
		}
	}
	return temporal.New(time.Local)
}
