package xlgrid

import "github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"

// CellOptions are per-write overrides. Nil and zero fields inherit.
type CellOptions struct {
	// Alignment replaces the default alignment field by field.
	Alignment *models.Alignment `yaml:"alignment"`
	// Font is merged onto the cell font.
	Font *models.Font `yaml:"font"`
	// Width is a column width request in the workbook's unit. A pointer to
	// zero asks for a width estimated from the content length.
	Width *float64 `yaml:"width"`
	// BgColor is the cell fill color.
	BgColor string `yaml:"bg_color"`
	// FgColor is the cell font color.
	FgColor string `yaml:"fg_color"`
	// Format is a display format applied when the writer did not set one.
	Format string `yaml:"format"`
	// Type forces the cell type tag.
	Type models.CellType `yaml:"type"`
	// NewLine controls whether Titles starts a new row. Defaults to true.
	NewLine *bool `yaml:"new_line"`
}

// WithWidth returns options requesting a column width.
func WithWidth(w float64) *CellOptions {
	return &CellOptions{Width: &w}
}

// WithFont returns options carrying a font override.
func WithFont(f models.Font) *CellOptions {
	return &CellOptions{Font: &f}
}

// Bold returns options making text bold.
func Bold() *CellOptions {
	return WithFont(models.Font{Bold: true})
}

// SameLine returns options that keep Titles on the current row.
func SameLine() *CellOptions {
	f := false
	return &CellOptions{NewLine: &f}
}

// Merge layers over onto o and returns a new value. Either may be nil.
func (o *CellOptions) Merge(over *CellOptions) *CellOptions {
	out := &CellOptions{}
	for _, src := range []*CellOptions{o, over} {
		if src == nil {
			continue
		}
		if src.Alignment != nil {
			a := mergeAlignment(out.Alignment, *src.Alignment)
			out.Alignment = &a
		}
		if src.Font != nil {
			f := *src.Font
			if out.Font != nil {
				f = out.Font.Merge(f)
			}
			out.Font = &f
		}
		if src.Width != nil {
			w := *src.Width
			out.Width = &w
		}
		if src.BgColor != "" {
			out.BgColor = src.BgColor
		}
		if src.FgColor != "" {
			out.FgColor = src.FgColor
		}
		if src.Format != "" {
			out.Format = src.Format
		}
		if src.Type != "" {
			out.Type = src.Type
		}
		if src.NewLine != nil {
			nl := *src.NewLine
			out.NewLine = &nl
		}
	}
	return out
}

func mergeAlignment(base *models.Alignment, o models.Alignment) models.Alignment {
	if base == nil {
		return o
	}
	out := *base
	if o.Horizontal != "" {
		out.Horizontal = o.Horizontal
	}
	if o.Vertical != "" {
		out.Vertical = o.Vertical
	}
	out.WrapText = out.WrapText || o.WrapText
	return out
}

func (o *CellOptions) newLine() bool {
	return o == nil || o.NewLine == nil || *o.NewLine
}

// Edge configures one pass of a distinguished border. A nil *Edge inside
// BorderOptions draws with the call's color and style.
type Edge struct {
	// Disabled skips the pass.
	Disabled bool `yaml:"disabled"`
	// Color overrides the call's color.
	Color string `yaml:"color"`
	// Style overrides the call's style.
	Style string `yaml:"style"`
}

// BorderOptions selects distinguished outer/inner borders. When both fields
// are nil (or the options themselves are nil) every cell gets a uniform box.
type BorderOptions struct {
	Outer *Edge `yaml:"outer"`
	Inner *Edge `yaml:"inner"`
}

// OuterInner returns options drawing both passes with the call's color and style.
func OuterInner() *BorderOptions {
	return &BorderOptions{Outer: &Edge{}, Inner: &Edge{}}
}

// OuterOnly returns options drawing only the perimeter.
func OuterOnly() *BorderOptions {
	return &BorderOptions{Outer: &Edge{}, Inner: &Edge{Disabled: true}}
}

// InnerOnly returns options drawing only the interior grid.
func InnerOnly() *BorderOptions {
	return &BorderOptions{Outer: &Edge{Disabled: true}, Inner: &Edge{}}
}

func (o *BorderOptions) distinguished() bool {
	return o != nil && (o.Outer != nil || o.Inner != nil)
}

func (e *Edge) enabled() bool {
	return e == nil || !e.Disabled
}

func (e *Edge) side(color, style string) models.Side {
	if e != nil {
		if e.Color != "" {
			color = e.Color
		}
		if e.Style != "" {
			style = e.Style
		}
	}
	return newSide(color, style)
}
