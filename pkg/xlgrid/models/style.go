package models

// Alignment describes horizontal and vertical cell alignment.
type Alignment struct {
	Horizontal string `json:"horizontal,omitempty" yaml:"horizontal"`
	Vertical   string `json:"vertical,omitempty" yaml:"vertical"`
	WrapText   bool   `json:"wrap_text,omitempty" yaml:"wrap_text"`
}

// Font is a font override. Zero fields mean "inherit".
type Font struct {
	Name      string  `json:"name,omitempty" yaml:"name"`
	Size      float64 `json:"size,omitempty" yaml:"size"`
	Bold      bool    `json:"bold,omitempty" yaml:"bold"`
	Italic    bool    `json:"italic,omitempty" yaml:"italic"`
	Underline bool    `json:"underline,omitempty" yaml:"underline"`
	Color     string  `json:"color,omitempty" yaml:"color"`
}

// Merge overlays the non-zero fields of o onto f.
func (f Font) Merge(o Font) Font {
	if o.Name != "" {
		f.Name = o.Name
	}
	if o.Size != 0 {
		f.Size = o.Size
	}
	f.Bold = f.Bold || o.Bold
	f.Italic = f.Italic || o.Italic
	f.Underline = f.Underline || o.Underline
	if o.Color != "" {
		f.Color = o.Color
	}
	return f
}

// Side is the border style and color of one cell edge.
type Side struct {
	Style string `json:"style,omitempty"`
	Color string `json:"color,omitempty"`
}

// IsZero reports whether the side carries no border.
func (s Side) IsZero() bool { return s.Style == "" }

// Border holds the four cell edges.
type Border struct {
	Top    Side `json:"top,omitempty"`
	Bottom Side `json:"bottom,omitempty"`
	Left   Side `json:"left,omitempty"`
	Right  Side `json:"right,omitempty"`
}

// Uniform returns a Border with all four sides set to s.
func Uniform(s Side) Border {
	return Border{Top: s, Bottom: s, Left: s, Right: s}
}

// Count returns the number of sides that are set.
func (b Border) Count() int {
	n := 0
	for _, s := range []Side{b.Top, b.Bottom, b.Left, b.Right} {
		if !s.IsZero() {
			n++
		}
	}
	return n
}

// Style is the complete visual description of a cell. It is comparable so the
// codec can use it as a cache key.
type Style struct {
	Alignment Alignment `json:"alignment"`
	Font      Font      `json:"font"`
	Fill      string    `json:"fill,omitempty"`
	Border    Border    `json:"border"`
}
