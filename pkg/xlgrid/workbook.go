package xlgrid

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"os"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/codec"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/temporal"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/watermark"
)

// Workbook is an ordered set of named sheets.
type Workbook struct {
	opts      Options
	codec     temporal.Codec
	names     []string
	sheets    map[string]*Sheet
	current   *Sheet
	watermark []byte
}

// New creates an empty workbook.
func New(opts Options) (*Workbook, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	wb := &Workbook{
		opts:   opts,
		codec:  opts.Codec(),
		sheets: make(map[string]*Sheet),
	}
	switch {
	case len(opts.Watermark) > 0:
		wb.watermark = opts.Watermark
	case opts.WatermarkPath != "":
		if err := wb.WatermarkFile(opts.WatermarkPath); err != nil {
			return nil, err
		}
	default:
		wb.watermark = DefaultWatermark()
	}
	return wb, nil
}

// Options returns the workbook options.
func (wb *Workbook) Options() Options { return wb.opts }

// Sheet returns the named sheet, creating it if needed, and makes it
// current. The previously current sheet is finalized.
func (wb *Workbook) Sheet(name string) *Sheet {
	if wb.current != nil && wb.current.name != name {
		wb.current.End()
	}
	wb.current = wb.NewSheet(name)
	return wb.current
}

// NewSheet returns the named sheet, creating it if needed, without changing
// the current sheet.
func (wb *Workbook) NewSheet(name string) *Sheet {
	if s, ok := wb.sheets[name]; ok {
		return s
	}
	s := newSheet(wb, name)
	wb.sheets[name] = s
	wb.names = append(wb.names, name)
	return s
}

// Active returns the current sheet, or nil.
func (wb *Workbook) Active() *Sheet { return wb.current }

// Lookup returns an existing sheet.
func (wb *Workbook) Lookup(name string) (*Sheet, bool) {
	s, ok := wb.sheets[name]
	return s, ok
}

// SheetNames returns sheet names in creation order.
func (wb *Workbook) SheetNames() []string {
	return append([]string(nil), wb.names...)
}

// Rename renames sheet from to name. An empty from renames the current
// sheet.
func (wb *Workbook) Rename(name, from string) error {
	if from == "" {
		if wb.current == nil {
			return ErrNoSheet
		}
		from = wb.current.name
	}
	s, ok := wb.sheets[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, from)
	}
	if name == from {
		return nil
	}
	if name == "" {
		return NewConfigurationError("sheet name", fmt.Errorf("empty name"))
	}
	if _, ok := wb.sheets[name]; ok {
		return NewNameCollisionError(name)
	}
	delete(wb.sheets, from)
	wb.sheets[name] = s
	for i, n := range wb.names {
		if n == from {
			wb.names[i] = name
		}
	}
	s.name = name
	return nil
}

// Watermark attaches a PNG watermark to every sheet without its own.
func (wb *Workbook) Watermark(image []byte) error {
	if err := validateWatermark(image); err != nil {
		return err
	}
	wb.watermark = image
	return nil
}

// WatermarkFile reads a PNG watermark from path.
func (wb *Workbook) WatermarkFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return NewConfigurationError("watermark", err)
	}
	return wb.Watermark(b)
}

// WithoutWatermark removes the workbook watermark and every sheet override.
func (wb *Workbook) WithoutWatermark() *Workbook {
	wb.watermark = nil
	for _, s := range wb.sheets {
		s.watermark = nil
	}
	return wb
}

// WithoutGridLines hides grid lines on every sheet, including ones created
// later.
func (wb *Workbook) WithoutGridLines() *Workbook {
	f := false
	wb.opts.ShowGridLines = &f
	for _, s := range wb.sheets {
		s.hideGrid = true
	}
	return wb
}

// Finalize ends every sheet and clears the current sheet.
func (wb *Workbook) Finalize() *Workbook {
	for _, name := range wb.names {
		wb.sheets[name].End()
	}
	wb.current = nil
	return wb
}

// Model returns the document model of the workbook.
func (wb *Workbook) Model() *models.WorkbookData {
	out := &models.WorkbookData{
		SheetNames: wb.SheetNames(),
		Sheets:     make(map[string]*models.SheetData, len(wb.names)),
	}
	for _, name := range wb.names {
		out.Sheets[name] = wb.sheets[name].data()
	}
	return out
}

// Build finalizes the workbook and serializes it with watermarks applied.
func (wb *Workbook) Build(enc codec.Encoding) ([]byte, error) {
	wb.Finalize()
	doc, err := codec.Encode(wb.Model(), codec.Raw)
	if err != nil {
		return nil, err
	}
	if doc, err = wb.applyWatermarks(doc); err != nil {
		return nil, err
	}
	return codec.Convert(doc, enc)
}

// applyWatermarks groups sheets by image so each image is patched once.
func (wb *Workbook) applyWatermarks(doc []byte) ([]byte, error) {
	type group struct {
		image  []byte
		sheets []string
	}
	var order [][md5.Size]byte
	groups := make(map[[md5.Size]byte]*group)
	for _, name := range wb.names {
		img := wb.sheets[name].effectiveWatermark()
		if len(img) == 0 {
			continue
		}
		k := md5.Sum(img)
		g, ok := groups[k]
		if !ok {
			g = &group{image: img}
			groups[k] = g
			order = append(order, k)
		}
		g.sheets = append(g.sheets, name)
	}
	var err error
	for _, k := range order {
		g := groups[k]
		doc, err = watermark.Apply(doc, g.image, watermark.ForSheets(g.sheets...))
		if err != nil {
			return nil, fmt.Errorf("watermark: %w", err)
		}
	}
	return doc, nil
}

// WriteTo writes the raw document to w.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	b, err := wb.Build(codec.Raw)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(w, bytes.NewReader(b))
	return n, err
}

// Save writes the raw document to path.
func (wb *Workbook) Save(path string) error {
	b, err := wb.Build(codec.Raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// LoadFromBytes creates a workbook holding the sheets of an existing document.
// Each sheet's cursor is placed on its last row.
func LoadFromBytes(b []byte, opts Options) (*Workbook, error) {
	doc, err := codec.DecodeBytes(b)
	if err != nil {
		return nil, err
	}
	return fromModel(doc, opts)
}

// LoadFromFile is LoadFromBytes for a file.
func LoadFromFile(path string, opts Options) (*Workbook, error) {
	doc, err := codec.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return fromModel(doc, opts)
}

// LoadFromReader creates a workbook from the document held by a Reader.
func LoadFromReader(r *Reader, opts Options) (*Workbook, error) {
	if r.doc == nil {
		return nil, ErrNoSheet
	}
	return fromModel(r.doc, opts)
}

func fromModel(doc *models.WorkbookData, opts Options) (*Workbook, error) {
	wb, err := New(opts)
	if err != nil {
		return nil, err
	}
	for _, name := range doc.SheetNames {
		sd := doc.Sheets[name]
		s := wb.NewSheet(name)
		if sd == nil {
			continue
		}
		for k, c := range sd.Cells {
			cp := *c
			s.cells[k] = &cp
		}
		s.merges = append(s.merges, sd.Merges...)
		s.widths = append(s.widths, sd.ColWidths...)
		s.hideGrid = s.hideGrid || sd.HideGridLines
		s.rng = sd.Range
		if len(sd.Cells) > 0 {
			s.row, s.col = sd.Range.R2, -1
			s.maxCol = sd.Range.C2
		}
	}
	return wb, nil
}
