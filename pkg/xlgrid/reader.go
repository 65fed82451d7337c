package xlgrid

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/codec"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/temporal"
)

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	// Formatted returns display text instead of raw values when available.
	Formatted bool `yaml:"formatted"`
	// Tags reinterprets fields as dates, keyed by field name.
	Tags map[string]temporal.Tag `yaml:"tags"`
	// ColumnTags reinterprets columns of Row results, keyed by column index.
	ColumnTags map[int]temporal.Tag `yaml:"column_tags"`
	// Location is used for local-tagged dates. Defaults to time.Local.
	Location *time.Location `yaml:"-"`
}

// Field names the record key a header title maps to, with an optional
// temporal tag.
type Field struct {
	Name string
	Tag  temporal.Tag
}

// As maps a title to a plain field.
func As(name string) Field { return Field{Name: name} }

// AsTime maps a title to a field reinterpreted under tag.
func AsTime(name string, tag temporal.Tag) Field { return Field{Name: name, Tag: tag} }

// Titles maps header titles to fields.
type Titles map[string]Field

// Disambiguator maps the occurrence-th appearance (1-based) of a title to a
// name. Returning "" or the previous name stops the search.
type Disambiguator func(title string, occurrence int) string

// Record is one data row keyed by field name.
type Record map[string]any

// Reader walks a decoded document sheet by sheet.
type Reader struct {
	opts  ReaderOptions
	codec temporal.Codec
	doc   *models.WorkbookData

	sheet    *models.SheetData
	row, col int
	rows     int
	cols     int

	fields  map[int]string
	order   []int
	titles  map[string]bool
	tags    map[string]temporal.Tag
	dataRow int

	tailorField string
	deny        map[string]bool
}

// NewReader creates a Reader.
func NewReader(opts ReaderOptions) *Reader {
	return &Reader{opts: opts, codec: temporal.New(opts.Location)}
}

// Read loads a document from raw bytes.
func (r *Reader) Read(b []byte) error {
	doc, err := codec.DecodeBytes(b)
	if err != nil {
		return err
	}
	r.load(doc)
	return nil
}

// ReadFrom loads a document from an io.Reader.
func (r *Reader) ReadFrom(rd io.Reader) error {
	doc, err := codec.Decode(rd)
	if err != nil {
		return err
	}
	r.load(doc)
	return nil
}

// ReadFile loads a document from path.
func (r *Reader) ReadFile(path string) error {
	doc, err := codec.DecodeFile(path)
	if err != nil {
		return err
	}
	r.load(doc)
	return nil
}

func (r *Reader) load(doc *models.WorkbookData) {
	r.doc = doc
	r.sheet = nil
	r.clearHeader()
}

// Document returns the loaded document model.
func (r *Reader) Document() *models.WorkbookData { return r.doc }

// SheetNames lists the sheets of the loaded document.
func (r *Reader) SheetNames() []string {
	if r.doc == nil {
		return nil
	}
	return append([]string(nil), r.doc.SheetNames...)
}

// Sheet selects a sheet by name and positions the cursor at its range start.
func (r *Reader) Sheet(name string) error {
	if r.doc == nil {
		return ErrNoSheet
	}
	sd := r.doc.Sheet(name)
	if sd == nil {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	r.sheet = sd
	r.row, r.col = sd.Range.R1, sd.Range.C1
	r.rows, r.cols = sd.Range.R2, sd.Range.C2
	if len(sd.Cells) == 0 {
		r.rows = r.row - 1
	}
	r.clearHeader()
	return nil
}

// SheetAt selects a sheet by position.
func (r *Reader) SheetAt(i int) error {
	if r.doc == nil || i < 0 || i >= len(r.doc.SheetNames) {
		return fmt.Errorf("%w: index %d", ErrSheetNotFound, i)
	}
	return r.Sheet(r.doc.SheetNames[i])
}

// SheetName returns the selected sheet name.
func (r *Reader) SheetName() string {
	if r.sheet == nil {
		return ""
	}
	return r.sheet.Name
}

func (r *Reader) clearHeader() {
	r.fields, r.order, r.titles, r.tags = nil, nil, nil, nil
	r.tailorField, r.deny = "", nil
	r.dataRow = r.row
}

// Row returns the values of the cursor row across the sheet range and
// advances. Missing cells are nil.
func (r *Reader) Row() ([]any, bool) {
	if r.sheet == nil || r.row > r.rows {
		return nil, false
	}
	out := make([]any, 0, r.cols-r.col+1)
	for c := r.col; c <= r.cols; c++ {
		out = append(out, r.value(r.row, c, r.opts.ColumnTags[c-r.col]))
	}
	r.row++
	return out, true
}

// Rows returns every remaining row.
func (r *Reader) Rows() [][]any {
	var out [][]any
	for {
		row, ok := r.Row()
		if !ok {
			return out
		}
		out = append(out, row)
	}
}

// Header scans rows from the cursor for one containing every required
// title. Optional titles are mapped when present. On success the cursor is
// on the first data row; otherwise a HeaderResolutionError lists the titles
// missing from the closest candidate row.
func (r *Reader) Header(required, optional Titles, d Disambiguator) error {
	if r.sheet == nil {
		return ErrNoSheet
	}
	var best []string
	for ; r.row <= r.rows; r.row++ {
		pending := copyTitles(required)
		opt := copyTitles(optional)
		fields := make(map[int]string)
		claimed := make(map[string]bool)
		tags := make(map[string]temporal.Tag)

		for c := r.col; c <= r.cols; c++ {
			cell := r.sheet.Cell(r.row, c)
			if cell == nil {
				continue
			}
			title := textOf(cell.Value)
			if title == "" {
				continue
			}
			name := resolveTitle(title, d, claimed)
			if name == "" {
				continue
			}
			f, ok := pending[name]
			if ok {
				delete(pending, name)
			} else if f, ok = opt[name]; ok {
				delete(opt, name)
			} else {
				continue
			}
			claimed[name] = true
			fields[c] = f.Name
			if f.Tag != temporal.None {
				tags[f.Name] = f.Tag
			}
		}

		if len(pending) == 0 {
			r.setHeader(fields, claimed, tags)
			r.row++
			r.dataRow = r.row
			return nil
		}
		if best == nil || len(pending) < len(best) {
			best = sortedKeys(pending)
		}
	}
	if best == nil {
		best = sortedKeys(required)
	}
	return NewHeaderResolutionError(r.SheetName(), best)
}

// resolveTitle maps a cell title through the disambiguator. Later
// occurrences are tried while the mapped name is already claimed.
func resolveTitle(title string, d Disambiguator, claimed map[string]bool) string {
	if d == nil {
		return title
	}
	name := d(title, 1)
	if name == "" {
		return title
	}
	if name == title {
		return name
	}
	for occ := 2; claimed[name]; occ++ {
		next := d(title, occ)
		if next == "" || next == name {
			return ""
		}
		name = next
	}
	return name
}

func (r *Reader) setHeader(fields map[int]string, claimed map[string]bool, tags map[string]temporal.Tag) {
	r.fields = fields
	r.order = r.order[:0]
	for c := range fields {
		r.order = append(r.order, c)
	}
	sort.Ints(r.order)
	r.titles = claimed
	r.tags = make(map[string]temporal.Tag, len(r.opts.Tags)+len(tags))
	for k, v := range r.opts.Tags {
		r.tags[k] = v
	}
	for k, v := range tags {
		r.tags[k] = v
	}
}

// Has reports whether title was resolved by the last Header call.
func (r *Reader) Has(title string) bool {
	return r.titles[title]
}

// Tailor excludes records whose field has one of the deny values. An empty
// field selects the first resolved column.
func (r *Reader) Tailor(field string, deny ...string) *Reader {
	r.tailorField = field
	r.deny = make(map[string]bool, len(deny))
	for _, v := range deny {
		r.deny[v] = true
	}
	return r
}

// Reset returns the cursor to the first data row.
func (r *Reader) Reset() *Reader {
	r.row = r.dataRow
	return r
}

func (r *Reader) tailored(row int) bool {
	if len(r.deny) == 0 || len(r.order) == 0 {
		return false
	}
	col := r.order[0]
	if r.tailorField != "" {
		col = -1
		for _, c := range r.order {
			if r.fields[c] == r.tailorField {
				col = c
				break
			}
		}
		if col < 0 {
			return false
		}
	}
	c := r.sheet.Cell(row, col)
	if c == nil {
		return r.deny[""]
	}
	return r.deny[textOf(c.Value)]
}

// HasNext reports whether a record remains, skipping tailored rows.
func (r *Reader) HasNext() bool {
	if r.sheet == nil || r.fields == nil {
		return false
	}
	for r.row <= r.rows && r.tailored(r.row) {
		r.row++
	}
	return r.row <= r.rows
}

// Next returns the next record and advances.
func (r *Reader) Next() (Record, bool) {
	if !r.HasNext() {
		return nil, false
	}
	rec := make(Record, len(r.fields))
	for _, c := range r.order {
		name := r.fields[c]
		rec[name] = r.value(r.row, c, r.tags[name])
	}
	r.row++
	return rec, true
}

// ReadRecord is Next.
func (r *Reader) ReadRecord() (Record, bool) { return r.Next() }

// Records returns every remaining record.
func (r *Reader) Records() []Record {
	var out []Record
	for {
		rec, ok := r.Next()
		if !ok {
			return out
		}
		out = append(out, rec)
	}
}

// Map applies fn to every remaining record, keeping results fn accepts.
func Map[T any](r *Reader, fn func(Record) (T, bool)) []T {
	var out []T
	for {
		rec, ok := r.Next()
		if !ok {
			return out
		}
		if v, keep := fn(rec); keep {
			out = append(out, v)
		}
	}
}

func (r *Reader) value(row, col int, tag temporal.Tag) any {
	c := r.sheet.Cell(row, col)
	if c == nil {
		return nil
	}
	var v any = c.Value
	if r.opts.Formatted && c.Text != "" && tag == temporal.None {
		v = c.Text
	}
	return r.codec.Decode(v, tag)
}

func copyTitles(t Titles) Titles {
	out := make(Titles, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func sortedKeys(t Titles) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
