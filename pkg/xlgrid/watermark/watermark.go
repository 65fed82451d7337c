// Package watermark attaches a background picture to every worksheet of a
// serialized workbook by editing its archive parts directly.
package watermark

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"image/png"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/archive"
)

// ReservedID is the relationship id used for the watermark picture.
const ReservedID = "watermark"

// ImageRelType is the relationship type of an embedded image.
const ImageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

// Extension is the file extension of stored watermark media.
const Extension = "png"

const emptyRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// ErrInvalidImage indicates the watermark is not PNG data.
var ErrInvalidImage = errors.New("watermark must be a PNG image")

// ErrUnknownSheet indicates a sheet selected with ForSheets does not exist.
var ErrUnknownSheet = errors.New("unknown sheet")

var (
	sheetPartRe   = regexp.MustCompile(`^xl/worksheets/(sheet[^/]*)$`)
	pictureRe     = regexp.MustCompile(`(?i)(<picture\W[^>]+>)?(\s*</worksheet>)`)
	pictureIDRe   = regexp.MustCompile(`r:id="(\w+)"`)
	relsCloseRe   = regexp.MustCompile(`(?i)</Relationships>`)
	typesOpenRe   = regexp.MustCompile(`(?i)<Types\s+[^>]*>`)
	relTargetAttr = regexp.MustCompile(`Target="([^"]+)"`)
)

// Option configures Apply and Remove.
type Option func(*config)

type config struct {
	sheets            []string
	ignoreNonWorkbook bool
	now               func() time.Time
}

// ForSheets restricts patching to the named sheets.
func ForSheets(names ...string) Option {
	return func(c *config) {
		c.sheets = append(c.sheets, names...)
	}
}

// IgnoreNonWorkbook returns inputs that are not workbooks unchanged instead
// of failing.
func IgnoreNonWorkbook() Option {
	return func(c *config) {
		c.ignoreNonWorkbook = true
	}
}

// WithClock sets the clock used to generate fresh relationship ids.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

func newConfig(opts []Option) *config {
	c := &config{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateImage checks that image is decodable PNG data.
func ValidateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if _, err := png.DecodeConfig(bytes.NewReader(image)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return nil
}

// MediaName returns the content-addressed file name for image.
func MediaName(image []byte) string {
	sum := md5.Sum(image)
	return hex.EncodeToString(sum[:]) + "." + Extension
}

// patch holds the state shared by one Apply or Remove call.
type patch struct {
	archive *archive.Archive
	removed []string
}

// Apply attaches image as the background picture of each selected sheet.
// Parts that are not affected stay byte-identical.
func Apply(doc, image []byte, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	if err := ValidateImage(image); err != nil {
		return nil, err
	}
	a, pass, err := open(doc, cfg)
	if err != nil || pass {
		return doc, err
	}
	targets, err := selectSheets(a, cfg)
	if err != nil {
		return nil, err
	}

	p := &patch{archive: a}
	name := MediaName(image)
	mediaPath := path.Join("xl/media", name)
	for _, part := range targets {
		if err := p.attach(part, name, cfg); err != nil {
			return nil, err
		}
	}
	if err := p.registerExtension(); err != nil {
		return nil, err
	}
	if err := a.Set(mediaPath, image); err != nil {
		return nil, err
	}
	p.dropOrphans()
	return a.Bytes()
}

// Remove strips the background picture from each selected sheet and deletes
// relationships and media that are no longer referenced.
func Remove(doc []byte, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	a, pass, err := open(doc, cfg)
	if err != nil || pass {
		return doc, err
	}
	targets, err := selectSheets(a, cfg)
	if err != nil {
		return nil, err
	}

	p := &patch{archive: a}
	for _, part := range targets {
		if err := p.detach(part); err != nil {
			return nil, err
		}
	}
	p.dropOrphans()
	return a.Bytes()
}

func open(doc []byte, cfg *config) (*archive.Archive, bool, error) {
	if cfg.ignoreNonWorkbook && !archive.IsZip(doc) {
		return nil, true, nil
	}
	a, err := archive.Open(doc)
	if err != nil {
		return nil, false, fmt.Errorf("open workbook: %w", err)
	}
	if cfg.ignoreNonWorkbook && !a.Has(workbookPart) {
		return nil, true, nil
	}
	return a, false, nil
}

// selectSheets returns worksheet part paths in archive order.
func selectSheets(a *archive.Archive, cfg *config) ([]string, error) {
	var want map[string]bool
	if len(cfg.sheets) > 0 {
		parts := sheetParts(a)
		want = make(map[string]bool, len(cfg.sheets))
		for _, name := range cfg.sheets {
			p, ok := parts[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownSheet, name)
			}
			want[p] = true
		}
	}

	var result []string
	for _, name := range a.Names() {
		if !sheetPartRe.MatchString(name) {
			continue
		}
		if want != nil && !want[name] {
			continue
		}
		result = append(result, name)
	}
	return result, nil
}

// replacePicture rewrites the element preceding the closing worksheet tag.
// It returns the new markup and the relationship id of the picture it replaced.
func replacePicture(content, replacement string) (string, string, bool) {
	loc := pictureRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, "", false
	}
	old := ""
	if loc[2] >= 0 {
		if m := pictureIDRe.FindStringSubmatch(content[loc[2]:loc[3]]); m != nil {
			old = m[1]
		}
	}
	out := content[:loc[0]] + replacement + content[loc[4]:loc[5]] + content[loc[1]:]
	return out, old, true
}

func (p *patch) attach(part, mediaName string, cfg *config) error {
	content, err := p.archive.Text(part)
	if err != nil {
		return err
	}
	_, old, ok := replacePicture(content, "")
	if !ok {
		return nil
	}
	id := ReservedID
	if old == id {
		id = "WM" + strconv.FormatInt(cfg.now().UnixMilli(), 10)
	}
	content, _, _ = replacePicture(content, `<picture r:id="`+id+`"/>`)
	if old != "" && strings.Contains(content, `r:id="`+old+`"`) {
		old = ""
	}
	if err := p.archive.SetText(part, content); err != nil {
		return err
	}

	rp := relsPath(part)
	rels := emptyRels
	if p.archive.Has(rp) {
		if rels, err = p.archive.Text(rp); err != nil {
			return err
		}
	}
	if old != "" {
		rels = p.dropRelationship(rels, part, old)
	}
	// A stale entry with the new id would duplicate it.
	rels = p.dropRelationship(rels, part, id)
	entry := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="../media/%s"/>`, id, ImageRelType, mediaName)
	if loc := relsCloseRe.FindStringIndex(rels); loc != nil {
		rels = rels[:loc[0]] + entry + rels[loc[0]:]
	} else {
		rels = emptyRels[:len(emptyRels)-len("</Relationships>")] + entry + "</Relationships>"
	}
	return p.archive.SetText(rp, rels)
}

func (p *patch) detach(part string) error {
	content, err := p.archive.Text(part)
	if err != nil {
		return err
	}
	content, old, ok := replacePicture(content, "")
	if !ok {
		return nil
	}
	if old != "" && strings.Contains(content, `r:id="`+old+`"`) {
		old = ""
	}
	if err := p.archive.SetText(part, content); err != nil {
		return err
	}
	rp := relsPath(part)
	if old == "" || !p.archive.Has(rp) {
		return nil
	}
	rels, err := p.archive.Text(rp)
	if err != nil {
		return err
	}
	return p.archive.SetText(rp, p.dropRelationship(rels, part, old))
}

// dropRelationship removes entries with the given id and schedules their
// targets for deletion.
func (p *patch) dropRelationship(rels, part, id string) string {
	re := regexp.MustCompile(`(?i)\s*<Relationship\s+Id="` + regexp.QuoteMeta(id) + `"[^>]*>`)
	return re.ReplaceAllStringFunc(rels, func(m string) string {
		if t := relTargetAttr.FindStringSubmatch(m); t != nil {
			p.removed = append(p.removed, resolveTarget(path.Dir(part), t[1]))
		}
		return ""
	})
}

func (p *patch) registerExtension() error {
	types, err := p.archive.Get(contentTypesPart)
	if err != nil {
		return err
	}
	if hasDefaultExtension(types, Extension) {
		return nil
	}
	s := string(types)
	loc := typesOpenRe.FindStringIndex(s)
	if loc == nil {
		return fmt.Errorf("%s: missing Types element", contentTypesPart)
	}
	s = s[:loc[1]] + `<Default Extension="png" ContentType="image/png"/>` + s[loc[1]:]
	return p.archive.SetText(contentTypesPart, s)
}

// dropOrphans deletes scheduled media that no sidecar references any more.
func (p *patch) dropOrphans() {
	if len(p.removed) == 0 {
		return
	}
	refs := referencedTargets(p.archive)
	sort.Strings(p.removed)
	for _, name := range p.removed {
		if refs[name] {
			continue
		}
		p.archive.Remove(name)
	}
}
