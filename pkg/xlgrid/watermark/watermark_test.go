package watermark

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/archive"
)

func testPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testWorkbook(t *testing.T, sheets ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetCellValue(name, "A1", "value"))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func rawParts(t *testing.T, b []byte) map[string][]byte {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	out := make(map[string][]byte)
	for _, f := range r.File {
		rc, err := f.OpenRaw()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		out[f.Name] = data
	}
	return out
}

func partText(t *testing.T, doc []byte, name string) string {
	t.Helper()
	a, err := archive.Open(doc)
	require.NoError(t, err)
	s, err := a.Text(name)
	require.NoError(t, err)
	return s
}

func mediaParts(t *testing.T, doc []byte) []string {
	t.Helper()
	a, err := archive.Open(doc)
	require.NoError(t, err)
	var out []string
	for _, name := range a.Names() {
		if strings.HasPrefix(name, "xl/media/") {
			out = append(out, name)
		}
	}
	return out
}

func fixedClock(ms int64) Option {
	return WithClock(func() time.Time { return time.UnixMilli(ms) })
}

func TestApply(t *testing.T) {
	doc := testWorkbook(t, "Sheet1")
	img := testPNG(t, color.Black)

	out, err := Apply(doc, img)
	require.NoError(t, err)

	sheet := partText(t, out, "xl/worksheets/sheet1.xml")
	assert.Equal(t, 1, strings.Count(sheet, "<picture "))
	assert.Contains(t, sheet, `<picture r:id="watermark"/></worksheet>`)

	rels := partText(t, out, "xl/worksheets/_rels/sheet1.xml.rels")
	assert.Contains(t, rels, `Id="watermark"`)
	assert.Contains(t, rels, "../media/"+MediaName(img))

	assert.Equal(t, []string{"xl/media/" + MediaName(img)}, mediaParts(t, out))
	assert.True(t, hasDefaultExtension([]byte(partText(t, out, contentTypesPart)), "png"))

	before, after := rawParts(t, doc), rawParts(t, out)
	for _, name := range []string{"xl/workbook.xml", "xl/styles.xml", "xl/_rels/workbook.xml.rels"} {
		assert.Equal(t, before[name], after[name], name)
	}
}

func TestApplyTwiceAvoidsSelfCollision(t *testing.T) {
	img := testPNG(t, color.Black)
	once, err := Apply(testWorkbook(t, "Sheet1"), img)
	require.NoError(t, err)

	twice, err := Apply(once, img, fixedClock(1700000000000))
	require.NoError(t, err)

	sheet := partText(t, twice, "xl/worksheets/sheet1.xml")
	assert.Equal(t, 1, strings.Count(sheet, "<picture "))
	assert.Contains(t, sheet, `<picture r:id="WM1700000000000"/>`)

	rels := parseRelationships([]byte(partText(t, twice, "xl/worksheets/_rels/sheet1.xml.rels")))
	var ids []string
	for _, rel := range rels {
		ids = append(ids, rel.ID)
	}
	assert.Equal(t, []string{"WM1700000000000"}, ids)
	assert.Equal(t, []string{"xl/media/" + MediaName(img)}, mediaParts(t, twice))

	// A third pass goes back to the reserved id.
	thrice, err := Apply(twice, img, fixedClock(1700000000001))
	require.NoError(t, err)
	assert.Contains(t, partText(t, thrice, "xl/worksheets/sheet1.xml"), `<picture r:id="watermark"/>`)
}

func TestApplyReplacesImage(t *testing.T) {
	first := testPNG(t, color.Black)
	second := testPNG(t, color.White)

	out, err := Apply(testWorkbook(t, "Sheet1"), first)
	require.NoError(t, err)
	out, err = Apply(out, second, fixedClock(1))
	require.NoError(t, err)

	assert.Equal(t, []string{"xl/media/" + MediaName(second)}, mediaParts(t, out))
}

func TestApplyKeepsSharedMedia(t *testing.T) {
	img := testPNG(t, color.Black)
	out, err := Apply(testWorkbook(t, "A", "B"), img)
	require.NoError(t, err)

	// Replacing the picture on one sheet must keep the file the other uses.
	out, err = Apply(out, testPNG(t, color.White), ForSheets("A"), fixedClock(5))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"xl/media/" + MediaName(img),
		"xl/media/" + MediaName(testPNG(t, color.White)),
	}, mediaParts(t, out))
}

func TestRemoveAfterApply(t *testing.T) {
	doc := testWorkbook(t, "Sheet1", "Sheet2")
	out, err := Apply(doc, testPNG(t, color.Black))
	require.NoError(t, err)

	clean, err := Remove(out)
	require.NoError(t, err)

	for _, part := range []string{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet2.xml"} {
		assert.NotContains(t, partText(t, clean, part), "<picture")
		rels := parseRelationships([]byte(partText(t, clean, relsPath(part))))
		for _, rel := range rels {
			assert.NotEqual(t, ImageRelType, rel.Type)
		}
	}
	assert.Empty(t, mediaParts(t, clean))
}

func TestRemoveWithoutWatermarkIsIdentity(t *testing.T) {
	doc := testWorkbook(t, "Sheet1")
	out, err := Remove(doc)
	require.NoError(t, err)
	assert.Equal(t, rawParts(t, doc), rawParts(t, out))
}

func TestForSheets(t *testing.T) {
	out, err := Apply(testWorkbook(t, "First", "Second"), testPNG(t, color.Black), ForSheets("Second"))
	require.NoError(t, err)
	assert.NotContains(t, partText(t, out, "xl/worksheets/sheet1.xml"), "<picture")
	assert.Contains(t, partText(t, out, "xl/worksheets/sheet2.xml"), `<picture r:id="watermark"/>`)

	_, err = Apply(testWorkbook(t, "First"), testPNG(t, color.Black), ForSheets("Missing"))
	assert.ErrorIs(t, err, ErrUnknownSheet)
}

func TestInvalidInput(t *testing.T) {
	_, err := Apply(testWorkbook(t, "Sheet1"), []byte("not a png"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = Apply([]byte("plain"), testPNG(t, color.Black))
	assert.ErrorIs(t, err, archive.ErrNotArchive)

	out, err := Apply([]byte("plain"), testPNG(t, color.Black), IgnoreNonWorkbook())
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), out)
}

func TestReplacePicture(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		old      string
	}{
		{`<worksheet><x/></worksheet>`, `<worksheet><x/>[P]</worksheet>`, ""},
		{`<worksheet><picture r:id="rId3"/>` + "\n" + `</worksheet>`, `<worksheet>[P]` + "\n" + `</worksheet>`, "rId3"},
		{`<worksheet><picture r:id="a"/><x/></worksheet>`, `<worksheet><picture r:id="a"/><x/>[P]</worksheet>`, ""},
	}

	for _, tt := range tests {
		result, old, ok := replacePicture(tt.input, "[P]")
		if !ok || result != tt.expected || old != tt.old {
			t.Errorf("replacePicture(%q) = %q, %q, %v; expected %q, %q", tt.input, result, old, ok, tt.expected, tt.old)
		}
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		base     string
		target   string
		expected string
	}{
		{"xl/worksheets", "../media/a.png", "xl/media/a.png"},
		{"xl", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl", "/xl/worksheets/sheet2.xml", "xl/worksheets/sheet2.xml"},
		{".", "xl/workbook.xml", "xl/workbook.xml"},
	}

	for _, tt := range tests {
		result := resolveTarget(tt.base, tt.target)
		if result != tt.expected {
			t.Errorf("resolveTarget(%q, %q) = %q, expected %q", tt.base, tt.target, result, tt.expected)
		}
	}
}

func TestParseWorkbookSheets(t *testing.T) {
	data := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Second" sheetId="2" r:id="rId2"/><sheet name="First" sheetId="1" r:id="rId1"/><sheet name="" sheetId="3" r:id="rId3"/></sheets>
</workbook>`
	got := parseWorkbookSheets([]byte(data))
	expected := []workbookSheet{{Name: "Second", RelID: "rId2"}, {Name: "First", RelID: "rId1"}}
	assert.Equal(t, expected, got)

	assert.Nil(t, parseWorkbookSheets([]byte("<workbook")))
}

func TestParseRelationships(t *testing.T) {
	data := `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="` + ImageRelType + `" Target="../media/a.png"/></Relationships>`
	got := parseRelationships([]byte(data))
	assert.Equal(t, []relationship{{ID: "rId1", Type: ImageRelType, Target: "../media/a.png"}}, got)
	assert.Nil(t, parseRelationships([]byte("not xml")))
}
