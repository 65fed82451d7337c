package xlgrid

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/archive"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/codec"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/models"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/watermark"
)

func TestWorkbookSheets(t *testing.T) {
	wb := newWorkbook(t, DefaultOptions())
	a := wb.Sheet("A")
	a.String("x", nil)
	wb.NewSheet("B")
	assert.Same(t, a, wb.Active())

	wb.Sheet("B")
	assert.Equal(t, models.Area{}, a.Range())
	assert.Same(t, a, wb.Sheet("A"))
	assert.Equal(t, []string{"A", "B"}, wb.SheetNames())

	wb.Finalize()
	assert.Nil(t, wb.Active())
}

func TestBuildEmptyWorkbook(t *testing.T) {
	b, err := newWorkbook(t, DefaultOptions()).Build(codec.Raw)
	require.NoError(t, err)
	doc, err := codec.DecodeBytes(b)
	require.NoError(t, err)
	assert.Equal(t, []string{codec.DefaultSheetName}, doc.SheetNames)
}

func TestBuildBase64(t *testing.T) {
	wb := newWorkbook(t, DefaultOptions())
	wb.Sheet("Data").String("x", nil)
	b, err := wb.Build(codec.Base64)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "UEsDB"))

	_, err = wb.Build("hex")
	assert.Error(t, err)
}

func TestOverlappingMergesLastWins(t *testing.T) {
	wb := newWorkbook(t, DefaultOptions())
	s := wb.Sheet("Data")
	s.FillRow([]any{"a", "b", "c"}, nil)
	s.AdvanceRow(0).FillRow([]any{"d", "e", "f"}, nil)
	s.Merge(0, 0, 0, 2)
	s.Merge(0, 1, 1, 1)
	assert.Len(t, s.Merges(), 2)

	b, err := wb.Build(codec.Raw)
	require.NoError(t, err)
	doc, err := codec.DecodeBytes(b)
	require.NoError(t, err)
	assert.Equal(t, []models.Area{{R1: 0, C1: 1, R2: 1, C2: 1}}, doc.Sheet("Data").Merges)
}

func TestInvalidWatermark(t *testing.T) {
	wb := newWorkbook(t, DefaultOptions())
	err := wb.Watermark([]byte("not an image"))
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "watermark", ce.Field)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, watermark.ErrInvalidImage)

	assert.Error(t, wb.Sheet("A").Watermark(nil))

	opts := DefaultOptions()
	opts.Watermark = []byte("GIF89a")
	_, err = New(opts)
	assert.ErrorAs(t, err, &ce)

	opts = DefaultOptions()
	opts.WatermarkPath = "mark.jpg"
	_, err = New(opts)
	assert.ErrorAs(t, err, &ce)
}

func TestWatermarkBuild(t *testing.T) {
	red := testPNG(t, color.RGBA{R: 255, A: 255})
	blue := testPNG(t, color.RGBA{B: 255, A: 255})

	wb := newWorkbook(t, DefaultOptions())
	require.NoError(t, wb.Watermark(red))
	wb.Sheet("A").String("a", nil)
	wb.Sheet("B").String("b", nil)
	wb.Sheet("C").String("c", nil).WithoutWatermark()
	require.NoError(t, wb.Sheet("D").Watermark(blue))

	b, err := wb.Build(codec.Raw)
	require.NoError(t, err)
	a, err := archive.Open(b)
	require.NoError(t, err)

	for part, want := range map[string]bool{
		"xl/worksheets/sheet1.xml": true,
		"xl/worksheets/sheet2.xml": true,
		"xl/worksheets/sheet3.xml": false,
		"xl/worksheets/sheet4.xml": true,
	} {
		text, err := a.Text(part)
		require.NoError(t, err)
		assert.Equal(t, want, strings.Contains(text, "<picture "), part)
	}
	assert.True(t, a.Has("xl/media/"+watermark.MediaName(red)))
	assert.True(t, a.Has("xl/media/"+watermark.MediaName(blue)))

	clean, err := watermark.Remove(b)
	require.NoError(t, err)
	a, err = archive.Open(clean)
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		text, err := a.Text("xl/worksheets/sheet" + string(rune('0'+i)) + ".xml")
		require.NoError(t, err)
		assert.NotContains(t, text, "<picture ")
	}
	assert.False(t, a.Has("xl/media/"+watermark.MediaName(red)))
}

func TestWithoutWatermark(t *testing.T) {
	wb := newWorkbook(t, DefaultOptions())
	require.NoError(t, wb.Watermark(testPNG(t, color.Black)))
	wb.Sheet("A").String("a", nil)
	wb.WithoutWatermark()

	b, err := wb.Build(codec.Raw)
	require.NoError(t, err)
	a, err := archive.Open(b)
	require.NoError(t, err)
	text, err := a.Text("xl/worksheets/sheet1.xml")
	require.NoError(t, err)
	assert.NotContains(t, text, "<picture ")
}

func TestDefaultWatermark(t *testing.T) {
	img := testPNG(t, color.White)
	require.NoError(t, SetDefaultWatermark(img))
	t.Cleanup(func() { _ = SetDefaultWatermark(nil) })

	wb := newWorkbook(t, DefaultOptions())
	assert.Equal(t, img, wb.watermark)
	assert.Error(t, SetDefaultWatermark([]byte("nope")))
	assert.Equal(t, img, DefaultWatermark())
}

func TestWithoutGridLines(t *testing.T) {
	wb := newWorkbook(t, DefaultOptions())
	wb.Sheet("A").String("a", nil)
	wb.WithoutGridLines()
	wb.Sheet("B").String("b", nil)

	b, err := wb.Build(codec.Raw)
	require.NoError(t, err)
	doc, err := codec.DecodeBytes(b)
	require.NoError(t, err)
	assert.True(t, doc.Sheet("A").HideGridLines)
	assert.True(t, doc.Sheet("B").HideGridLines)
}

func TestSaveAndLoad(t *testing.T) {
	wb := newWorkbook(t, DefaultOptions())
	s := wb.Sheet("Data")
	s.Titles([]string{"Name", "Score"}, nil)
	s.AdvanceRow(0).String("alice", nil).Number(90, nil)
	s.Merge(0, 0, 0, 1)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, wb.Save(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	loaded, err := LoadFromFile(path, DefaultOptions())
	require.NoError(t, err)
	ls, ok := loaded.Lookup("Data")
	require.True(t, ok)
	assert.Equal(t, 1, ls.RowIndex())
	assert.Len(t, ls.Merges(), 1)

	ls.AdvanceRow(0).String("bob", nil).Number(75, nil)
	b, err := loaded.Build(codec.Raw)
	require.NoError(t, err)

	r := NewReader(ReaderOptions{})
	require.NoError(t, r.Read(b))
	require.NoError(t, r.Sheet("Data"))
	require.NoError(t, r.Header(Titles{"Name": As("name"), "Score": As("score")}, nil, nil))
	recs := r.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, Record{"name": "bob", "score": 75.0}, recs[1])
}

func TestLoadKeepsColumnWidths(t *testing.T) {
	wb := newWorkbook(t, DefaultOptions())
	s := wb.Sheet("Data")
	s.String("a", WithWidth(20)).String("b", nil)
	before := s.ColWidth(0)
	require.Equal(t, 170.0, before)

	b, err := wb.Build(codec.Raw)
	require.NoError(t, err)
	loaded, err := LoadFromBytes(b, DefaultOptions())
	require.NoError(t, err)
	ls, ok := loaded.Lookup("Data")
	require.True(t, ok)
	assert.Equal(t, before, ls.ColWidth(0))
	assert.Equal(t, 8.0, ls.ColWidth(1))

	b, err = loaded.Build(codec.Raw)
	require.NoError(t, err)
	doc, err := codec.DecodeBytes(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{170, 8}, doc.Sheet("Data").ColWidths)
}
