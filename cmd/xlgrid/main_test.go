package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid"
)

func TestParseTitles(t *testing.T) {
	got, err := parseTitles([]string{"Name=name", "Score"})
	require.NoError(t, err)
	assert.Equal(t, xlgrid.Titles{"Name": xlgrid.As("name"), "Score": xlgrid.As("Score")}, got)

	_, err = parseTitles([]string{"=field"})
	assert.Error(t, err)
}

func TestNumericColumn(t *testing.T) {
	rows := [][]any{{"a", 1, nil}, {"b", 2.5, nil}, {"c"}}
	tests := []struct {
		col  int
		want bool
	}{
		{0, false},
		{1, true},
		{2, false},
	}
	for _, tt := range tests {
		if got := numericColumn(rows, tt.col); got != tt.want {
			t.Errorf("numericColumn(%d) = %v, want %v", tt.col, got, tt.want)
		}
	}
}

func TestBuildThenRead(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "out.xlsx")
	records := filepath.Join(dir, "out.json")
	t.Cleanup(func() { outputPath = "" })

	input := `
sheets:
  - name: Sales
    titles: [Region, Total]
    rows:
      - [north, 10]
      - [south, 32]
    sum: true
    border: true
`
	outputPath = doc
	require.NoError(t, runBuild(strings.NewReader(input), buildFlags{}))

	outputPath = records
	require.NoError(t, runRead(doc, readFlags{required: []string{"Region=region", "Total=total"}}))

	data, err := os.ReadFile(records)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 3)
	assert.Equal(t, map[string]any{"region": "north", "total": 10.0}, got[0])
	assert.Equal(t, 42.0, got[2]["total"])
}
