package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/codec"
)

// sheetInput is one sheet of build input.
type sheetInput struct {
	Name   string   `yaml:"name"`
	Titles []string `yaml:"titles"`
	Rows   [][]any  `yaml:"rows"`
	// Sum appends a totals row under every numeric column.
	Sum bool `yaml:"sum"`
	// Border draws a border over the written extent.
	Border bool `yaml:"border"`
}

type buildInput struct {
	Sheets []sheetInput `yaml:"sheets"`
}

type buildFlags struct {
	config    string
	input     string
	watermark string
	base64    bool
}

func newBuildCmd() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a document from YAML or JSON row data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.InOrStdin(), f)
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Workbook options file (YAML)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Row data file (default: stdin)")
	cmd.Flags().StringVar(&f.watermark, "watermark", "", "PNG watermark for every sheet")
	cmd.Flags().BoolVar(&f.base64, "base64", false, "Emit base64 instead of raw bytes")
	return cmd
}

func runBuild(stdin io.Reader, f buildFlags) error {
	opts := xlgrid.DefaultOptions()
	if f.config != "" {
		var err error
		if opts, err = xlgrid.LoadOptionsFile(f.config); err != nil {
			return err
		}
		slog.Debug("loaded options", "path", f.config)
	}
	if f.watermark != "" {
		opts.WatermarkPath = f.watermark
	}

	in := stdin
	if f.input != "" {
		file, err := os.Open(f.input)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}
	var data buildInput
	if err := yaml.NewDecoder(in).Decode(&data); err != nil && err != io.EOF {
		return fmt.Errorf("invalid input: %w", err)
	}

	wb, err := xlgrid.New(opts)
	if err != nil {
		return err
	}
	for i, sheet := range data.Sheets {
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		writeSheet(wb.Sheet(name), sheet)
		slog.Debug("wrote sheet", "sheet", name, "rows", len(sheet.Rows))
	}

	enc := codec.Raw
	if f.base64 {
		enc = codec.Base64
	}
	out, err := wb.Build(enc)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return writeOutput(out)
}

func writeSheet(s *xlgrid.Sheet, in sheetInput) {
	if len(in.Titles) > 0 {
		s.Titles(in.Titles, nil)
	}
	s.Fill(in.Rows, nil)
	if in.Sum && len(in.Rows) > 0 {
		start := s.RowIndex() - len(in.Rows) + 1
		s.AdvanceRow(0)
		for col := 0; col < width(in); col++ {
			if numericColumn(in.Rows, col) {
				s.SumFrom(start, nil)
			} else {
				s.String("", nil)
			}
		}
	}
	if in.Border {
		s.BorderToEnd(0, 0, "", "", xlgrid.OuterInner())
	}
}

func width(in sheetInput) int {
	n := len(in.Titles)
	for _, row := range in.Rows {
		n = max(n, len(row))
	}
	return n
}

func numericColumn(rows [][]any, col int) bool {
	seen := false
	for _, row := range rows {
		if col >= len(row) || row[col] == nil {
			continue
		}
		switch row[col].(type) {
		case int, int64, float64:
			seen = true
		default:
			return false
		}
	}
	return seen
}
