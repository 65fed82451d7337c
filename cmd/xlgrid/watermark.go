package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/watermark"
)

type watermarkFlags struct {
	image   string
	sheets  []string
	lenient bool
}

func (f watermarkFlags) options() []watermark.Option {
	var opts []watermark.Option
	if len(f.sheets) > 0 {
		opts = append(opts, watermark.ForSheets(f.sheets...))
	}
	if f.lenient {
		opts = append(opts, watermark.IgnoreNonWorkbook())
	}
	return opts
}

func newWatermarkCmd() *cobra.Command {
	var f watermarkFlags
	cmd := &cobra.Command{
		Use:   "watermark [input.xlsx]",
		Short: "Attach a PNG watermark to sheets of an existing document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			image, err := os.ReadFile(f.image)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			out, err := watermark.Apply(doc, image, f.options()...)
			if err != nil {
				return err
			}
			slog.Debug("applied watermark", "media", watermark.MediaName(image), "sheets", f.sheets)
			return writeOutput(out)
		},
	}
	cmd.Flags().StringVar(&f.image, "image", "", "PNG image")
	cmd.Flags().StringSliceVar(&f.sheets, "sheet", nil, "Sheets to patch (default: all)")
	cmd.Flags().BoolVar(&f.lenient, "lenient", false, "Return non-workbook input unchanged")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newUnwatermarkCmd() *cobra.Command {
	var f watermarkFlags
	cmd := &cobra.Command{
		Use:   "unwatermark [input.xlsx]",
		Short: "Remove watermarks from sheets of an existing document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			out, err := watermark.Remove(doc, f.options()...)
			if err != nil {
				return err
			}
			slog.Debug("removed watermark", "sheets", f.sheets)
			return writeOutput(out)
		},
	}
	cmd.Flags().StringSliceVar(&f.sheets, "sheet", nil, "Sheets to patch (default: all)")
	cmd.Flags().BoolVar(&f.lenient, "lenient", false, "Return non-workbook input unchanged")
	return cmd
}

func readDocument(path string) ([]byte, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
