package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/xlgrid-go/pkg/xlgrid"
	"github.com/ukaji3/xlgrid-go/pkg/xlgrid/temporal"
)

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [input.xlsx]",
		Short: "List sheet names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openReader(args[0], xlgrid.ReaderOptions{})
			if err != nil {
				return err
			}
			return writeOutput([]byte(strings.Join(r.SheetNames(), "\n") + "\n"))
		},
	}
}

type readFlags struct {
	sheet     string
	required  []string
	optional  []string
	utc       []string
	local     []string
	tailor    string
	formatted bool
	timezone  string
}

func newReadCmd() *cobra.Command {
	var f readFlags
	cmd := &cobra.Command{
		Use:   "read [input.xlsx]",
		Short: "Read a sheet as JSON records",
		Long: `Read locates the header row holding every --title and emits one JSON
object per data row. Without --title the raw rows are emitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().StringArrayVar(&f.required, "title", nil, "Required header mapping Title=field (repeatable)")
	cmd.Flags().StringArrayVar(&f.optional, "optional", nil, "Optional header mapping Title=field (repeatable)")
	cmd.Flags().StringSliceVar(&f.utc, "utc", nil, "Fields read as UTC dates")
	cmd.Flags().StringSliceVar(&f.local, "local", nil, "Fields read as local dates")
	cmd.Flags().StringVar(&f.tailor, "tailor", "", "Skip rows where field=value[,value...]")
	cmd.Flags().BoolVar(&f.formatted, "formatted", false, "Emit display text instead of raw values")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "Location for local dates (default: system)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func runRead(path string, f readFlags) error {
	opts := xlgrid.ReaderOptions{Formatted: f.formatted, Tags: make(map[string]temporal.Tag)}
	if f.timezone != "" {
		o := xlgrid.Options{Timezone: f.timezone}
		if err := o.Validate(); err != nil {
			return err
		}
		opts.Location = o.Codec().Location
	}
	for _, name := range f.utc {
		opts.Tags[name] = temporal.UTC
	}
	for _, name := range f.local {
		opts.Tags[name] = temporal.Local
	}

	r, err := openReader(path, opts)
	if err != nil {
		return err
	}
	if f.sheet != "" {
		err = r.Sheet(f.sheet)
	} else {
		err = r.SheetAt(0)
	}
	if err != nil {
		return err
	}
	slog.Debug("selected sheet", "sheet", r.SheetName())

	if len(f.required) == 0 && len(f.optional) == 0 {
		return writeJSON(r.Rows())
	}

	required, err := parseTitles(f.required)
	if err != nil {
		return err
	}
	optional, err := parseTitles(f.optional)
	if err != nil {
		return err
	}
	if err := r.Header(required, optional, nil); err != nil {
		return err
	}
	if f.tailor != "" {
		field, values, ok := strings.Cut(f.tailor, "=")
		if !ok {
			return fmt.Errorf("invalid --tailor %q (want field=value)", f.tailor)
		}
		r.Tailor(field, strings.Split(values, ",")...)
	}
	records := r.Records()
	slog.Debug("read records", "count", len(records))
	if records == nil {
		records = []xlgrid.Record{}
	}
	return writeJSON(records)
}

func openReader(path string, opts xlgrid.ReaderOptions) (*xlgrid.Reader, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	r := xlgrid.NewReader(opts)
	if err := r.ReadFile(path); err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	return r, nil
}

// parseTitles parses Title=field pairs. A bare Title maps to itself.
func parseTitles(pairs []string) (xlgrid.Titles, error) {
	out := make(xlgrid.Titles, len(pairs))
	for _, p := range pairs {
		title, field, ok := strings.Cut(p, "=")
		if !ok {
			field = title
		}
		if title == "" || field == "" {
			return nil, fmt.Errorf("invalid title mapping %q", p)
		}
		out[title] = xlgrid.As(field)
	}
	return out, nil
}
