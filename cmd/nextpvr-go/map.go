package main

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/spf13/cobra"

	"github.com/githubixx/nextpvr-go/internal/adapters/secondary/nextpvr"
)

type family string

const (
	familyRecordings   family = "recordings"
	familyTimers       family = "timers"
	familySeriesTimers family = "series-timers"
)

type mapOptions struct {
	file     string
	baseURL  string
	timeZone string
}

func newMapCmd(root *rootOptions, fam family) *cobra.Command {
	opts := &mapOptions{}

	cmd := &cobra.Command{
		Use:   string(fam),
		Short: fmt.Sprintf("Map a saved ManageService response to %s", fam),
		Example: fmt.Sprintf(`  nextpvr-go %[1]s --file dump.json
  curl -s ... | nextpvr-go %[1]s --file -`, fam),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if opts.baseURL == "" {
				opts.baseURL = cfg.NextPVR.BaseURL
			}
			if opts.timeZone != "" {
				cfg.NextPVR.TimeZone = opts.timeZone
			}
			loc, err := cfg.NextPVR.Location()
			if err != nil {
				return err
			}

			in, closeFn, err := openInput(cmd, opts.file)
			if err != nil {
				return err
			}
			defer closeFn()

			return writeFamily(cmd.OutOrStdout(), nextpvr.NewRecordingResponse(opts.baseURL, loc), fam, in)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", `response file, "-" reads stdin`)
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "prefix for download URLs (defaults to nextpvr.base_url)")
	cmd.Flags().StringVar(&opts.timeZone, "time-zone", "", "zone for timestamps without offset (defaults to nextpvr.time_zone)")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open response file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func writeFamily(out io.Writer, resp *nextpvr.RecordingResponse, fam family, in io.Reader) error {
	switch fam {
	case familyRecordings:
		return writeRecords(out, in, resp.Recordings)
	case familyTimers:
		return writeRecords(out, in, resp.Timers)
	case familySeriesTimers:
		return writeRecords(out, in, resp.SeriesTimers)
	default:
		return fmt.Errorf("unknown family %q", fam)
	}
}

// writeRecords prints nothing unless every entry maps.
func writeRecords[T any](out io.Writer, in io.Reader, open func(io.Reader) (iter.Seq2[T, error], error)) error {
	seq, err := open(in)
	if err != nil {
		return err
	}
	records, err := nextpvr.Collect(seq)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
