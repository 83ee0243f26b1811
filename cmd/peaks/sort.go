// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/scdpeaks/peaksfile"
)

const (
	keyAppend      = "append"
	keyCompression = "compression"
)

var compressions = map[string]peaksfile.Compression{
	"auto": peaksfile.CompressAuto,
	"none": peaksfile.CompressNone,
	"gzip": peaksfile.CompressGzip,
	"zstd": peaksfile.CompressZstd,
}

func newSortCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort IN OUT",
		Short: "Rewrite a peaks file in canonical file order",
		Long: `Read IN, re-sort its peaks by run, detector and h,k,l, and write OUT.

Examples:
  peaks sort raw.peaks run.peaks
  peaks sort raw.peaks all.peaks.gz --append`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSort(cmd, args[0], args[1])
		},
	}
	cmd.Flags().Bool(keyAppend, false, "append to OUT instead of replacing it")
	cmd.Flags().String(keyCompression, "auto", "output compression: auto, none, gzip, zstd")

	return cmd
}

func (a *app) runSort(cmd *cobra.Command, in, out string) error {
	comp, ok := compressions[a.v.GetString(keyCompression)]
	if !ok {
		return fmt.Errorf("unknown compression %q", a.v.GetString(keyCompression))
	}

	f, err := peaksfile.ReadFile(in, peaksfile.WithLogger(a.log))
	if err != nil {
		return err
	}
	opts := []peaksfile.Option{peaksfile.WithLogger(a.log), peaksfile.WithCompression(comp)}
	if a.v.GetBool(keyAppend) {
		opts = append(opts, peaksfile.WithAppend())
	}
	if err := peaksfile.WriteFile(out, f.Peaks, opts...); err != nil {
		return err
	}
	a.log.Info("sorted", slog.String("in", in), slog.String("out", out), slog.Int("peaks", len(f.Peaks)))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d peaks to %s\n", len(f.Peaks), out)

	return nil
}
