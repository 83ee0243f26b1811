// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/scdpeaks/peaksfile"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Summarise a peaks file per detector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfo(cmd, args[0])
		},
	}
}

type detSummary struct {
	peaks      int
	dMin, dMax float64
}

func (a *app) runInfo(cmd *cobra.Command, path string) error {
	f, err := peaksfile.ReadFile(path, peaksfile.WithLogger(a.log))
	if err != nil {
		return err
	}

	sums := make(map[int]*detSummary)
	runs := make(map[int]struct{})
	for _, p := range f.Peaks {
		runs[p.Run()] = struct{}{}
		s, ok := sums[p.DetectorID()]
		if !ok {
			s = &detSummary{dMin: math.Inf(1), dMax: math.Inf(-1)}
			sums[p.DetectorID()] = s
		}
		s.peaks++
		if d := p.DSpacing(); !math.IsNaN(d) && !math.IsInf(d, 0) {
			s.dMin = math.Min(s.dMin, d)
			s.dMax = math.Max(s.dMax, d)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d peaks, %d runs, %d detectors\n", path, len(f.Peaks), len(runs), len(f.Grids))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DET\tROWS\tCOLS\tPEAKS\tDMIN\tDMAX\t")
	seen := make(map[int]bool)
	for _, g := range f.Grids {
		if seen[g.ID()] {
			continue
		}
		seen[g.ID()] = true
		g = f.Grid(g.ID())
		s := sums[g.ID()]
		if s == nil || s.peaks == 0 || math.IsInf(s.dMin, 1) {
			n := 0
			if s != nil {
				n = s.peaks
			}
			fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t-\t-\t\n", g.ID(), g.NumRows(), g.NumCols(), n)
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.4f\t%.4f\t\n", g.ID(), g.NumRows(), g.NumCols(), s.peaks, s.dMin, s.dMax)
	}

	return tw.Flush()
}
