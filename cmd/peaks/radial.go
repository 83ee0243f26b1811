// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/scdpeaks/geom"
	"github.com/katalvlaran/scdpeaks/order"
	"github.com/katalvlaran/scdpeaks/peaksfile"
)

const (
	keyRef   = "ref"
	keyLimit = "limit"
)

func newRadialCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "radial FILE",
		Short: "List peaks nearest to a reciprocal-space point",
		Long: `List the peaks of FILE by ascending distance of their unrotated Q/2π
(1/Å, crystal frame) to the reference point --ref.

Example:
  peaks radial run.peaks --ref 0.2,0,0.4 --limit 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRadial(cmd, args[0])
		},
	}
	cmd.Flags().String(keyRef, "0,0,0", "reference point qx,qy,qz")
	cmd.Flags().Int(keyLimit, 0, "print at most N peaks (0: all)")

	return cmd
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (geom.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Vec3{}, fmt.Errorf("vector %q: want x,y,z", s)
	}
	var v geom.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = f
	}

	return v, nil
}

func (a *app) runRadial(cmd *cobra.Command, path string) error {
	ref, err := parseVec3(a.v.GetString(keyRef))
	if err != nil {
		return err
	}
	f, err := peaksfile.ReadFile(path, peaksfile.WithLogger(a.log))
	if err != nil {
		return err
	}

	sorted := order.SortRadial(f.Peaks, ref)
	if n := a.v.GetInt(keyLimit); n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SEQN\tRUN\tDET\tH\tK\tL\tDIST\t")
	for _, p := range sorted {
		h, k, l := p.HKL()
		fmt.Fprintf(tw, "%d\t%d\t%d\t%g\t%g\t%g\t%.5f\t\n",
			p.SeqNum(), p.Run(), p.DetectorID(), h, k, l, p.QUnrotated().Sub(ref).Norm())
	}

	return tw.Flush()
}
