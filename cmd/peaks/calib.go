// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/scdpeaks/peak"
)

func newCalibCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calib FILE",
		Short: "Print a parsed detector calibration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := peak.LoadCalibration(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "detector  %d\n", c.Detector)
			fmt.Fprintf(out, "angle     %.4f deg\n", c.Angle)
			fmt.Fprintf(out, "distance  %.4f cm\n", c.Distance)
			fmt.Fprintf(out, "l1        %.4f cm\n", c.L1)
			fmt.Fprintf(out, "t0        %.4f us\n", c.T0)
			fmt.Fprintf(out, "x-scale   %.6f\n", c.XScale)
			fmt.Fprintf(out, "y-scale   %.6f\n", c.YScale)
			fmt.Fprintf(out, "x-offset  %.6f\n", c.XOffset)
			fmt.Fprintf(out, "y-offset  %.6f\n", c.YOffset)

			return nil
		},
	}
}
