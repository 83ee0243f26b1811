// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/scdpeaks/sortcode"
)

func newCodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Pack and unpack sortable cell codes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "encode VALUE ROW COL CHAN",
			Short: "Pack a cell into a sortable code",
			Args:  cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				var n [4]int
				for i, s := range args {
					v, err := strconv.Atoi(s)
					if err != nil {
						return fmt.Errorf("argument %d: %w", i+1, err)
					}
					n[i] = v
				}
				if !sortcode.Valid(n[1], n[2], n[3]) {
					return fmt.Errorf("row/col/chan outside [0,%d)/[0,%d)/[0,%d)",
						sortcode.MaxNumRows, sortcode.MaxNumCols, sortcode.MaxNumChan)
				}
				fmt.Fprintln(cmd.OutOrStdout(), uint64(sortcode.Encode(n[0], n[1], n[2], n[3])))

				return nil
			},
		},
		&cobra.Command{
			Use:   "decode CODE",
			Short: "Unpack a sortable code as row, col, chan, value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sortcode.Code(c))

				return nil
			},
		},
	)

	return cmd
}
