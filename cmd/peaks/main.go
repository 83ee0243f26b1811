// SPDX-License-Identifier: MIT

// Command peaks inspects, re-sorts and converts peaks files.
//
//	peaks sort IN OUT [--append] [--compression auto|none|gzip|zstd]
//	peaks info FILE
//	peaks radial FILE --ref qx,qy,qz [--limit N]
//	peaks code encode VALUE ROW COL CHAN
//	peaks code decode CODE
//	peaks calib FILE
//
// Settings come from flags, then SCDPEAKS_* environment variables, then an
// optional config file (--config).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "peaks:", err)
		os.Exit(1)
	}
}
