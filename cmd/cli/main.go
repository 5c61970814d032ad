// srtfix - SRT Timestamp Normalizer
//
// srtfix rewrites the timestamp lines of SRT subtitle files into the
// canonical "HH:MM:SS,mmm --> HH:MM:SS,mmm" form, leaving all other lines
// untouched.
package main

import (
	"os"

	"github.com/ccollicutt/srtfix/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
