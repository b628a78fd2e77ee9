// Command sondedecode is the primary CLI binary: it parses spec.md
// §6's flag surface, builds the appropriate Sample Source, and runs
// the decode pipeline for one sonde family (RS41 by default,
// overridable with `-f NAME`).
package main

import (
	"os"

	"github.com/rs1729go/sondedecode/internal/cli"
)

func main() {
	os.Exit(cli.Run("RS41", os.Args[1:]))
}
