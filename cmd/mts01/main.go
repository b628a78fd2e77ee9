// Command mts01 decodes Meteosis MTS01 telemetry, a thin wrapper over
// the shared decode pipeline fixed to the MTS01 family.
package main

import (
	"os"

	"github.com/rs1729go/sondedecode/internal/cli"
)

func main() {
	os.Exit(cli.Run("MTS01", os.Args[1:]))
}
