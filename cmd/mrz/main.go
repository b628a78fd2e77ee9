// Command mrz decodes Meteo-Radiy MRZ telemetry, a thin wrapper over
// the shared decode pipeline fixed to the MRZ family.
package main

import (
	"os"

	"github.com/rs1729go/sondedecode/internal/cli"
)

func main() {
	os.Exit(cli.Run("MRZ", os.Args[1:]))
}
