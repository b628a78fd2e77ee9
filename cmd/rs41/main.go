// Command rs41 decodes Vaisala RS41 telemetry, a thin wrapper over
// the shared decode pipeline fixed to the RS41 family.
package main

import (
	"os"

	"github.com/rs1729go/sondedecode/internal/cli"
)

func main() {
	os.Exit(cli.Run("RS41", os.Args[1:]))
}
