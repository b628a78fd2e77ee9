// Command m10 decodes MeteoModem M10/M20 telemetry, a thin wrapper
// over the shared decode pipeline fixed to the M10 family (pass
// `-f M20` for the M20 variant).
package main

import (
	"os"

	"github.com/rs1729go/sondedecode/internal/cli"
)

func main() {
	os.Exit(cli.Run("M10", os.Args[1:]))
}
