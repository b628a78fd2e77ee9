// Command meisei decodes Meisei RS-11G telemetry, a thin wrapper over
// the shared decode pipeline fixed to the Meisei family.
package main

import (
	"os"

	"github.com/rs1729go/sondedecode/internal/cli"
)

func main() {
	os.Exit(cli.Run("Meisei", os.Args[1:]))
}
