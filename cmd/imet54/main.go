// Command imet54 decodes International Met Systems iMet-54 telemetry,
// a thin wrapper over the shared decode pipeline fixed to the iMET-54
// family.
package main

import (
	"os"

	"github.com/rs1729go/sondedecode/internal/cli"
)

func main() {
	os.Exit(cli.Run("iMET-54", os.Args[1:]))
}
