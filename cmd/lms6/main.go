// Command lms6 decodes LMS6/LMS6X telemetry, a thin wrapper over the
// shared decode pipeline fixed to the LMS6 family.
package main

import (
	"os"

	"github.com/rs1729go/sondedecode/internal/cli"
)

func main() {
	os.Exit(cli.Run("LMS6", os.Args[1:]))
}
