// Command dfm09 decodes Graw DFM09/DFM17 telemetry, a thin wrapper
// over the shared decode pipeline fixed to the DFM09 family.
package main

import (
	"os"

	"github.com/rs1729go/sondedecode/internal/cli"
)

func main() {
	os.Exit(cli.Run("DFM09", os.Args[1:]))
}
