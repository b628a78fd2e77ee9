// Command sonde-ll2utm converts a latitude/longitude pair to UTM and
// MGRS, mirroring the teacher's cmd/samoyed-ll2utm utility but built
// on internal/geo's wrapping of tzneal/coordconv.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs1729go/sondedecode/internal/geo"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: sonde-ll2utm <lat> <lon>\n")
}

func main() {
	if len(os.Args) != 3 {
		usage()
		os.Exit(-1)
	}

	lat, err1 := strconv.ParseFloat(os.Args[1], 64)
	lon, err2 := strconv.ParseFloat(os.Args[2], 64)
	if err1 != nil || err2 != nil {
		usage()
		os.Exit(-1)
	}

	g := geo.Geodetic{LatDeg: lat, LonDeg: lon}

	utm, err := geo.ToUTM(g)
	if err == nil {
		fmt.Printf("UTM zone = %d, hemisphere = %c, easting = %.0f, northing = %.0f\n",
			utm.Zone, utm.Hemisphere, utm.Easting, utm.Northing)
	} else {
		fmt.Fprintf(os.Stderr, "conversion to UTM failed: %s\n", err)
	}

	mgrs, err := geo.MGRS(g, 5)
	if err == nil {
		fmt.Printf("MGRS = %s\n", mgrs)
	} else {
		fmt.Fprintf(os.Stderr, "conversion to MGRS failed: %s\n", err)
	}
}
