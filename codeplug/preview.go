package codeplug

import (
	"fmt"
	"io"
	"text/tabwriter"

	"bmzone/selection"
)

// WritePreview prints the selected repeaters as an aligned console table so
// the selection can be inspected before the tables are written. Frequencies
// are shown from the radio's point of view.
func WritePreview(w io.Writer, repeaters []selection.Repeater) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CALLSIGN\tRX\tTX\tCC\tCITY\tLAST SEEN\tURL")
	for _, rep := range repeaters {
		dev := rep.Device
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rep.Callsign, dev.TX, dev.RX, dev.ColorCode, dev.City, dev.LastSeen, dev.URL())
	}
	return tw.Flush()
}
