package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/inventory"
)

// DumpRecords outputs the raw counters of every record before threshold evaluation.
func DumpRecords(w io.Writer, records []inventory.MountRecord) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Raw Mount Dump"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 100)))
	fmt.Fprintf(w, "  %s %s %s %s %s %s\n",
		debugHeader.Render("MOUNT                   "),
		debugHeader.Render("FSTYPE    "),
		debugHeader.Render("BYTES TOTAL     "),
		debugHeader.Render("BYTES FREE      "),
		debugHeader.Render("INODES TOTAL"),
		debugHeader.Render("INODES FREE "))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 100)))

	for _, r := range records {
		fmt.Fprintf(w, "  %-25s %-11s %-17d %-17d %-13d %d\n",
			r.MountPoint, r.FSType, r.BytesTotal, r.BytesFree, r.InodesTotal, r.InodesFree)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "  "+debugDim.Render("no mounts selected"))
	}
}
