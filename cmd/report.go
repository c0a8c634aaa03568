package cmd

import (
	"fmt"
	"io"

	"list-sync/feature/listsync"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	addColor    = color.New(color.FgGreen)
	removeColor = color.New(color.FgRed)
	failColor   = color.New(color.FgMagenta)
	dimColor    = color.New(color.Faint)
)

// printReports writes a human readable summary of every target.
func printReports(w io.Writer, reports []*listsync.Report) {
	for _, r := range reports {
		mode := "applied"
		if r.DryRun {
			mode = "dry run"
		}
		headerColor.Fprintf(w, "%s", r.Target)
		dimColor.Fprintf(w, " list %s, %s\n", r.ListID, mode)

		for _, id := range r.ToAdd {
			addColor.Fprintf(w, "  + %s\n", id)
		}
		for _, id := range r.ToRemove {
			removeColor.Fprintf(w, "  - %s\n", id)
		}
		for _, f := range r.Failures {
			failColor.Fprintf(w, "  ! %s %s: %s\n", f.Op, f.ID, f.Error)
		}

		fmt.Fprintf(w, "  %d to add, %d to remove, %d failed\n", len(r.ToAdd), len(r.ToRemove), r.Failed())
	}
}
