package app

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Inspect writes one line per extension binding in registration order.
func (a *App) Inspect(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXTENSION\tREF\tSTATUS\tTYPE\tORIGIN")
	for _, st := range a.extensions.Statuses() {
		status := "pending"
		if st.Resolved {
			status = "resolved"
		}
		typ := st.Type
		if typ == "" {
			typ = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", st.ExtensionName, st.TargetKey, status, typ, st.Origin)
	}
	return tw.Flush()
}
