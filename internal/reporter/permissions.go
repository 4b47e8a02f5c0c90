package reporter

import (
	"fmt"
	"io"

	"github.com/tclindner/bitbucket-server-cli/internal/domain"
)

// WritePermissions renders one block per discrepancy and a closing count.
func WritePermissions(w io.Writer, discrepancies []domain.PermissionDiscrepancy) {
	if len(discrepancies) == 0 {
		greenBold.Fprintln(w, "No permission errors found!")
		return
	}

	for _, d := range discrepancies {
		scope := "Project"
		if d.IsRepo() {
			scope = "Repo"
		}
		header.Fprintf(w, "%s permission error detected", scope)
		fmt.Fprintln(w)
		label.Fprint(w, "Project: ")
		value.Fprintln(w, d.Project)
		if d.IsRepo() {
			label.Fprint(w, "Repo: ")
			value.Fprintln(w, d.Repo)
		}
		cyanBold.Fprintf(w, "%s: ", d.Entity)
		cyan.Fprintln(w, d.EntityName)
		cyanBold.Fprint(w, "Permission: ")
		cyan.Fprintln(w, d.Permission)
		fmt.Fprintln(w)
	}

	redBold.Fprint(w, len(discrepancies))
	fmt.Fprintf(w, " permission %s found.\n", pluralize(len(discrepancies), "error", "errors"))
}
