package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tclindner/bitbucket-server-cli/internal/domain"
)

// WriteStalePullRequests renders one block per stale pull request and a
// closing count. The age is rendered relative to now.
func WriteStalePullRequests(w io.Writer, stale []domain.StalePullRequest, now time.Time) {
	if len(stale) == 0 {
		greenBold.Fprintln(w, "No stale pull requests found!")
		return
	}

	for _, pr := range stale {
		header.Fprint(w, "Stale pr detected")
		fmt.Fprintln(w)
		label.Fprint(w, "Project: ")
		value.Fprintln(w, pr.Project)
		label.Fprint(w, "Repo: ")
		value.Fprintln(w, pr.Repo)
		cyanBold.Fprint(w, "ID: ")
		cyan.Fprintln(w, pr.ID)
		cyanBold.Fprint(w, "Title: ")
		cyan.Fprintln(w, pr.Title)
		cyanBold.Fprint(w, "Author: ")
		cyan.Fprintln(w, pr.Author)
		cyan.Fprintf(w, "%s --> %s\n", pr.FromBranch, pr.ToBranch)
		cyanBold.Fprint(w, "Last Updated: ")
		cyan.Fprintln(w, humanize.RelTime(pr.UpdatedDate, now, "ago", "from now"))
		cyanBold.Fprint(w, "Created On: ")
		cyan.Fprintln(w, pr.CreatedDate.Format("2006-01-02"))
		fmt.Fprintln(w)
	}

	redBold.Fprint(w, len(stale))
	fmt.Fprintf(w, " stale pull %s found.\n", pluralize(len(stale), "request", "requests"))
}
