package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tclindner/bitbucket-server-cli/internal/domain"
	"github.com/tclindner/bitbucket-server-cli/internal/usecase"
)

var weekdays = []time.Weekday{
	time.Sunday,
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
}

const tableDivider = "|--------------------|----------|----------|----------|----------|----------|----------|----------|"

// WriteOverallStats renders the single overall stats block.
func WriteOverallStats(w io.Writer, stats map[string]*domain.RunningStats) {
	redBold.Fprintln(w, "Overall stats")
	if s, ok := stats[usecase.OverallKey]; ok {
		writeStats(w, s)
	}
}

// WriteProjectStats renders one stats block per project, sorted by project
// key for consistent output.
func WriteProjectStats(w io.Writer, stats map[string]*domain.RunningStats) {
	redBold.Fprintln(w, "Project level stats")
	for _, key := range sortedKeys(stats) {
		magBold.Fprint(w, "Project: ")
		magenta.Fprintln(w, key)
		writeStats(w, stats[key])
	}
}

// WriteRepoStats renders one stats block per repo, sorted by the
// "projectKey|repoSlug" aggregation key for consistent output.
func WriteRepoStats(w io.Writer, stats map[string]*domain.RunningStats) {
	redBold.Fprintln(w, "Repo level stats")
	for _, key := range sortedKeys(stats) {
		project, repo, _ := strings.Cut(key, "|")
		magBold.Fprint(w, "Project: ")
		magenta.Fprintln(w, project)
		magBold.Fprint(w, "Repo: ")
		magenta.Fprintln(w, repo)
		writeStats(w, stats[key])
	}
}

func sortedKeys(stats map[string]*domain.RunningStats) []string {
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func writeStats(w io.Writer, s *domain.RunningStats) {
	cyanBold.Fprint(w, "Total number of PRs: ")
	value.Fprintln(w, s.Count)
	cyanBold.Fprint(w, "Total number of commits: ")
	value.Fprintln(w, s.SumOfCommits)
	cyanBold.Fprint(w, "Total number of tasks: ")
	value.Fprintln(w, s.SumOfTasks)
	fmt.Fprintln(w)

	cyanBold.Fprint(w, "Average Age: ")
	value.Fprintln(w, formatDuration(s.AvgAge()))
	cyanBold.Fprint(w, "Average number of commits: ")
	value.Fprintf(w, "%.2f\n", s.AvgCommits())
	cyanBold.Fprint(w, "Average number of tasks: ")
	value.Fprintf(w, "%.2f\n", s.AvgTasks())
	fmt.Fprintln(w)

	writeWeekdayTable(w, s)

	cyanBold.Fprint(w, "Issues Resolved: ")
	value.Fprintln(w, s.IssueKeys)
	fmt.Fprintln(w)
}

func writeWeekdayTable(w io.Writer, s *domain.RunningStats) {
	fmt.Fprintln(w, tableDivider)
	fmt.Fprintf(w, "|%20s|", "")
	for _, day := range weekdays {
		fmt.Fprintf(w, "%10s|", day)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, tableDivider)

	cyanBold.Fprintf(w, "|%20s|", "Number PRs created")
	for _, day := range weekdays {
		fmt.Fprintf(w, "%10d|", s.CreatedOnDay[day])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, tableDivider)

	cyanBold.Fprintf(w, "|%20s|", "Number PRs merged")
	for _, day := range weekdays {
		fmt.Fprintf(w, "%10d|", s.MergedOnDay[day])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, tableDivider)

	cyanBold.Fprintf(w, "|%20s|", "Pct PRs created")
	for _, day := range weekdays {
		fmt.Fprintf(w, "%9.2f%%|", s.PctCreatedOn(day))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, tableDivider)

	cyanBold.Fprintf(w, "|%20s|", "Pct PRs merged")
	for _, day := range weekdays {
		fmt.Fprintf(w, "%9.2f%%|", s.PctMergedOn(day))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, tableDivider)
}

// formatDuration renders a duration the way a human reads report output,
// e.g. "3 days".
func formatDuration(d time.Duration) string {
	epoch := time.Unix(0, 0)
	return strings.TrimSpace(humanize.RelTime(epoch, epoch.Add(d), "", ""))
}
