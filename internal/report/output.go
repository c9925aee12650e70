package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kvesta/vulnmgt/config"
	"github.com/kvesta/vulnmgt/internal/sweeper"

	"github.com/olekukonko/tablewriter"
)

// ResolveReportData prints a per CVE summary of the report
func ResolveReportData(w io.Writer, network string, sections []*Section) error {

	critical, high, medium, low, unscored := 0, 0, 0, 0, 0
	hosts := map[string]struct{}{}

	for _, s := range sections {
		switch config.Severity(detailOf(s).CVSS) {
		case "critical":
			critical += 1
		case "high":
			high += 1
		case "medium":
			medium += 1
		case "low":
			low += 1
		default:
			unscored += 1
		}

		for _, h := range s.Hosts {
			hosts[h] = struct{}{}
		}
	}

	fmt.Fprintf(w, "\nDetected %s CVEs on %s hosts in %s | "+
		"Critical: %s High: %s Medium: %s Low: %s Unknown: %d\n\n",
		config.Yellow(len(sections)),
		config.Yellow(len(hosts)),
		network,
		config.Red(critical),
		config.Pink(high),
		config.Yellow(medium),
		config.Green(low),
		unscored)

	if len(sections) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "CVEID", "Hosts", "Score", "Level", "Summary"})
	table.SetRowLine(true)

	var summary string
	for i, s := range sortSeverity(sections) {
		c := detailOf(s)

		// Limit the length of summary
		if len(c.Summary) > 120 {
			summary = c.Summary[:120] + " ..."
		} else {
			summary = c.Summary
		}

		vulnData := []string{
			strconv.Itoa(i + 1), s.CVE,
			strconv.Itoa(len(s.Hosts)),
			formatScore(c.CVSS),
			judgeSeverity(config.Severity(c.CVSS)),
			summary,
		}

		table.Append(vulnData)
	}

	table.Render()

	return nil
}

// ResolveSweepData prints the stale record counts of a sweep
func ResolveSweepData(w io.Writer, r *sweeper.Result) error {

	fmt.Fprintf(w, "\nToday's date: %s\n%d days ago: %s\n\n",
		r.Now.Format(time.RFC3339),
		r.OlderThan,
		config.Yellow(r.Cutoff.Format(time.RFC3339)))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Collection", "Stale", "Removed"})

	for _, t := range r.Tallies {
		removed := strconv.FormatInt(t.Removed, 10)
		if r.DryRun {
			removed = "dry run"
		}

		table.Append([]string{t.Collection, strconv.FormatInt(t.Stale, 10), removed})
	}

	table.Render()

	return nil
}

// sortSeverity orders a copy of sections from critical to unscored,
// keeping the CVE order within a level
func sortSeverity(sections []*Section) []*Section {
	sorted := append([]*Section{}, sections...)

	sort.SliceStable(sorted, func(i, j int) bool {
		return config.SeverityMap[config.Severity(detailOf(sorted[i]).CVSS)] >
			config.SeverityMap[config.Severity(detailOf(sorted[j]).CVSS)]
	})

	return sorted
}

func judgeSeverity(severity string) string {

	severityLow := strings.ToLower(severity)

	switch severityLow {
	case "critical":
		return config.Red("critical")
	case "high":
		return config.Pink("high")
	case "medium":
		return config.Yellow("medium")
	case "low":
		return config.Green("low")
	default:
		// ignore
	}
	return "unknown"
}
