package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/viant/unused/remover"
	"golang.org/x/term"
)

var (
	addedLine   = color.New(color.FgGreen)
	removedLine = color.New(color.FgRed)
	hunkLine    = color.New(color.FgCyan)
	failure     = color.New(color.Bold, color.FgRed)
)

func configureColor(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != ""
	}
}

// printResults writes diffs and failures; it returns the number of failed files
func printResults(out, errOut io.Writer, results []*remover.Result) int {
	failed := 0
	for _, result := range results {
		if result == nil {
			continue
		}
		if result.Err != nil {
			failed++
			failure.Fprintf(errOut, "%s: %s failure: %v\n", result.Entry.Path(), result.Stage(), result.Err)
			continue
		}
		if result.Diff != "" {
			printDiff(out, result.Diff)
		}
	}
	return failed
}

func printDiff(out io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(out, line)
		case strings.HasPrefix(line, "+"):
			addedLine.Fprint(out, line)
		case strings.HasPrefix(line, "-"):
			removedLine.Fprint(out, line)
		case strings.HasPrefix(line, "@@"):
			hunkLine.Fprint(out, line)
		default:
			fmt.Fprint(out, line)
		}
	}
}

func renderSummary(results []*remover.Result) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Status", "Removed"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	total := 0
	files := 0
	for _, result := range results {
		if result == nil {
			continue
		}
		files++
		total += result.Removed()
		table.Append([]string{result.Entry.Path(), string(result.Status()), fmt.Sprintf("%d", result.Removed())})
	}
	table.SetFooter([]string{fmt.Sprintf("Total Files %d", files), "", fmt.Sprintf("%d", total)})
	table.Render()

	return tableBuffer.String()
}
