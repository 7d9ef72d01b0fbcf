package helpers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/immune-gmbh/otaufetch/pkg/commands"
	"github.com/immune-gmbh/otaufetch/pkg/otausync"
)

var outcomeColor = map[otausync.Outcome]*color.Color{
	otausync.OutcomeDownloaded:     color.New(color.FgGreen),
	otausync.OutcomeAlreadyPresent: color.New(color.Faint),
	otausync.OutcomeMissing:        color.New(color.FgYellow),
	otausync.OutcomeWouldDownload:  color.New(color.FgYellow),
	otausync.OutcomeFailed:         color.New(color.FgRed, color.Bold),
}

// Printer prints the results of commands to the user.
type Printer struct {
	out     io.Writer
	isQuiet bool
}

// NewPrinter returns a Printer writing to cfg.Stdout (or os.Stdout if not set).
func NewPrinter(cfg commands.Config) *Printer {
	out := cfg.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &Printer{
		out:     out,
		isQuiet: cfg.IsQuiet,
	}
}

// PrintEntry prints one line per manifest entry. It is compatible with
// otausync.OptionOnEntry.
func (p *Printer) PrintEntry(_ context.Context, entry otausync.Entry) {
	if p.isQuiet {
		return
	}

	name := entry.Filename
	if name == "" {
		name = entry.Record.BinaryURL
	}

	var details string
	switch {
	case entry.Err != nil:
		details = entry.Err.Error()
	case entry.Outcome == otausync.OutcomeDownloaded:
		details = humanize.Bytes(uint64(entry.Size))
	case entry.Record.FileSize != nil && *entry.Record.FileSize > 0:
		details = humanize.Bytes(uint64(*entry.Record.FileSize))
	}

	outcome := fmt.Sprintf("%-15s", entry.Outcome)
	if c := outcomeColor[entry.Outcome]; c != nil {
		outcome = c.Sprint(outcome)
	}

	if details == "" {
		fmt.Fprintf(p.out, "%s %s\n", outcome, name)
		return
	}
	fmt.Fprintf(p.out, "%s %s\t%s\n", outcome, name, details)
}

// PrintSummary prints the totals of a sync run.
func (p *Printer) PrintSummary(report *otausync.Report) {
	if p.isQuiet {
		return
	}
	fmt.Fprintf(p.out, "%d manifest records, %d with a firmware file: %d downloaded, %d already present, %d failed",
		report.Records,
		len(report.Entries),
		report.Count(otausync.OutcomeDownloaded),
		report.Count(otausync.OutcomeAlreadyPresent),
		report.Count(otausync.OutcomeFailed),
	)
	if n := report.Count(otausync.OutcomeWouldDownload); n > 0 {
		fmt.Fprintf(p.out, ", %d to download", n)
	}
	fmt.Fprintf(p.out, " (%s)\n", report.Dir)
}
