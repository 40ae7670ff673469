package report

import (
	"fmt"
	"io"

	"github.com/faanross/zoneverify/internal/compare"
	"github.com/fatih/color"
	"github.com/miekg/dns"
)

// Reporter consumes comparison outcomes as the run produces them. The runner
// calls Record once per compared zone record, in zone order, then Summary
// exactly once.
type Reporter interface {
	Record(out compare.Outcome)
	Summary(matches, mismatches int)
}

func banner(matched bool) string {
	if matched {
		return color.GreenString("[Match]")
	}
	return color.RedString("[MIS-MATCH]")
}

// Console writes progress to a terminal: one character per record in normal
// mode, a detail block per record in verbose mode, and a final results
// summary either way.
type Console struct {
	w       io.Writer
	verbose bool
	server  string // shown in verbose query lines
}

// NewConsole creates a Console reporter writing to w. server is the
// nameserver address being queried, for display only.
func NewConsole(w io.Writer, server string, verbose bool) *Console {
	return &Console{w: w, verbose: verbose, server: server}
}

// Record implements Reporter. In normal mode each record contributes a
// single unbuffered character so progress is visible during long runs.
func (c *Console) Record(out compare.Outcome) {
	if !c.verbose {
		if out.Matched {
			fmt.Fprint(c.w, ".")
		} else {
			fmt.Fprint(c.w, "X")
		}
		return
	}

	hdr := out.Expected.Header()
	fmt.Fprintln(c.w, "----")
	fmt.Fprintf(c.w, "%s querying %s: name='%s' type='%s' class='%s' ...\n",
		banner(out.Matched), c.server, hdr.Name, dns.TypeToString[hdr.Rrtype], dns.ClassToString[hdr.Class])
	fmt.Fprintf(c.w, "Expected:  %s\n", out.Expected)
	fmt.Fprintf(c.w, "Got     :  %s\n", out.ActualString())
}

// Summary implements Reporter.
func (c *Console) Summary(matches, mismatches int) {
	fmt.Fprintln(c.w, "done")
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, "Results:")
	fmt.Fprintf(c.w, "Matches:      %d\n", matches)
	fmt.Fprintf(c.w, "Mis-matches:  %d\n", mismatches)

	if !c.verbose && mismatches > 0 {
		fmt.Fprintln(c.w, " (re-run with --verbose to see details of the mis-matches )")
	}
}
