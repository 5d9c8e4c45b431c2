// Package termgath renders run progress and the final report on the
// terminal.
package termgath

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/contestcli/judge/internal/runner"
	"github.com/contestcli/judge/internal/verdict"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	badColor  = color.New(color.FgRed, color.Bold)
	waitColor = color.New(color.FgYellow)
	idColor   = color.New(color.FgCyan)
)

type TerminalGatherer struct {
	out io.Writer
}

func New(out io.Writer) *TerminalGatherer {
	return &TerminalGatherer{out: out}
}

func (t *TerminalGatherer) StartRun(compileCount, runCount int) {
	fmt.Fprintf(t.out, "compiling %d, running %d\n", compileCount, runCount)
}

func (t *TerminalGatherer) CompileSnapshot(compile []verdict.CompileVerdict) {
	fmt.Fprintf(t.out, "compile [%s]\n", compileLine(compile))
}

func (t *TerminalGatherer) CompileFailed(failedArtifacts []string, elapsed time.Duration) {
	fmt.Fprintf(t.out, "%s: %s (%s)\n",
		badColor.Sprint("compilation error"),
		strings.Join(failedArtifacts, ", "),
		elapsed.Round(time.Millisecond))
}

func (t *TerminalGatherer) RunSnapshot(compile []verdict.CompileVerdict, runs []verdict.RunVerdict, unitIDs []string) {
	parts := make([]string, len(runs))
	for i, v := range runs {
		parts[i] = fmt.Sprintf("%s %s", idColor.Sprint(unitIDs[i]), colorRun(v))
	}
	fmt.Fprintf(t.out, "run [%s]\n", strings.Join(parts, " | "))
}

func (t *TerminalGatherer) FinishRun(res runner.Result) {
	for _, unit := range res.Units {
		// accepted and checker-failure units get the header line only
		fmt.Fprintf(t.out, "%s: %s\n", idColor.Sprint(unit.ID), colorRun(unit.Verdict))
		switch unit.Verdict {
		case verdict.WrongAnswer:
			fmt.Fprintf(t.out, "  reason: %s\n", unit.Reason)
			fmt.Fprintf(t.out, "  input:\n%s", indent(unit.Input))
			fmt.Fprintf(t.out, "  actual:\n%s", indent(unit.Actual))
			fmt.Fprintf(t.out, "  expected:\n%s", indent(unit.Expected))
		case verdict.RuntimeError, verdict.TimeLimitExceeded:
			fmt.Fprintf(t.out, "  input:\n%s", indent(unit.Input))
		}
	}
	fmt.Fprintf(t.out, "%s in %s\n", colorRun(res.Overall), res.Elapsed.Round(time.Millisecond))
}

func compileLine(compile []verdict.CompileVerdict) string {
	parts := make([]string, len(compile))
	for i, v := range compile {
		switch v {
		case verdict.Compiling:
			parts[i] = waitColor.Sprint(v.String())
		case verdict.CompileSuccess:
			parts[i] = okColor.Sprint(v.String())
		default:
			parts[i] = badColor.Sprint(v.String())
		}
	}
	return strings.Join(parts, " ")
}

func colorRun(v verdict.RunVerdict) string {
	switch v {
	case verdict.Running:
		return waitColor.Sprint(v.String())
	case verdict.Accepted:
		return okColor.Sprint(v.String())
	}
	return badColor.Sprint(v.String())
}

func indent(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	return "    " + strings.Join(lines, "\n    ") + "\n"
}
