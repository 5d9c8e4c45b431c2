package termgath_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/contestcli/judge/internal/gath/termgath"
	"github.com/contestcli/judge/internal/runner"
	"github.com/contestcli/judge/internal/verdict"
)

func plainColors(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestFinishRunReport(t *testing.T) {
	plainColors(t)
	var buf bytes.Buffer
	g := termgath.New(&buf)

	g.FinishRun(runner.Result{
		State:   runner.Finished,
		Overall: verdict.WrongAnswer,
		Units: []runner.UnitResult{
			{ID: "1", Verdict: verdict.Accepted},
			{
				ID:       "2-1",
				Verdict:  verdict.WrongAnswer,
				Input:    "1\n5\n",
				Expected: "6\n",
				Actual:   "7\n",
				Reason:   `Expected "6", got "7" at token 1`,
			},
			{ID: "3", Verdict: verdict.TimeLimitExceeded, Input: "big\n"},
		},
		Elapsed: 1500 * time.Millisecond,
	})

	out := buf.String()
	// accepted units get a header line and nothing else
	require.Contains(t, out, "1: AC\n")
	require.NotContains(t, out, "1: AC\n  ")
	require.Contains(t, out, "2-1: WA")
	require.Contains(t, out, `reason: Expected "6", got "7" at token 1`)
	require.Contains(t, out, "    1\n    5\n")
	require.Contains(t, out, "3: TLE")
	require.Contains(t, out, "WA in 1.5s")
}

func TestProgressLines(t *testing.T) {
	plainColors(t)
	var buf bytes.Buffer
	g := termgath.New(&buf)

	g.StartRun(2, 3)
	g.CompileSnapshot([]verdict.CompileVerdict{verdict.CompileSuccess, verdict.Compiling})
	g.RunSnapshot(
		[]verdict.CompileVerdict{verdict.CompileSuccess, verdict.CompileSuccess},
		[]verdict.RunVerdict{verdict.Accepted, verdict.Running, verdict.Running},
		[]string{"1", "2", "3"},
	)
	g.CompileFailed([]string{"checker"}, 90*time.Millisecond)

	out := buf.String()
	require.Contains(t, out, "compiling 2, running 3")
	require.Contains(t, out, "compile [OK ...]")
	require.Contains(t, out, "1 AC | 2 ... | 3 ...")
	require.Contains(t, out, "compilation error: checker (90ms)")
}
