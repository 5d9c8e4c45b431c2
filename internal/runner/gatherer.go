package runner

import (
	"time"

	"github.com/contestcli/judge/internal/verdict"
)

// Gatherer receives live progress from a run. The whole UI coupling of the
// runner goes through this interface; implementations must not retain the
// slices they are handed between calls (the runner clones them per event).
type Gatherer interface {
	// StartRun is emitted once, before compilation begins.
	StartRun(compileCount, runCount int)

	// CompileSnapshot is emitted after every compile artifact completes.
	CompileSnapshot(compile []verdict.CompileVerdict)

	// CompileFailed is the terminal event when any artifact fails to
	// compile; the run phase never starts.
	CompileFailed(failedArtifacts []string, elapsed time.Duration)

	// RunSnapshot is emitted after every run unit completes. In-flight
	// units show as Running.
	RunSnapshot(compile []verdict.CompileVerdict, runs []verdict.RunVerdict, unitIDs []string)

	// FinishRun is the terminal event of a fully judged run.
	FinishRun(res Result)
}

// UnitResult is the final outcome of one run unit.
type UnitResult struct {
	ID       string
	Verdict  verdict.RunVerdict
	Input    string
	Expected string
	Actual   string
	Reason   string // checker's reason, set for WrongAnswer
}

// Result is the aggregated outcome of a run, in original testcase order.
type Result struct {
	State           State
	Overall         verdict.RunVerdict
	CompileVerdicts []verdict.CompileVerdict
	FailedArtifacts []string
	Units           []UnitResult
	Elapsed         time.Duration
}
