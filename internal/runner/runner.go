// Package runner orchestrates a compile phase and a run phase over a
// testcase set: one goroutine per compile artifact and per run unit, each
// writing its own pre-sized verdict slot exactly once and signalling a
// completion channel the orchestrator drains. No other state is shared.
package runner

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/contestcli/judge/internal/checker"
	"github.com/contestcli/judge/internal/execution"
	"github.com/contestcli/judge/internal/testcase"
	"github.com/contestcli/judge/internal/verdict"
)

// State of a run.
type State int

const (
	Idle State = iota
	Compiling
	CompileFailed
	Running
	Finished
)

const solutionArtifact = "solution"
const checkerArtifact = "checker"

type Runner struct {
	exec *execution.Service
	log  *slog.Logger
}

func New(exec *execution.Service, log *slog.Logger) *Runner {
	return &Runner{exec: exec, log: log}
}

// Params describes one run.
type Params struct {
	Set          *testcase.Set
	Mode         testcase.Mode
	Source       string // candidate source file
	Output       string // candidate binary to produce
	TimeLimitSec float64
	Checker      checker.Checker
}

type artifact struct {
	name    string
	compile func() bool
}

// Run judges the candidate over the flattened testcase set, streaming
// progress to gath. Once launched a run proceeds to completion of every
// unit; there is no cancellation.
func (r *Runner) Run(p Params, gath Gatherer) (Result, error) {
	start := time.Now()

	units, err := p.Set.RunUnits(p.Mode)
	if err != nil {
		return Result{}, fmt.Errorf("failed to flatten testcases: %w", err)
	}
	unitIDs := make([]string, len(units))
	for i, u := range units {
		unitIDs[i] = u.ID
	}

	artifacts := []artifact{{
		name:    solutionArtifact,
		compile: func() bool { return r.exec.Compile(p.Source, p.Output).Success },
	}}
	if custom, ok := p.Checker.(*checker.Custom); ok {
		artifacts = append(artifacts, artifact{
			name: checkerArtifact,
			compile: func() bool {
				if err := custom.CompileSelf(); err != nil {
					if r.log != nil {
						r.log.Warn("checker compilation failed", "error", err)
					}
					return false
				}
				return true
			},
		})
	}

	gath.StartRun(len(artifacts), len(units))

	// compile phase: one goroutine per artifact, single-writer slots, one
	// completion signal each
	compileVerdicts := make([]verdict.CompileVerdict, len(artifacts))
	compileDone := make(chan int, len(artifacts))
	for i, a := range artifacts {
		go func() {
			if a.compile() {
				compileVerdicts[i] = verdict.CompileSuccess
			} else {
				compileVerdicts[i] = verdict.CompilationError
			}
			compileDone <- i
		}()
	}

	// the orchestrator's view of the slots; slot i is read only after its
	// completion signal arrived
	compileSnap := make([]verdict.CompileVerdict, len(artifacts))
	for range artifacts {
		i := <-compileDone
		compileSnap[i] = compileVerdicts[i]
		gath.CompileSnapshot(slices.Clone(compileSnap))
	}

	var failed []string
	for i, a := range artifacts {
		if compileSnap[i] == verdict.CompilationError {
			failed = append(failed, a.name)
		}
	}
	if len(failed) > 0 {
		elapsed := time.Since(start)
		gath.CompileFailed(slices.Clone(failed), elapsed)
		return Result{
			State:           CompileFailed,
			CompileVerdicts: compileSnap,
			FailedArtifacts: failed,
			Elapsed:         elapsed,
		}, nil
	}

	// run phase: one goroutine per unit, unbounded fan-out; the process and
	// timeout cost dominates, not goroutine count
	runVerdicts := make([]verdict.RunVerdict, len(units))
	actuals := make([]string, len(units))
	reasons := make([]string, len(units))
	runDone := make(chan int, len(units))

	for i, unit := range units {
		go func() {
			runVerdicts[i], actuals[i], reasons[i] = r.judgeUnit(unit, p)
			runDone <- i
		}()
	}

	runSnap := make([]verdict.RunVerdict, len(units))
	overall := verdict.Accepted
	for range units {
		i := <-runDone
		runSnap[i] = runVerdicts[i]
		// the representative failure is whichever non-accepted unit
		// finishes first; this is scheduler-dependent on purpose
		if runSnap[i] != verdict.Accepted && overall == verdict.Accepted {
			overall = runSnap[i]
		}
		gath.RunSnapshot(slices.Clone(compileSnap), slices.Clone(runSnap), unitIDs)
	}

	res := Result{
		State:           Finished,
		Overall:         overall,
		CompileVerdicts: compileSnap,
		Units:           make([]UnitResult, len(units)),
		Elapsed:         time.Since(start),
	}
	for i, unit := range units {
		res.Units[i] = UnitResult{
			ID:       unit.ID,
			Verdict:  runVerdicts[i],
			Input:    unit.Input,
			Expected: unit.Output,
			Actual:   actuals[i],
			Reason:   reasons[i],
		}
	}
	gath.FinishRun(res)
	return res, nil
}

// judgeUnit runs the candidate on one unit and, on success, consults the
// checker. RuntimeError and TimeLimitExceeded finish immediately.
func (r *Runner) judgeUnit(unit testcase.RunUnit, p Params) (verdict.RunVerdict, string, string) {
	run := r.exec.Run(p.Output, unit.Input, p.TimeLimitSec)
	switch run.Outcome {
	case execution.RunRuntimeError:
		return verdict.RuntimeError, "", ""
	case execution.RunTimeLimitExceeded:
		return verdict.TimeLimitExceeded, "", ""
	}

	check := p.Checker.Check(unit.Input, unit.Output, run.Output, p.TimeLimitSec)
	switch check.Outcome {
	case checker.WrongAnswer:
		return verdict.WrongAnswer, run.Output, check.Reason
	case checker.RuntimeError:
		return verdict.CheckerRuntimeError, run.Output, ""
	case checker.TimeLimitExceeded:
		return verdict.CheckerTimeLimitExceeded, run.Output, ""
	}
	return verdict.Accepted, run.Output, ""
}

// Terminal is the interactive terminal-session collaborator used by custom
// invocation.
type Terminal interface {
	OpenSession(executable string) error
}

// CustomInvocation compiles a single file and, only on success, hands the
// binary to an interactive terminal session.
func (r *Runner) CustomInvocation(source, output string, term Terminal) (verdict.CompileVerdict, error) {
	if !r.exec.Compile(source, output).Success {
		return verdict.CompilationError, nil
	}
	if err := term.OpenSession(output); err != nil {
		return verdict.CompileSuccess, fmt.Errorf("failed to open terminal session: %w", err)
	}
	return verdict.CompileSuccess, nil
}
