// Package natsgath streams run progress to a NATS subject so another
// terminal or machine can follow a run live.
package natsgath

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/contestcli/judge/api"
	"github.com/contestcli/judge/internal/runner"
	"github.com/contestcli/judge/internal/verdict"
)

type natsGatherer struct {
	nc      *nats.Conn
	subject string
	runUuid string
	log     *slog.Logger
}

// New creates a NATS gatherer that publishes progress messages to subject.
// Every run gets a fresh uuid so subscribers can tell runs apart.
func New(nc *nats.Conn, subject string, log *slog.Logger) runner.Gatherer {
	return &natsGatherer{
		nc:      nc,
		subject: subject,
		runUuid: uuid.NewString(),
		log:     log,
	}
}

func (g *natsGatherer) header(t api.MsgType) api.Header {
	return api.Header{RunUuid: g.runUuid, MsgType: t}
}

func (g *natsGatherer) StartRun(compileCount, runCount int) {
	g.send(api.RunStart{
		Header:       g.header(api.RunStartMsg),
		CompileCount: compileCount,
		RunCount:     runCount,
		StartedTime:  time.Now().Format(time.RFC3339),
	})
}

func (g *natsGatherer) CompileSnapshot(compile []verdict.CompileVerdict) {
	g.send(api.CompileSnap{
		Header:   g.header(api.CompileSnapMsg),
		Verdicts: compileStrings(compile),
	})
}

func (g *natsGatherer) CompileFailed(failedArtifacts []string, elapsed time.Duration) {
	g.send(api.CompileFailed{
		Header:          g.header(api.CompileFailedMsg),
		FailedArtifacts: failedArtifacts,
		ElapsedMillis:   elapsed.Milliseconds(),
	})
}

func (g *natsGatherer) RunSnapshot(compile []verdict.CompileVerdict, runs []verdict.RunVerdict, unitIDs []string) {
	runStrs := make([]string, len(runs))
	for i, v := range runs {
		runStrs[i] = v.String()
	}
	g.send(api.RunSnap{
		Header:          g.header(api.RunSnapMsg),
		CompileVerdicts: compileStrings(compile),
		RunVerdicts:     runStrs,
		UnitIds:         unitIDs,
	})
}

func (g *natsGatherer) FinishRun(res runner.Result) {
	g.send(g.runFinishMsg(res))
}

// runFinishMsg reports every unit; accepted and checker-failure units carry
// the header fields only.
func (g *natsGatherer) runFinishMsg(res runner.Result) api.RunFinish {
	msg := api.RunFinish{
		Header:        g.header(api.RunFinishMsg),
		Overall:       res.Overall.String(),
		ElapsedMillis: res.Elapsed.Milliseconds(),
	}
	for _, unit := range res.Units {
		report := api.UnitReport{UnitId: unit.ID, Verdict: unit.Verdict.String()}
		switch unit.Verdict {
		case verdict.WrongAnswer:
			report.Reason = trimmed(unit.Reason)
			report.Input = trimmed(unit.Input)
			report.Actual = trimmed(unit.Actual)
			report.Expected = trimmed(unit.Expected)
		case verdict.RuntimeError, verdict.TimeLimitExceeded:
			report.Input = trimmed(unit.Input)
		}
		msg.Units = append(msg.Units, report)
	}
	return msg
}

func compileStrings(compile []verdict.CompileVerdict) []string {
	strs := make([]string, len(compile))
	for i, v := range compile {
		strs[i] = v.String()
	}
	return strs
}

func trimmed(s string) *string {
	if s == "" {
		return nil
	}
	t := trimStrToRect(s, api.MaxContentHeight, api.MaxContentWidth)
	return &t
}
