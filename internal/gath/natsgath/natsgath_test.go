package natsgath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contestcli/judge/internal/runner"
	"github.com/contestcli/judge/internal/verdict"
)

func TestRunFinishMsgReportsEveryUnit(t *testing.T) {
	g := &natsGatherer{runUuid: "run-1"}

	msg := g.runFinishMsg(runner.Result{
		State:   runner.Finished,
		Overall: verdict.WrongAnswer,
		Units: []runner.UnitResult{
			{ID: "1", Verdict: verdict.Accepted, Input: "in\n", Actual: "out\n"},
			{
				ID:       "2",
				Verdict:  verdict.WrongAnswer,
				Input:    "in\n",
				Expected: "a\n",
				Actual:   "b\n",
				Reason:   `Expected "a", got "b" at token 1`,
			},
			{ID: "3", Verdict: verdict.CheckerRuntimeError, Input: "in\n"},
		},
		Elapsed: 2 * time.Second,
	})

	require.Equal(t, "run-1", msg.RunUuid)
	require.Equal(t, "WA", msg.Overall)
	require.Len(t, msg.Units, 3)

	// accepted and checker-failure units carry the header fields only
	require.Equal(t, "AC", msg.Units[0].Verdict)
	require.Nil(t, msg.Units[0].Input)
	require.Nil(t, msg.Units[0].Actual)

	require.Equal(t, "WA", msg.Units[1].Verdict)
	require.NotNil(t, msg.Units[1].Reason)
	require.NotNil(t, msg.Units[1].Input)

	require.Equal(t, "CRE", msg.Units[2].Verdict)
	require.Nil(t, msg.Units[2].Input)
}
