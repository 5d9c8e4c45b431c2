// Package api defines the JSON messages streamed by the NATS progress sink.
package api

// MsgType is a message type for streaming progress
type MsgType string

// Streaming message type constants
const (
	RunStartMsg      MsgType = "run_start"
	CompileSnapMsg   MsgType = "compile_snapshot"
	CompileFailedMsg MsgType = "compile_failed"
	RunSnapMsg       MsgType = "run_snapshot"
	RunFinishMsg     MsgType = "run_finish"
)

// Content size constraints for streamed testcase IO
const (
	MaxContentHeight = 40
	MaxContentWidth  = 80
)

// Header is the common header for all streaming messages
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// RunStart message sent before compilation begins
type RunStart struct {
	Header
	CompileCount int    `json:"compile_count"`
	RunCount     int    `json:"run_count"`
	StartedTime  string `json:"started_time"`
}

// CompileSnap message sent after each compile artifact completes
type CompileSnap struct {
	Header
	Verdicts []string `json:"verdicts"`
}

// CompileFailed message sent when compilation fails and the run is aborted
type CompileFailed struct {
	Header
	FailedArtifacts []string `json:"failed_artifacts"`
	ElapsedMillis   int64    `json:"elapsed_ms"`
}

// RunSnap message sent after each run unit completes
type RunSnap struct {
	Header
	CompileVerdicts []string `json:"compile_verdicts"`
	RunVerdicts     []string `json:"run_verdicts"`
	UnitIds         []string `json:"unit_ids"`
}

// UnitReport is one non-accepted unit in the final report
type UnitReport struct {
	UnitId   string  `json:"unit_id"`
	Verdict  string  `json:"verdict"`
	Reason   *string `json:"reason"`
	Input    *string `json:"input"`
	Actual   *string `json:"actual"`
	Expected *string `json:"expected"`
}

// RunFinish message sent when every unit has been judged
type RunFinish struct {
	Header
	Overall       string       `json:"overall"`
	Units         []UnitReport `json:"units"`
	ElapsedMillis int64        `json:"elapsed_ms"`
}
