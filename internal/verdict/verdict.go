// Package verdict defines the compile and run verdict enums shared by the
// runner and the progress sinks.
package verdict

// CompileVerdict is the outcome of one compile artifact.
type CompileVerdict int

const (
	Compiling CompileVerdict = iota // still compiling
	CompileSuccess
	CompilationError
)

func (v CompileVerdict) String() string {
	switch v {
	case Compiling:
		return "..."
	case CompileSuccess:
		return "OK"
	case CompilationError:
		return "CE"
	}
	return "??"
}

// RunVerdict is the outcome of one run unit. Running is the transient
// in-flight state shown in progress snapshots.
type RunVerdict int

const (
	Running RunVerdict = iota
	Accepted
	WrongAnswer
	RuntimeError
	TimeLimitExceeded
	CheckerRuntimeError
	CheckerTimeLimitExceeded
)

// String returns the short verdict code used in reports.
func (v RunVerdict) String() string {
	switch v {
	case Running:
		return "..."
	case Accepted:
		return "AC"
	case WrongAnswer:
		return "WA"
	case RuntimeError:
		return "RE"
	case TimeLimitExceeded:
		return "TLE"
	case CheckerRuntimeError:
		return "CRE"
	case CheckerTimeLimitExceeded:
		return "CTLE"
	}
	return "??"
}
