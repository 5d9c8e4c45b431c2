// Package execution invokes external processes: the compiler, the candidate
// binary and custom checker binaries. Run enforces its wall-clock deadline
// through an external timeout wrapper, so a timed-out child is killed at the
// OS level rather than cooperatively.
package execution

import (
	"bytes"
	"errors"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// timeoutExitCode is what the timeout wrapper exits with when the wrapped
// command exceeds its deadline.
const timeoutExitCode = 124

// Config holds the toolchain invocation. The defaults compile C++20 with g++
// and wrap runs in coreutils timeout; both are configuration, not contract.
type Config struct {
	CompilerArgs []string `toml:"compiler_args"`
	TimeoutBin   string   `toml:"timeout_bin"`
}

func DefaultConfig() Config {
	return Config{
		CompilerArgs: []string{"g++", "-std=c++20", "-O2"},
		TimeoutBin:   "timeout",
	}
}

type Service struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Service {
	if len(cfg.CompilerArgs) == 0 {
		cfg.CompilerArgs = DefaultConfig().CompilerArgs
	}
	if cfg.TimeoutBin == "" {
		cfg.TimeoutBin = DefaultConfig().TimeoutBin
	}
	return &Service{cfg: cfg, log: log}
}

// ExecResult is the raw outcome of one child process.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Execute runs argv with optional stdin and captures stdout, stderr and the
// exit code. A nonzero exit code is not an error; only failing to run the
// process at all is.
func (s *Service) Execute(argv []string, stdin *string) (ExecResult, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	if stdin != nil {
		cmd.Stdin = strings.NewReader(*stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return ExecResult{}, err
		}
	}

	return ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

// CompileResult reports whether a source file compiled.
type CompileResult struct {
	Success bool
}

// Compile builds source into output with the configured compiler. Success iff
// the compiler exits 0; stderr is not inspected here.
func (s *Service) Compile(source, output string) CompileResult {
	argv := make([]string, 0, len(s.cfg.CompilerArgs)+3)
	argv = append(argv, s.cfg.CompilerArgs...)
	argv = append(argv, source, "-o", output)

	res, err := s.Execute(argv, nil)
	if err != nil {
		if s.log != nil {
			s.log.Error("failed to invoke compiler", "source", source, "error", err)
		}
		return CompileResult{Success: false}
	}
	return CompileResult{Success: res.ExitCode == 0}
}

// RunOutcome classifies one run of a compiled binary.
type RunOutcome int

const (
	RunSuccess RunOutcome = iota
	RunRuntimeError
	RunTimeLimitExceeded
)

// RunResult is the outcome of Run. Output holds the captured stdout and is
// only meaningful on RunSuccess.
type RunResult struct {
	Outcome RunOutcome
	Output  string
}

// Run executes the binary with stdin piped in under a hard wall-clock limit.
func (s *Service) Run(executable string, stdin string, timeLimitSec float64) RunResult {
	limit := strconv.FormatFloat(timeLimitSec, 'f', -1, 64)
	res, err := s.Execute([]string{s.cfg.TimeoutBin, limit, executable}, &stdin)
	if err != nil {
		if s.log != nil {
			s.log.Error("failed to invoke binary", "executable", executable, "error", err)
		}
		return RunResult{Outcome: RunRuntimeError}
	}

	switch res.ExitCode {
	case 0:
		return RunResult{Outcome: RunSuccess, Output: res.Stdout}
	case timeoutExitCode:
		return RunResult{Outcome: RunTimeLimitExceeded}
	default:
		return RunResult{Outcome: RunRuntimeError}
	}
}
