// Package checker implements the pluggable output oracles: token equality,
// case-insensitive yes/no, and an external custom checker binary.
package checker

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/contestcli/judge/internal/execution"
)

// Outcome is the verdict of one check.
type Outcome int

const (
	Accepted Outcome = iota
	WrongAnswer
	RuntimeError      // the checker process itself failed
	TimeLimitExceeded // the checker process itself timed out
)

// Result carries the outcome and, for WrongAnswer, a human-readable reason.
type Result struct {
	Outcome Outcome
	Reason  string
}

// Checker decides whether the actual output of one run unit is correct.
// Code returns the one-char discriminant used in persisted config.
type Checker interface {
	Check(input, expected, actual string, timeLimitSec float64) Result
	Code() byte
}

// Parse restores a checker from its one-char discriminant. A custom checker
// needs its source path and the supporting services.
func Parse(code byte, source string, exec *execution.Service, cache *Cache) (Checker, error) {
	switch code {
	case 't':
		return Token{}, nil
	case 'y':
		return YesNo{}, nil
	case 'c':
		if source == "" {
			return nil, fmt.Errorf("custom checker needs a source file")
		}
		return NewCustom(source, exec, cache), nil
	}
	return nil, fmt.Errorf("unknown checker code %q", code)
}

// Token compares outputs as whitespace-separated token sequences.
type Token struct{}

func (Token) Code() byte { return 't' }

// Check ignores the time limit since no subprocess is involved.
func (Token) Check(input, expected, actual string, timeLimitSec float64) Result {
	expTokens := strings.Fields(expected)
	actTokens := strings.Fields(actual)

	if len(expTokens) != len(actTokens) {
		return Result{
			Outcome: WrongAnswer,
			Reason:  fmt.Sprintf("Expected %d tokens, got %d", len(expTokens), len(actTokens)),
		}
	}
	for i := range expTokens {
		if expTokens[i] != actTokens[i] {
			return Result{
				Outcome: WrongAnswer,
				Reason: fmt.Sprintf("Expected %q, got %q at token %d",
					expTokens[i], actTokens[i], i+1),
			}
		}
	}
	return Result{Outcome: Accepted}
}

var yesNoTokens = mapset.NewSet("yes", "no")

// YesNo compares yes/no outputs ignoring case. To be used when the expected
// output only contains yes/no tokens.
type YesNo struct{}

func (YesNo) Code() byte { return 'y' }

func (YesNo) Check(input, expected, actual string, timeLimitSec float64) Result {
	lowerActual := strings.ToLower(actual)
	for i, token := range strings.Fields(lowerActual) {
		if !yesNoTokens.Contains(token) {
			return Result{
				Outcome: WrongAnswer,
				Reason:  fmt.Sprintf(`Expected "yes"/"no", got %q at token %d`, token, i+1),
			}
		}
	}
	return Token{}.Check(input, strings.ToLower(expected), lowerActual, timeLimitSec)
}

// ioDelim separates input, actual output and expected output on the custom
// checker's stdin so it can assert it reads the right stream.
const ioDelim = "---"

// Custom wraps an external checker binary compiled from Source. The binary
// reads input, actual output and expected output joined with "---" delimiter
// lines, prints nothing to accept, or a nonempty reason to reject.
type Custom struct {
	Source string

	exec   *execution.Service
	cache  *Cache
	binary string
}

func NewCustom(source string, exec *execution.Service, cache *Cache) *Custom {
	return &Custom{Source: source, exec: exec, cache: cache}
}

func (*Custom) Code() byte { return 'c' }

// CompileSelf resolves the compiled checker binary, building it if needed.
// Must complete before Check is called.
func (c *Custom) CompileSelf() error {
	bin, err := c.cache.Executable(c.Source)
	if err != nil {
		return err
	}
	c.binary = bin
	return nil
}

// Check runs the checker binary with triple the candidate's time limit, since
// the checker re-reads the doubled output.
func (c *Custom) Check(input, expected, actual string, timeLimitSec float64) Result {
	if c.binary == "" {
		panic("custom checker used before CompileSelf")
	}

	stdin := strings.Join([]string{input, actual, expected}, "\n"+ioDelim+"\n")
	run := c.exec.Run(c.binary, stdin, 3*timeLimitSec)

	switch run.Outcome {
	case execution.RunRuntimeError:
		return Result{Outcome: RuntimeError}
	case execution.RunTimeLimitExceeded:
		return Result{Outcome: TimeLimitExceeded}
	}

	if run.Output == "" {
		return Result{Outcome: Accepted}
	}
	return Result{Outcome: WrongAnswer, Reason: run.Output}
}
