package execution_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contestcli/judge/internal/execution"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755)
	require.NoError(t, err)
	return path
}

func TestExecuteCapturesStreams(t *testing.T) {
	s := execution.New(execution.Config{}, nil)

	res, err := s.Execute([]string{"sh", "-c", "echo out; echo err >&2; exit 3"}, nil)
	require.NoError(t, err)
	require.Equal(t, "out\n", res.Stdout)
	require.Equal(t, "err\n", res.Stderr)
	require.Equal(t, 3, res.ExitCode)
}

func TestExecutePipesStdin(t *testing.T) {
	s := execution.New(execution.Config{}, nil)

	stdin := "hello\n"
	res, err := s.Execute([]string{"cat"}, &stdin)
	require.NoError(t, err)
	require.Equal(t, "hello\n", res.Stdout)
	require.Equal(t, 0, res.ExitCode)
}

func TestExecuteMissingBinary(t *testing.T) {
	s := execution.New(execution.Config{}, nil)

	_, err := s.Execute([]string{"/nonexistent/binary"}, nil)
	require.Error(t, err)
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	compiler := writeScript(t, dir, "fakecc.sh", `cp "$1" "$3"`+"\n")
	s := execution.New(execution.Config{CompilerArgs: []string{compiler}}, nil)

	src := writeScript(t, dir, "sol.sh", "cat\n")
	out := filepath.Join(dir, "sol.out")
	require.True(t, s.Compile(src, out).Success)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "#!/bin/sh\ncat\n", string(data))

	broken := writeScript(t, dir, "brokencc.sh", "exit 1\n")
	s = execution.New(execution.Config{CompilerArgs: []string{broken}}, nil)
	require.False(t, s.Compile(src, out).Success)
}

func TestRunOutcomes(t *testing.T) {
	dir := t.TempDir()
	s := execution.New(execution.Config{}, nil)

	echo := writeScript(t, dir, "echo.sh", "cat\n")
	res := s.Run(echo, "42\n", 1)
	require.Equal(t, execution.RunSuccess, res.Outcome)
	require.Equal(t, "42\n", res.Output)

	crash := writeScript(t, dir, "crash.sh", "exit 7\n")
	res = s.Run(crash, "", 1)
	require.Equal(t, execution.RunRuntimeError, res.Outcome)

	slow := writeScript(t, dir, "slow.sh", "sleep 5\n")
	res = s.Run(slow, "", 0.1)
	require.Equal(t, execution.RunTimeLimitExceeded, res.Outcome)
}
