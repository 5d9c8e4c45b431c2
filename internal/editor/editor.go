// Package editor shells out to the user's text editor and terminal emulator.
package editor

import (
	"fmt"
	"os"
	"os/exec"
)

// ExecEditor edits content by writing it to a temp file, opening the
// configured editor on it and reading the file back once the editor exits.
type ExecEditor struct {
	argv []string
}

func New(argv []string) *ExecEditor {
	return &ExecEditor{argv: argv}
}

func (e *ExecEditor) Edit(content []byte) ([]byte, error) {
	if len(e.argv) == 0 {
		return nil, fmt.Errorf("no editor configured")
	}

	tmp, err := os.CreateTemp("", "judge-edit-*.txt")
	if err != nil {
		return nil, err
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	argv := append(append([]string{}, e.argv...), path)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("editor exited with error: %w", err)
	}

	return os.ReadFile(path)
}

// ExecTerminal opens an interactive terminal session on a binary, for custom
// invocation.
type ExecTerminal struct {
	argv []string
}

func NewTerminal(argv []string) *ExecTerminal {
	return &ExecTerminal{argv: argv}
}

func (t *ExecTerminal) OpenSession(executable string) error {
	if len(t.argv) == 0 {
		// no terminal emulator configured, run attached to this one
		cmd := exec.Command(executable)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	argv := append(append([]string{}, t.argv...), executable)
	return exec.Command(argv[0], argv[1:]...).Start()
}
