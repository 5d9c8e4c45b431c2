package testcase

import "fmt"

// Editor is the external text-editor collaborator: it receives the current
// file content and returns the edited content.
type Editor interface {
	Edit(content []byte) ([]byte, error)
}

// MultitestFile selects which of the two multitest files to edit.
type MultitestFile int

const (
	MultitestInput MultitestFile = iota
	MultitestOutput
)

// EditMultitest hands one multitest file to the editor and stores the result.
// Validity is re-derived on the next check, so a bad edit only shows up there.
func (tc *TestCase) EditMultitest(ed Editor, file MultitestFile) error {
	if tc.Kind != Scraped {
		panic(fmt.Sprintf("testcase %d: only scraped testcases have multitests", tc.ID))
	}

	h := tc.Multi.Input
	if file == MultitestOutput {
		h = tc.Multi.Output
	}

	content, err := tc.store.Read(h)
	if err != nil {
		return err
	}
	edited, err := ed.Edit(content)
	if err != nil {
		return fmt.Errorf("editor failed on %s: %w", h, err)
	}
	return tc.store.Write(h, edited)
}

// EditMultitests edits both files. With necessaryOnly set, files that already
// pass their validity check are skipped.
func (tc *TestCase) EditMultitests(ed Editor, necessaryOnly bool) error {
	if tc.Kind != Scraped {
		panic(fmt.Sprintf("testcase %d: only scraped testcases have multitests", tc.ID))
	}

	inValid, err := tc.multitestInputValid()
	if err != nil {
		return err
	}
	if !necessaryOnly || !inValid {
		if err := tc.EditMultitest(ed, MultitestInput); err != nil {
			return err
		}
	}

	outValid, err := tc.multitestOutputValid()
	if err != nil {
		return err
	}
	if !necessaryOnly || !outValid {
		if err := tc.EditMultitest(ed, MultitestOutput); err != nil {
			return err
		}
	}
	return nil
}
