// Package testcase owns the testcase model: each testcase's input/output
// content, its optional multitest decomposition and the splitting heuristics.
// Content lives behind the storage collaborator; this package never touches
// the filesystem directly.
package testcase

import (
	"fmt"

	"github.com/contestcli/judge/internal/storage"
)

// Kind says where a testcase came from.
type Kind int

const (
	Scraped Kind = iota
	UserAdded
	Random
)

// Mode selects how testcases are flattened into run units.
type Mode int

const (
	ModeOne      Mode = iota // run each testcase whole
	ModeMultiple             // split into subtests where possible
)

// IOPair is an owned pair of content handles.
type IOPair struct {
	Input  storage.Handle
	Output storage.Handle
}

// TestCase is one testcase. Multi is present iff the testcase was scraped;
// its content may still be invalid until split correctly.
type TestCase struct {
	ID     int
	Kind   Kind
	Entire IOPair
	Multi  *IOPair

	store storage.Store
}

// RunUnit is one flattened judging item.
type RunUnit struct {
	ID     string // "{id}" or "{id}-{sub}"
	Input  string
	Output string
}

func entirePair(id int) IOPair {
	return IOPair{
		Input:  storage.Handle(fmt.Sprintf("%d.in", id)),
		Output: storage.Handle(fmt.Sprintf("%d.out", id)),
	}
}

func multiPair(id int) *IOPair {
	return &IOPair{
		Input:  storage.Handle(fmt.Sprintf("%dm.in", id)),
		Output: storage.Handle(fmt.Sprintf("%dm.out", id)),
	}
}

// CheckMultitestMode reports whether the testcase may run in ModeMultiple.
// Non-scraped testcases always may (they yield their single unit); scraped
// ones must have both multitest files split correctly.
func (tc *TestCase) CheckMultitestMode() (bool, error) {
	if tc.Kind != Scraped {
		return true, nil
	}

	inOk, err := tc.multitestInputValid()
	if err != nil || !inOk {
		return false, err
	}
	return tc.multitestOutputValid()
}

// RunUnits flattens the testcase for the given mode. ModeMultiple on a
// scraped testcase that has not passed its multitest check is a programmer
// error: callers must gate on CheckMultitestMode first.
func (tc *TestCase) RunUnits(mode Mode) ([]RunUnit, error) {
	if mode == ModeOne || tc.Kind != Scraped {
		input, err := tc.store.Read(tc.Entire.Input)
		if err != nil {
			return nil, err
		}
		output, err := tc.store.Read(tc.Entire.Output)
		if err != nil {
			return nil, err
		}
		return []RunUnit{{
			ID:     fmt.Sprintf("%d", tc.ID),
			Input:  string(input),
			Output: string(output),
		}}, nil
	}

	ok, err := tc.CheckMultitestMode()
	if err != nil {
		return nil, err
	}
	if !ok {
		panic(fmt.Sprintf("testcase %d: multiple mode requested without a passing multitest check", tc.ID))
	}

	inGroups, err := tc.multitestGroups(tc.Multi.Input)
	if err != nil {
		return nil, err
	}
	outGroups, err := tc.multitestGroups(tc.Multi.Output)
	if err != nil {
		return nil, err
	}

	// inGroups[0] is the count line; each subtest gets a count line of 1
	// injected so the candidate sees a single-test-shaped input.
	units := make([]RunUnit, 0, len(outGroups))
	for sub, outGroup := range outGroups {
		units = append(units, RunUnit{
			ID:     fmt.Sprintf("%d-%d", tc.ID, sub+1),
			Input:  "1\n" + inGroups[sub+1],
			Output: outGroup,
		})
	}
	return units, nil
}

// Delete removes all owned content. Scraped testcases may never be deleted.
func (tc *TestCase) Delete() error {
	if tc.Kind == Scraped {
		panic(fmt.Sprintf("testcase %d: scraped testcases may not be deleted", tc.ID))
	}

	if err := tc.store.Delete(tc.Entire.Input); err != nil {
		return err
	}
	return tc.store.Delete(tc.Entire.Output)
}
