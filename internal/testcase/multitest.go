package testcase

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/contestcli/judge/internal/storage"
)

// Header carried by every persisted multitest file, followed by one blank
// line and then the blank-line-separated groups. The validity check requires
// it verbatim, so a file that lost it is treated as never split.
const multitestHeader = `# multitest file
# groups below this header are separated by one blank line
# input file: group 1 is the subtest count T,
#             groups 2..T+1 are the individual subtest inputs
# output file: exactly T groups, one per subtest
# every token must match the entire testcase exactly
# only the blank lines between groups are yours to move
`

var groupStartTokens = mapset.NewSet("yes", "no")

func stripHeader(content string) (string, bool) {
	prefix := multitestHeader + "\n"
	body, found := strings.CutPrefix(content, prefix)
	return body, found
}

func tokensMatch(a, b string) bool {
	return slices.Equal(strings.Fields(a), strings.Fields(b))
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// subtestCount parses the leading count T of the entire input.
func subtestCount(entireInput string) (int, bool) {
	firstLine, _, _ := strings.Cut(entireInput, "\n")
	if !allDigits(firstLine) {
		return 0, false
	}
	t, err := strconv.Atoi(firstLine)
	if err != nil || t <= 0 {
		return 0, false
	}
	return t, true
}

// validMultitestBody checks the group shape shared by both files: no empty
// groups (a triple-newline run) and exactly wantSeps blank-line separators.
func validMultitestBody(body string, wantSeps int) bool {
	if strings.Contains(body, "\n\n\n") {
		return false
	}
	return strings.Count(body, "\n\n") == wantSeps
}

// multitestInputValid checks the persisted multitest input file: the header
// is intact, the token stream still matches the entire input (guards against
// stale or corrupted edits), the first line is the all-digit count T and the
// body splits into exactly T+1 groups.
func (tc *TestCase) multitestInputValid() (bool, error) {
	content, err := tc.store.Read(tc.Multi.Input)
	if err != nil {
		return false, err
	}
	entire, err := tc.store.Read(tc.Entire.Input)
	if err != nil {
		return false, err
	}

	body, ok := stripHeader(string(content))
	if !ok {
		return false, nil
	}
	if !tokensMatch(body, string(entire)) {
		return false, nil
	}

	firstLine, _, _ := strings.Cut(body, "\n")
	if !allDigits(firstLine) {
		return false, nil
	}
	t, err := strconv.Atoi(firstLine)
	if err != nil {
		return false, nil
	}
	return validMultitestBody(body, t), nil
}

// multitestOutputValid checks the persisted multitest output file. The
// subtest count comes from the entire input's leading count line; the output
// file itself carries no count group.
func (tc *TestCase) multitestOutputValid() (bool, error) {
	content, err := tc.store.Read(tc.Multi.Output)
	if err != nil {
		return false, err
	}
	entireIn, err := tc.store.Read(tc.Entire.Input)
	if err != nil {
		return false, err
	}
	entireOut, err := tc.store.Read(tc.Entire.Output)
	if err != nil {
		return false, err
	}

	body, ok := stripHeader(string(content))
	if !ok {
		return false, nil
	}
	if !tokensMatch(body, string(entireOut)) {
		return false, nil
	}

	t, ok := subtestCount(string(entireIn))
	if !ok {
		return false, nil
	}
	return validMultitestBody(body, t-1), nil
}

// multitestGroups parses a persisted multitest file into its groups, each
// with its trailing newline restored. Expects the file to have passed its
// validity check.
func (tc *TestCase) multitestGroups(h storage.Handle) ([]string, error) {
	content, err := tc.store.Read(h)
	if err != nil {
		return nil, err
	}
	body, ok := stripHeader(string(content))
	if !ok {
		return nil, fmt.Errorf("multitest file %s has no header", h)
	}
	return splitGroups(body), nil
}

// splitGroups splits a multitest body on blank lines. Joining the returned
// groups reproduces the body without the blank separator lines.
func splitGroups(body string) []string {
	segs := strings.Split(body, "\n\n")
	for i := 0; i < len(segs)-1; i++ {
		segs[i] += "\n"
	}
	return segs
}

// joinGroups is the inverse of splitGroups: groups each end with a newline
// and get one extra blank line between them.
func joinGroups(groups []string) string {
	return strings.Join(groups, "\n")
}
