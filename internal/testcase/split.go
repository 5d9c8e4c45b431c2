package testcase

import (
	"fmt"
	"strings"
)

// SplitMultitests seeds both multitest files right after scraping. The split
// is best-effort: when no heuristic fits, the file is seeded with the entire
// content verbatim, which fails the validity check until edited by hand.
// Never blocks ingestion.
func (tc *TestCase) SplitMultitests() error {
	if tc.Kind != Scraped {
		panic(fmt.Sprintf("testcase %d: only scraped testcases have multitests", tc.ID))
	}

	entireIn, err := tc.store.Read(tc.Entire.Input)
	if err != nil {
		return err
	}
	entireOut, err := tc.store.Read(tc.Entire.Output)
	if err != nil {
		return err
	}

	inBody := string(entireIn)
	outBody := string(entireOut)
	if t, ok := subtestCount(string(entireIn)); ok {
		if body, ok := splitInputOneLine(string(entireIn), t); ok {
			inBody = body
		}
		if body, ok := splitOutputOneLine(string(entireOut), t); ok {
			outBody = body
		} else if body, ok := splitOutputYesNo(string(entireOut), t); ok {
			outBody = body
		}
	}

	if err := tc.store.Write(tc.Multi.Input, []byte(multitestHeader+"\n"+inBody)); err != nil {
		return err
	}
	return tc.store.Write(tc.Multi.Output, []byte(multitestHeader+"\n"+outBody))
}

func contentLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// splitInputOneLine groups the input one line per subtest: the count line
// followed by exactly T lines.
func splitInputOneLine(entireIn string, t int) (string, bool) {
	lines := contentLines(entireIn)
	if len(lines)-1 != t {
		return "", false
	}
	groups := make([]string, 0, t+1)
	for _, line := range lines {
		groups = append(groups, line+"\n")
	}
	return joinGroups(groups), true
}

// splitOutputOneLine treats each output line as one subtest's full output.
func splitOutputOneLine(entireOut string, t int) (string, bool) {
	lines := contentLines(entireOut)
	if len(lines) != t {
		return "", false
	}
	groups := make([]string, 0, t)
	for _, line := range lines {
		groups = append(groups, line+"\n")
	}
	return joinGroups(groups), true
}

// splitOutputYesNo starts a new group at every line that is yes or no
// ignoring case. The first line must qualify and the groups must number T.
func splitOutputYesNo(entireOut string, t int) (string, bool) {
	lines := contentLines(entireOut)
	if len(lines) == 0 || !groupStartTokens.Contains(strings.ToLower(lines[0])) {
		return "", false
	}

	var groups []string
	for _, line := range lines {
		if groupStartTokens.Contains(strings.ToLower(line)) {
			groups = append(groups, line+"\n")
		} else {
			groups[len(groups)-1] += line + "\n"
		}
	}
	if len(groups) != t {
		return "", false
	}
	return joinGroups(groups), true
}
