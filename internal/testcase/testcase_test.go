package testcase_test

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contestcli/judge/internal/storage"
	"github.com/contestcli/judge/internal/testcase"
)

func newStore(t *testing.T) *storage.FsStore {
	t.Helper()
	store, err := storage.NewFsStore(filepath.Join(t.TempDir(), "tests"))
	require.NoError(t, err)
	return store
}

type editorFunc func(content []byte) ([]byte, error)

func (f editorFunc) Edit(content []byte) ([]byte, error) { return f(content) }

func TestSplitOneLinePerSubtest(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "3\n1\n2\n3\n", Output: "a\nb\nc\n"},
	})
	require.NoError(t, err)

	ok, err := set.CheckMultitestMode()
	require.NoError(t, err)
	require.True(t, ok)

	// repeating the check with no intervening edit gives the same answer
	again, err := set.CheckMultitestMode()
	require.NoError(t, err)
	require.Equal(t, ok, again)

	units, err := set.RunUnits(testcase.ModeMultiple)
	require.NoError(t, err)
	require.Equal(t, []testcase.RunUnit{
		{ID: "1-1", Input: "1\n1\n", Output: "a\n"},
		{ID: "1-2", Input: "1\n2\n", Output: "b\n"},
		{ID: "1-3", Input: "1\n3\n", Output: "c\n"},
	}, units)

	// dropping the injected count lines and restoring the real count
	// reproduces the entire input byte for byte
	var joined strings.Builder
	joined.WriteString("3\n")
	for _, u := range units {
		joined.WriteString(strings.TrimPrefix(u.Input, "1\n"))
	}
	require.Equal(t, "3\n1\n2\n3\n", joined.String())
}

func TestSplitYesNoOutput(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "2\nx\ny\n", Output: "YES\n1 2\nNO\n"},
	})
	require.NoError(t, err)

	ok, err := set.CheckMultitestMode()
	require.NoError(t, err)
	require.True(t, ok)

	units, err := set.RunUnits(testcase.ModeMultiple)
	require.NoError(t, err)
	require.Len(t, units, 2)
	require.Equal(t, "YES\n1 2\n", units[0].Output)
	require.Equal(t, "NO\n", units[1].Output)

	// concatenating the subtest outputs reproduces the entire output
	var joined strings.Builder
	for _, u := range units {
		joined.WriteString(u.Output)
	}
	require.Equal(t, "YES\n1 2\nNO\n", joined.String())
}

func TestSplitYesNoMultilineGroups(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "2\np\nq\n", Output: "YES\n1\nNO\nNO\n2\n"},
	})
	require.NoError(t, err)

	ok, err := set.CheckMultitestMode()
	require.NoError(t, err)
	require.True(t, ok)

	units, err := set.RunUnits(testcase.ModeMultiple)
	require.NoError(t, err)
	require.Len(t, units, 2)
	require.Equal(t, "YES\n1\n", units[0].Output)
	require.Equal(t, "NO\nNO\n2\n", units[1].Output)
}

func TestSplitSeedsVerbatimWhenNoHeuristicFits(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "abc\ndef\n", Output: "out\n"},
	})
	require.NoError(t, err)

	ok, err := set.CheckMultitestMode()
	require.NoError(t, err)
	require.False(t, ok)

	// whole-testcase judging is unaffected
	units, err := set.RunUnits(testcase.ModeOne)
	require.NoError(t, err)
	require.Equal(t, []testcase.RunUnit{
		{ID: "1", Input: "abc\ndef\n", Output: "out\n"},
	}, units)

	require.Panics(t, func() {
		_, _ = set.Case(1).RunUnits(testcase.ModeMultiple)
	})
}

func TestTrailingNewlineNormalized(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "3\n1\n2\n3", Output: "a\nb\nc"},
	})
	require.NoError(t, err)

	data, err := store.Read(set.Case(1).Entire.Input)
	require.NoError(t, err)
	require.Equal(t, "3\n1\n2\n3\n", string(data))

	ok, err := set.CheckMultitestMode()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTamperedMultitestFails(t *testing.T) {
	tamper := []struct {
		name string
		old  string
		new  string
	}{
		{"extra token", "\n\n1\n", "\n\n1 9\n"},
		{"empty group", "\n\n1\n", "\n\n\n1\n"},
		{"merged groups", "\n\n2\n", "\n2\n"},
	}
	for _, tt := range tamper {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			set, err := testcase.NewFromScraped(store, []testcase.IOContent{
				{Input: "3\n1\n2\n3\n", Output: "a\nb\nc\n"},
			})
			require.NoError(t, err)

			tc := set.Case(1)
			content, err := store.Read(tc.Multi.Input)
			require.NoError(t, err)
			edited := strings.Replace(string(content), tt.old, tt.new, 1)
			require.NotEqual(t, string(content), edited)
			require.NoError(t, store.Write(tc.Multi.Input, []byte(edited)))

			ok, err := tc.CheckMultitestMode()
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestMissingHeaderFails(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "3\n1\n2\n3\n", Output: "a\nb\nc\n"},
	})
	require.NoError(t, err)

	tc := set.Case(1)
	require.NoError(t, store.Write(tc.Multi.Input, []byte("3\n\n1\n\n2\n\n3\n")))

	ok, err := tc.CheckMultitestMode()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEditMultitestByHand(t *testing.T) {
	store := newStore(t)
	// two-line subtests defeat the heuristics, so the input file is seeded
	// verbatim and needs a manual edit
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "2\na\nb\nc\nd\n", Output: "x\ny\n"},
	})
	require.NoError(t, err)

	tc := set.Case(1)
	ok, err := tc.CheckMultitestMode()
	require.NoError(t, err)
	require.False(t, ok)

	ed := editorFunc(func(content []byte) ([]byte, error) {
		fixed := strings.Replace(string(content),
			"2\na\nb\nc\nd\n", "2\n\na\nb\n\nc\nd\n", 1)
		return []byte(fixed), nil
	})
	require.NoError(t, tc.EditMultitest(ed, testcase.MultitestInput))

	ok, err = tc.CheckMultitestMode()
	require.NoError(t, err)
	require.True(t, ok)

	units, err := tc.RunUnits(testcase.ModeMultiple)
	require.NoError(t, err)
	require.Equal(t, []testcase.RunUnit{
		{ID: "1-1", Input: "1\na\nb\n", Output: "x\n"},
		{ID: "1-2", Input: "1\nc\nd\n", Output: "y\n"},
	}, units)
}

func TestEditMultitestsNecessaryOnly(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "3\n1\n2\n3\n", Output: "a\nb\nc\n"},
	})
	require.NoError(t, err)

	ed := editorFunc(func(content []byte) ([]byte, error) {
		return nil, fmt.Errorf("editor must not open for valid files")
	})
	require.NoError(t, set.Case(1).EditMultitests(ed, true))
}

func TestSetAppendRemoveRenumber(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "1\nq\n", Output: "a\n"},
	})
	require.NoError(t, err)

	_, err = set.Append(testcase.UserAdded, "u-in\n", "u-out\n")
	require.NoError(t, err)
	rnd, err := set.Append(testcase.Random, "r-in\n", "r-out\n")
	require.NoError(t, err)
	require.Equal(t, 3, rnd.ID)

	require.NoError(t, set.Remove(2))
	require.Equal(t, 2, set.Len())
	require.Equal(t, testcase.Random, set.Case(2).Kind)

	// content followed the renumbered testcase to its new handles
	data, err := store.Read(set.Case(2).Entire.Input)
	require.NoError(t, err)
	require.Equal(t, "r-in\n", string(data))
	_, err = store.Read(storage.Handle("3.in"))
	require.Error(t, err)
}

func TestSetLoadRoundTrip(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "2\n1\n2\n", Output: "a\nb\n"},
	})
	require.NoError(t, err)
	_, err = set.Append(testcase.UserAdded, "u\n", "v\n")
	require.NoError(t, err)

	loaded, err := testcase.Load(store)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	require.Equal(t, testcase.Scraped, loaded.Case(1).Kind)
	require.NotNil(t, loaded.Case(1).Multi)
	require.Equal(t, testcase.UserAdded, loaded.Case(2).Kind)
	require.Nil(t, loaded.Case(2).Multi)

	// the reconstructed set still honors the multitest split
	ok, err := loaded.CheckMultitestMode()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSetLoadMissingMeta(t *testing.T) {
	_, err := testcase.Load(newStore(t))
	require.Error(t, err)
}

func TestSetTruncate(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "1\nq\n", Output: "a\n"},
	})
	require.NoError(t, err)
	_, err = set.Append(testcase.Random, "r\n", "s\n")
	require.NoError(t, err)

	require.NoError(t, set.Truncate(1))
	require.Equal(t, 1, set.Len())
	_, err = store.Read(storage.Handle("2.in"))
	require.Error(t, err)

	require.Panics(t, func() { _ = set.Truncate(0) })
}

func TestScrapedTestcasesAreProtected(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "1\nq\n", Output: "a\n"},
	})
	require.NoError(t, err)

	require.Panics(t, func() { _ = set.Remove(1) })
	require.Panics(t, func() { _, _ = set.Append(testcase.Scraped, "x\n", "y\n") })
}

func TestSetRunUnitsOrder(t *testing.T) {
	store := newStore(t)
	set, err := testcase.NewFromScraped(store, []testcase.IOContent{
		{Input: "2\n1\n2\n", Output: "a\nb\n"},
		{Input: "2\n3\n4\n", Output: "c\nd\n"},
	})
	require.NoError(t, err)
	_, err = set.Append(testcase.UserAdded, "u\n", "v\n")
	require.NoError(t, err)

	units, err := set.RunUnits(testcase.ModeMultiple)
	require.NoError(t, err)

	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	// user-added testcases never split; they keep their bare id
	require.Equal(t, []string{"1-1", "1-2", "2-1", "2-2", "3"}, ids)

	units, err = set.RunUnits(testcase.ModeOne)
	require.NoError(t, err)
	require.Len(t, units, 3)
	require.Equal(t, "2\n1\n2\n", units[0].Input)
}
