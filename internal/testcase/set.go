package testcase

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/contestcli/judge/internal/storage"
)

// metaHandle persists the set's shape so it can be reconstructed offline.
const metaHandle storage.Handle = "testcases.json"

type setMeta struct {
	Kinds []string `json:"kinds"`
}

// Set is an ordered sequence of testcases. Ids always equal the 1-based
// position; scraped testcases occupy a stable prefix and only the
// non-scraped suffix may be appended to, removed from or truncated.
type Set struct {
	store storage.Store
	cases []*TestCase
}

// IOContent is one scraped input/output pair.
type IOContent struct {
	Input  string
	Output string
}

func ensureTrailingNewline(s string) string {
	if s != "" && !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}

// NewFromScraped creates the set at problem initialization from scraped
// content, writing every pair to the store and running the multitest split
// heuristics on each testcase.
func NewFromScraped(store storage.Store, pairs []IOContent) (*Set, error) {
	s := &Set{store: store}
	for i, pair := range pairs {
		tc := &TestCase{
			ID:     i + 1,
			Kind:   Scraped,
			Entire: entirePair(i + 1),
			Multi:  multiPair(i + 1),
			store:  store,
		}
		if err := store.Write(tc.Entire.Input, []byte(ensureTrailingNewline(pair.Input))); err != nil {
			return nil, err
		}
		if err := store.Write(tc.Entire.Output, []byte(ensureTrailingNewline(pair.Output))); err != nil {
			return nil, err
		}
		if err := tc.SplitMultitests(); err != nil {
			return nil, err
		}
		s.cases = append(s.cases, tc)
	}
	if err := s.saveMeta(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reconstructs the set from persisted content.
func Load(store storage.Store) (*Set, error) {
	raw, err := store.Read(metaHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to load testcase set: %w", err)
	}
	var meta setMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse testcase set metadata: %w", err)
	}

	s := &Set{store: store}
	for i, code := range meta.Kinds {
		kind, err := parseKindCode(code)
		if err != nil {
			return nil, err
		}
		tc := &TestCase{
			ID:     i + 1,
			Kind:   kind,
			Entire: entirePair(i + 1),
			store:  store,
		}
		if kind == Scraped {
			tc.Multi = multiPair(i + 1)
		}
		s.cases = append(s.cases, tc)
	}
	return s, nil
}

func kindCode(k Kind) string {
	switch k {
	case Scraped:
		return "s"
	case UserAdded:
		return "u"
	}
	return "r"
}

func parseKindCode(code string) (Kind, error) {
	switch code {
	case "s":
		return Scraped, nil
	case "u":
		return UserAdded, nil
	case "r":
		return Random, nil
	}
	return 0, fmt.Errorf("unknown testcase kind code %q", code)
}

func (s *Set) Len() int { return len(s.cases) }

func (s *Set) Cases() []*TestCase { return s.cases }

// Case returns the testcase with the given 1-based id or nil.
func (s *Set) Case(id int) *TestCase {
	if id < 1 || id > len(s.cases) {
		return nil
	}
	return s.cases[id-1]
}

func (s *Set) scrapedCount() int {
	n := 0
	for _, tc := range s.cases {
		if tc.Kind != Scraped {
			break
		}
		n++
	}
	return n
}

// Append adds a user-added or random testcase to the suffix.
func (s *Set) Append(kind Kind, input, output string) (*TestCase, error) {
	if kind == Scraped {
		panic("scraped testcases exist only from problem initialization")
	}

	id := len(s.cases) + 1
	tc := &TestCase{ID: id, Kind: kind, Entire: entirePair(id), store: s.store}
	if err := s.store.Write(tc.Entire.Input, []byte(ensureTrailingNewline(input))); err != nil {
		return nil, err
	}
	if err := s.store.Write(tc.Entire.Output, []byte(ensureTrailingNewline(output))); err != nil {
		return nil, err
	}
	s.cases = append(s.cases, tc)
	if err := s.saveMeta(); err != nil {
		return nil, err
	}
	return tc, nil
}

// Remove deletes the testcase with the given id and renumbers the suffix
// behind it so ids stay equal to positions. Only non-scraped testcases may
// be removed.
func (s *Set) Remove(id int) error {
	tc := s.Case(id)
	if tc == nil {
		return fmt.Errorf("no testcase %d", id)
	}
	if err := tc.Delete(); err != nil {
		return err
	}

	for _, later := range s.cases[id:] {
		if err := s.renumber(later, later.ID-1); err != nil {
			return err
		}
	}
	s.cases = append(s.cases[:id-1], s.cases[id:]...)
	return s.saveMeta()
}

// Truncate keeps the first n testcases. n must cover the scraped prefix.
func (s *Set) Truncate(n int) error {
	if n < s.scrapedCount() {
		panic("truncation may not remove scraped testcases")
	}
	if n > len(s.cases) {
		n = len(s.cases)
	}
	for _, tc := range s.cases[n:] {
		if err := tc.Delete(); err != nil {
			return err
		}
	}
	s.cases = s.cases[:n]
	return s.saveMeta()
}

// renumber moves a non-scraped testcase's content to the handles of its new
// id. Scraped testcases never move, so the multitest pair stays untouched.
func (s *Set) renumber(tc *TestCase, newID int) error {
	oldPair, newPair := tc.Entire, entirePair(newID)
	for _, h := range [][2]storage.Handle{
		{oldPair.Input, newPair.Input},
		{oldPair.Output, newPair.Output},
	} {
		data, err := s.store.Read(h[0])
		if err != nil {
			return err
		}
		if err := s.store.Write(h[1], data); err != nil {
			return err
		}
		if err := s.store.Delete(h[0]); err != nil {
			return err
		}
	}
	tc.ID = newID
	tc.Entire = newPair
	return nil
}

// CheckMultitestMode reports whether every testcase may run in ModeMultiple.
func (s *Set) CheckMultitestMode() (bool, error) {
	for _, tc := range s.cases {
		ok, err := tc.CheckMultitestMode()
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// RunUnits flattens every testcase for the given mode, preserving testcase
// and sub-id order. Content is read concurrently, one reader per testcase.
func (s *Set) RunUnits(mode Mode) ([]RunUnit, error) {
	perCase := make([][]RunUnit, len(s.cases))
	var eg errgroup.Group
	for i, tc := range s.cases {
		eg.Go(func() error {
			units, err := tc.RunUnits(mode)
			if err != nil {
				return err
			}
			perCase[i] = units
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var units []RunUnit
	for _, cu := range perCase {
		units = append(units, cu...)
	}
	return units, nil
}

func (s *Set) saveMeta() error {
	meta := setMeta{Kinds: make([]string, 0, len(s.cases))}
	for _, tc := range s.cases {
		meta.Kinds = append(meta.Kinds, kindCode(tc.Kind))
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return s.store.Write(metaHandle, raw)
}
