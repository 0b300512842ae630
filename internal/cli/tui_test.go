package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fleetingdev/fleeting/pkg/autocomplete"
)

// stubResources serves canned collections from memory.
type stubResources struct {
	mu    sync.Mutex
	data  map[string]string
	calls []string
}

func (s *stubResources) FetchResource(_ context.Context, path string) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, path)
	body, ok := s.data[path]
	if !ok {
		return nil, fmt.Errorf("no collection at %s", path)
	}
	var records []json.RawMessage
	err := json.Unmarshal([]byte(body), &records)
	return records, err
}

func (s *stubResources) requested(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.calls, path)
}

func newTestPick(t *testing.T) (pickModel, *autocomplete.Pair, *stubResources) {
	t.Helper()
	res := &stubResources{data: map[string]string{
		"/repos/mozilla/openbadges/forks":  `[{"owner":{"login":"alice"}},{"owner":{"login":"bob"}},{"owner":{"login":"Alina"}}]`,
		"/repos/alice/openbadges/branches": `[{"name":"main"},{"name":"feature-x"}]`,
	}}
	forkText, branchText := autocomplete.NewText(""), autocomplete.NewText("")
	pair, err := autocomplete.NewPair(autocomplete.PairConfig{
		Upstream:    "mozilla/openbadges",
		ForkInput:   forkText,
		BranchInput: branchText,
		Resources:   res,
	})
	if err != nil {
		t.Fatal(err)
	}
	return newPickModel(context.Background(), pair, forkText, branchText), pair, res
}

// runCmd executes cmd synchronously and returns the suggestion messages it
// produced, descending into batches.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	case suggestionsMsg:
		return []tea.Msg{msg}
	default:
		return nil
	}
}

// send delivers msg and then every suggestion message its command yields.
func send(m pickModel, msg tea.Msg) (pickModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	m = next.(pickModel)
	for _, sm := range runCmd(cmd) {
		next, _ = m.Update(sm)
		m = next.(pickModel)
	}
	return m, cmd
}

func typeText(m pickModel, s string) pickModel {
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestPickModelFullSelection(t *testing.T) {
	m, pair, _ := newTestPick(t)

	for _, sm := range runCmd(m.Init()) {
		next, _ := m.Update(sm)
		m = next.(pickModel)
	}
	if got := m.items[forkIdx]; strings.Join(got, ",") != "alice,bob,Alina" {
		t.Fatalf("initial fork suggestions = %v", got)
	}

	m = typeText(m, "ali")
	if got := m.items[forkIdx]; strings.Join(got, ",") != "alice,Alina" {
		t.Fatalf("fork suggestions for %q = %v", "ali", got)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != branchIdx {
		t.Fatalf("accepting a fork should move focus to the branch field")
	}
	if got := m.inputs[forkIdx].Value(); got != "alice" {
		t.Errorf("fork input = %q, want alice", got)
	}
	if got := m.items[branchIdx]; strings.Join(got, ",") != "main,feature-x" {
		t.Fatalf("branch suggestions = %v", got)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.done {
		t.Fatal("accepting a branch with a selected fork should finish the form")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("finishing the form should quit the program")
	}
	fork, branch, ok := pair.Selection()
	if !ok || fork != "alice" || branch != "feature-x" {
		t.Errorf("Selection() = %q, %q, %v; want alice, feature-x, true", fork, branch, ok)
	}
}

func TestPickModelForkChangeInvalidatesBranch(t *testing.T) {
	m, pair, _ := newTestPick(t)
	for _, sm := range runCmd(m.Init()) {
		next, _ := m.Update(sm)
		m = next.(pickModel)
	}

	m = typeText(m, "alice")
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(m, "feature-x")
	if _, _, ok := pair.Selection(); !ok {
		t.Fatal("alice/feature-x should be selected")
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	for range len("alice") {
		m, _ = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = typeText(m, "bob")
	if got := m.inputs[forkIdx].Value(); got != "bob" {
		t.Fatalf("fork input = %q, want bob", got)
	}

	// Move to the branch field and accept before its lookup returns.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(pickModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(pickModel)
	if m.done {
		t.Error("a branch offered for alice must not complete the form for bob")
	}
	if f, b, ok := pair.Selection(); ok {
		t.Errorf("Selection() = %q, %q; want none", f, b)
	}
}

func TestPickModelUnknownOwnerHasNoBranches(t *testing.T) {
	m, _, res := newTestPick(t)
	for _, sm := range runCmd(m.Init()) {
		next, _ := m.Update(sm)
		m = next.(pickModel)
	}

	m = typeText(m, "xyz")
	if len(m.items[forkIdx]) != 0 {
		t.Errorf("fork suggestions for xyz = %v, want none", m.items[forkIdx])
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != branchIdx {
		t.Fatal("tab should move focus to the branch field")
	}
	if len(m.items[branchIdx]) != 0 {
		t.Errorf("branch suggestions = %v, want none", m.items[branchIdx])
	}
	if res.requested("/repos/xyz/openbadges/branches") {
		t.Error("branches of an owner that is not a fork must not be requested")
	}
	if !strings.Contains(m.View(), "no suggestions") {
		t.Error("view should say there are no suggestions")
	}
}

func TestPickModelDropsOlderResults(t *testing.T) {
	m, _, _ := newTestPick(t)
	m.gen[forkIdx] = 3

	next, _ := m.Update(suggestionsMsg{field: forkIdx, gen: 3, items: []string{"new"}})
	m = next.(pickModel)
	next, _ = m.Update(suggestionsMsg{field: forkIdx, gen: 2, items: []string{"old"}})
	m = next.(pickModel)

	if got := m.items[forkIdx]; len(got) != 1 || got[0] != "new" {
		t.Errorf("items = %v, want [new]", got)
	}
}

func TestPickModelForkChangeClearsBranches(t *testing.T) {
	m, _, _ := newTestPick(t)
	m.items[branchIdx] = []string{"main"}
	m.shown[branchIdx] = 1
	m.gen[branchIdx] = 1

	m = typeText(m, "b")
	if m.items[branchIdx] != nil {
		t.Errorf("branch items = %v, want cleared after fork edit", m.items[branchIdx])
	}
}

func TestPickModelQuit(t *testing.T) {
	m, pair, _ := newTestPick(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
	if next.(pickModel).done {
		t.Error("quitting should not mark the form done")
	}
	if _, _, ok := pair.Selection(); ok {
		t.Error("nothing should be selected after quitting")
	}
}
