package autocomplete

import (
	"strings"
	"sync"
)

// Input is the text a user has typed into a field.
type Input interface {
	Value() string
}

// Text is a goroutine-safe [Input] the UI updates on every keystroke.
type Text struct {
	mu sync.RWMutex
	v  string
}

// NewText returns a Text holding v.
func NewText(v string) *Text {
	return &Text{v: v}
}

func (t *Text) Value() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.v
}

// Set replaces the text.
func (t *Text) Set(v string) {
	t.mu.Lock()
	t.v = v
	t.mu.Unlock()
}

// Matcher decides whether a suggestion is shown for a query.
type Matcher func(query, item string) bool

// SubstringMatcher matches items containing query, ignoring case. An empty
// query matches everything.
func SubstringMatcher(query, item string) bool {
	return strings.Contains(strings.ToLower(item), strings.ToLower(query))
}

// Filter returns the items accepted by m for query, keeping order and
// stopping after limit items when limit is positive.
func Filter(items []string, query string, m Matcher, limit int) []string {
	if m == nil {
		m = SubstringMatcher
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !m(query, it) {
			continue
		}
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
