package autocomplete

import (
	"context"
	stderrors "errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fleetingdev/fleeting/pkg/observability"
)

// DefaultMaxItems is how many suggestions are rendered per lookup.
const DefaultMaxItems = 8

// Source returns the unfiltered suggestions for query.
type Source func(ctx context.Context, query string) ([]string, error)

// Typeahead runs lookups for one field and renders their results.
type Typeahead struct {
	field    string
	input    Input
	source   Source
	matcher  Matcher
	maxItems int
	extraTag func() string
	logger   *log.Logger

	mu        sync.Mutex
	seq       uint64
	last      []string
	lastExtra string
}

// Source returns the raw suggestion source, bypassing the matcher and the
// stale guard.
func (t *Typeahead) Source() Source { return t.source }

// Last returns the unfiltered suggestions of the last rendered lookup.
func (t *Typeahead) Last() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.last)
}

// Offered returns the unfiltered suggestions of the last rendered lookup,
// or nil when an upstream input has changed since that lookup was issued.
// The field's own value is not compared: typing filters the same set.
func (t *Typeahead) Offered() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.extra() != t.lastExtra {
		return nil
	}
	return slices.Clone(t.last)
}

func (t *Typeahead) extra() string {
	if t.extraTag == nil {
		return ""
	}
	return t.extraTag()
}

// tag identifies the inputs a lookup was issued for.
func (t *Typeahead) tag() string {
	return t.input.Value() + "\x00" + t.extra()
}

// Lookup queries the source with the field's current input and, unless the
// result has gone stale, calls render with the matching suggestions. It
// reports whether render was called.
//
// A result is stale when a newer lookup was issued on this Typeahead or the
// tagged inputs changed while the source ran. render is called with the
// Typeahead's lock held and must not call back into it.
func (t *Typeahead) Lookup(ctx context.Context, render func([]string)) bool {
	query := t.input.Value()
	extra := t.extra()
	tag := query + "\x00" + extra

	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.mu.Unlock()

	logger := t.logger.With("field", t.field, "lookup", uuid.NewString())
	hooks := observability.Suggest()
	hooks.OnLookupStart(ctx, t.field)
	start := time.Now()

	items, err := t.source(ctx, query)
	hooks.OnLookupComplete(ctx, t.field, len(items), time.Since(start), err)
	switch {
	case err == nil:
	case stderrors.Is(err, ErrUpstreamNotSelected):
		logger.Debug("no upstream selection", "query", query)
		items = nil
	default:
		logger.Warn("suggestion lookup failed", "query", query, "err", err)
		items = nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if seq != t.seq || t.tag() != tag {
		hooks.OnStaleDiscard(ctx, t.field)
		logger.Debug("discarded stale suggestions", "query", query)
		return false
	}
	t.last = items
	t.lastExtra = extra
	render(Filter(items, query, t.matcher, t.maxItems))
	return true
}
