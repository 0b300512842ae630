package autocomplete

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// State is where a field is in its suggestion lifecycle.
type State int

const (
	// StateIdle: never focused, no Typeahead attached.
	StateIdle State = iota
	// StateValidatingUpstream: a dependent field is checking its upstream
	// field's value before fetching its own suggestions.
	StateValidatingUpstream
	// StateSuggesting: attached, current value is not an offered suggestion.
	StateSuggesting
	// StateSelected: current value is exactly one of the last suggestions.
	StateSelected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidatingUpstream:
		return "validating-upstream"
	case StateSuggesting:
		return "suggesting"
	case StateSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// Field binds an input to a suggestion source. The Typeahead is attached on
// first focus.
type Field struct {
	name     string
	input    Input
	matcher  Matcher
	maxItems int
	logger   *log.Logger
	source   func() Source
	extraTag func() string

	mu         sync.Mutex
	ta         *Typeahead
	validating atomic.Int32
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// WithMatcher sets the display matcher. The default is [SubstringMatcher].
func WithMatcher(m Matcher) FieldOption {
	return func(f *Field) {
		if m != nil {
			f.matcher = m
		}
	}
}

// WithMaxItems sets how many suggestions are rendered per lookup.
func WithMaxItems(n int) FieldOption {
	return func(f *Field) {
		if n > 0 {
			f.maxItems = n
		}
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *log.Logger) FieldOption {
	return func(f *Field) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewField creates an unfocused field. source is called once, on first
// focus, to build the field's suggestion source.
func NewField(name string, input Input, source func() Source, opts ...FieldOption) *Field {
	f := &Field{
		name:     name,
		input:    input,
		matcher:  SubstringMatcher,
		maxItems: DefaultMaxItems,
		logger:   log.Default(),
		source:   source,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the field name used in logs and metrics.
func (f *Field) Name() string { return f.name }

// Input returns the field's input.
func (f *Field) Input() Input { return f.input }

// Focus attaches the field's Typeahead on first call and returns it.
// Later calls return the same Typeahead.
func (f *Field) Focus() *Typeahead {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ta == nil {
		f.ta = &Typeahead{
			field:    f.name,
			input:    f.input,
			source:   f.source(),
			matcher:  f.matcher,
			maxItems: f.maxItems,
			extraTag: f.extraTag,
			logger:   f.logger,
		}
		f.logger.Debug("attached typeahead", "field", f.name)
	}
	return f.ta
}

// Typeahead returns the attached Typeahead, if the field has been focused.
func (f *Field) Typeahead() (*Typeahead, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ta, f.ta != nil
}

// State reports the field's lifecycle state.
func (f *Field) State() State {
	ta, ok := f.Typeahead()
	if !ok {
		return StateIdle
	}
	if f.validating.Load() > 0 {
		return StateValidatingUpstream
	}
	if slices.Contains(ta.Offered(), f.input.Value()) {
		return StateSelected
	}
	return StateSuggesting
}

// beginValidation marks an upstream check in progress; the returned func
// ends it.
func (f *Field) beginValidation() func() {
	f.validating.Add(1)
	return func() { f.validating.Add(-1) }
}
