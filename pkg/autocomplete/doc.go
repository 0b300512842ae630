// Package autocomplete drives a pair of dependent suggestion fields: a fork
// owner field and a branch field whose suggestions depend on the fork the
// user picked.
//
// # Overview
//
//   - [Input] holds a field's current text; [Text] is a goroutine-safe one
//   - [Field] is an input plus a lazily attached [Typeahead]
//   - [Typeahead] runs a [Source] and renders filtered suggestions
//   - [Registry] records which field another depends on
//   - [Pair] wires the fork and branch fields together
//
// # Fields
//
// Nothing is fetched until a field is focused. The first [Field.Focus]
// attaches a Typeahead; later calls return the same one.
//
// The fork field suggests the owner login of every fork of the upstream
// repository. The branch field first re-validates the fork field: it runs
// the fork field's own source and requires the typed owner to be an exact
// member of the result. Only then does it list the branches of that
// owner's copy of the repository. If the fork field was never focused, or
// the typed owner is not a fork, the branch field suggests nothing and
// makes no branch request.
//
// # Lookups
//
// [Typeahead.Lookup] blocks; UIs run it in its own goroutine. Every lookup
// is tagged with the field's input (and, for the branch field, the fork
// field's input) plus a sequence number. A result is rendered only if no
// newer lookup was issued and the inputs still match, so slow responses
// never overwrite fresher ones.
//
// Source errors degrade to an empty suggestion list and are logged; they
// never block typing.
package autocomplete
