// Package primitives provides the declarative data structures a statechart
// is described with: machine, state and transition configs plus events.
//
// Everything here is plain data. Guards and actions are referenced by name
// and only become executable once a config is compiled together with a
// typed registry in package core. A config therefore round-trips through
// JSON and YAML unchanged.
//
// Core invariants:
// - Immutability where possible (Event, compiled definitions)
// - Document order of children is significant (region order, entry order)
// - Paths are dot separated state IDs relative to the implicit root
package primitives
