// Package cliargs synthesizes terraform command-line token sequences from
// typed option values, and manages the temporary variable files that
// map-valued options are passed through.
package cliargs

import (
	"fmt"
	"sort"
)

// Kind tags the active variant of a Value.
type Kind int

const (
	// KindNil means the option is skipped entirely.
	KindNil Kind = iota
	// KindFlag emits a bare -name token.
	KindFlag
	// KindNoFlag suppresses the option even when a default would set it.
	KindNoFlag
	// KindBool emits -name=true or -name=false.
	KindBool
	// KindString emits -name=value.
	KindString
	// KindList emits one -name=element token per element, in order.
	KindList
	// KindMap is either written to a temp var file (-var-file=...) or
	// flattened to -name=key=value tokens, depending on the option name.
	KindMap
)

// Value is a closed tagged union over the encodings terraform options
// accept. Exactly one variant is active; construct values through the typed
// constructors rather than literals.
type Value struct {
	kind Kind
	b    bool
	s    string
	list []string
	m    map[string]any
}

// Nil returns the skip value. Options set to Nil produce no tokens.
func Nil() Value { return Value{kind: KindNil} }

// Flag marks an option as a bare flag: -name with no value.
func Flag() Value { return Value{kind: KindFlag} }

// NoFlag suppresses an option regardless of merged defaults.
func NoFlag() Value { return Value{kind: KindNoFlag} }

// Bool encodes as -name=true / -name=false.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String encodes as -name=value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int encodes a numeric option through its decimal text form.
func Int(n int) Value { return Value{kind: KindString, s: fmt.Sprintf("%d", n)} }

// List encodes as one -name=element token per element, preserving order.
func List(elements ...string) Value {
	return Value{kind: KindList, list: elements}
}

// Map encodes a structured option. For the var option the mapping is
// written to a temporary tfvars JSON file; for backend-config it is
// flattened inline.
func Map(m map[string]any) Value { return Value{kind: KindMap, m: m} }

// StringMap is a convenience for the common all-string mapping case.
func StringMap(m map[string]string) Value {
	converted := make(map[string]any, len(m))
	for k, v := range m {
		converted[k] = v
	}
	return Value{kind: KindMap, m: converted}
}

// Kind returns the active variant tag.
func (v Value) Kind() Kind { return v.kind }

// sortedMapKeys returns the map keys in stable order for deterministic
// token output.
func (v Value) sortedMapKeys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
