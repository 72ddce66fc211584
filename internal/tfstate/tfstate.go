// Package tfstate reads terraform state files into a read-only tree with
// keyed lookup. The loader never writes state and never caches; every Load
// re-reads from disk.
package tfstate

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ParseError reports a state file that exists but is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse state file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// State is an immutable snapshot of a parsed state file. The zero-ish
// empty state (no file yet) is valid and distinct from a read failure.
// Mutating values returned from lookups does not affect the file.
type State struct {
	path string
	root map[string]any
}

// Empty returns an uninitialized state tree.
func Empty() *State { return &State{} }

// Load reads and parses the state file at path. A missing file yields an
// empty state, not an error: before the first successful apply there is
// legitimately no state. Malformed JSON yields a *ParseError.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("read state file %s: %w", path, err)
	}

	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &State{path: path, root: root}, nil
}

// Path returns the source file path, empty for an uninitialized state.
func (s *State) Path() string { return s.path }

// IsEmpty reports whether the state was loaded from a nonexistent file.
func (s *State) IsEmpty() bool { return s.root == nil }

// Get resolves a dotted key path ("values.root_module.resources") through
// nested objects. The second return is false when any segment is missing
// or a non-object is traversed.
func (s *State) Get(path string) (any, bool) {
	if s.root == nil || path == "" {
		return nil, false
	}

	var current any = s.root
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// GetString resolves a dotted key path to a string value.
func (s *State) GetString(path string) (string, bool) {
	v, ok := s.Get(path)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Version returns the top-level state format version, 0 when absent.
func (s *State) Version() int {
	if v, ok := s.Get("version"); ok {
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return 0
}

// Serial returns the state serial number, 0 when absent.
func (s *State) Serial() int {
	if v, ok := s.Get("serial"); ok {
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return 0
}

// Resources returns the top-level resources list, nil when absent.
func (s *State) Resources() []any {
	if v, ok := s.Get("resources"); ok {
		if list, ok := v.([]any); ok {
			return list
		}
	}
	return nil
}

// Outputs returns the top-level outputs object, nil when absent.
func (s *State) Outputs() map[string]any {
	if v, ok := s.Get("outputs"); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}
