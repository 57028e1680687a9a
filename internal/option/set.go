// set.go defines the Set container: option declaration, default overlay,
// source tracking, and the typed read-only accessors used by components.
package option

import (
	"fmt"
	"sort"
)

// Kind identifies the value type of a declared option.
type Kind int

const (
	// KindString is a single string value.
	KindString Kind = iota

	// KindBool is a boolean toggle.
	KindBool

	// KindInt is a single integer value.
	KindInt

	// KindCount is an integer that accumulates across repeated CLI
	// occurrences (the -v/--verbose pattern).
	KindCount

	// KindList is an ordered string sequence that accumulates across
	// sources rather than being overwritten.
	KindList
)

// String returns the human-readable kind name, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindCount:
		return "count"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Source identifies which configuration layer supplied an option's value.
type Source int

const (
	// SourceDefault means the value is still the declared default.
	SourceDefault Source = iota

	// SourceFile means the value came from the configuration file.
	SourceFile

	// SourceCLI means the user explicitly supplied the value on the
	// command line.
	SourceCLI
)

// String returns the source name for diagnostic output.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceFile:
		return "config file"
	case SourceCLI:
		return "command line"
	default:
		return "unknown"
	}
}

// entry holds one option's current value and the source that set it.
type entry struct {
	kind   Kind
	value  any // string | bool | int | []string, matching kind
	source Source
}

// Set is the mergeable key/value configuration container for one run.
// Options must be declared before any merge; merges reject nothing silently
// (unknown config-file keys are reported to the caller for logging, and
// undeclared programmatic access panics).
type Set struct {
	entries map[string]*entry
	sealed  bool
}

// NewSet creates an empty Set with no declared options.
func NewSet() *Set {
	return &Set{entries: make(map[string]*entry)}
}

// declare registers an option with its kind and default value. Duplicate
// names are rejected here, at registration, rather than surfacing later as
// silent merge conflicts.
func (s *Set) declare(name string, kind Kind, def any) error {
	if s.sealed {
		return fmt.Errorf("option set is sealed, cannot declare %q", name)
	}
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("option %q is already declared", name)
	}
	s.entries[name] = &entry{kind: kind, value: def, source: SourceDefault}
	return nil
}

// DeclareString registers a string option with its default.
func (s *Set) DeclareString(name, def string) error {
	return s.declare(name, KindString, def)
}

// DeclareBool registers a boolean option with its default.
func (s *Set) DeclareBool(name string, def bool) error {
	return s.declare(name, KindBool, def)
}

// DeclareInt registers an integer option with its default.
func (s *Set) DeclareInt(name string, def int) error {
	return s.declare(name, KindInt, def)
}

// DeclareCount registers a count option. Count options always default to
// zero; they only grow through repeated command-line occurrences.
func (s *Set) DeclareCount(name string) error {
	return s.declare(name, KindCount, 0)
}

// DeclareList registers a list option with its default sequence. The
// default slice is copied so later merges never alias caller memory.
func (s *Set) DeclareList(name string, def []string) error {
	return s.declare(name, KindList, append([]string(nil), def...))
}

// OverrideDefault replaces the declared default of an existing option.
// Components use this when their own default for a shared option differs
// from the global one; the component's declaration wins. It is an error to
// override an option that was never declared, or one that has already been
// merged from a higher-precedence source.
func (s *Set) OverrideDefault(name string, def any) error {
	if s.sealed {
		return fmt.Errorf("option set is sealed, cannot override %q", name)
	}
	e, exists := s.entries[name]
	if !exists {
		return fmt.Errorf("cannot override undeclared option %q", name)
	}
	if e.source != SourceDefault {
		return fmt.Errorf("cannot override option %q: already set from %s", name, e.source)
	}
	if err := checkKind(name, e.kind, def); err != nil {
		return err
	}
	if list, ok := def.([]string); ok {
		def = append([]string(nil), list...)
	}
	e.value = def
	return nil
}

// checkKind validates that a value's dynamic type matches the declared kind.
func checkKind(name string, kind Kind, value any) error {
	ok := false
	switch kind {
	case KindString:
		_, ok = value.(string)
	case KindBool:
		_, ok = value.(bool)
	case KindInt, KindCount:
		_, ok = value.(int)
	case KindList:
		_, ok = value.([]string)
	}
	if !ok {
		return fmt.Errorf("option %q: value %v does not match declared kind %s", name, value, kind)
	}
	return nil
}

// Seal marks the set read-only. Further declarations or merges fail; the
// component sees one immutable configuration for the rest of the run.
func (s *Set) Seal() {
	s.sealed = true
}

// Declared reports whether an option of the given name exists in the set.
func (s *Set) Declared(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Source returns the configuration layer that supplied the option's current
// value. Panics on an undeclared name: reading an option nobody declared is
// a programmer error, not a runtime condition.
func (s *Set) Source(name string) Source {
	return s.lookup(name).source
}

// Names returns all declared option names in sorted order, for stable
// diagnostic dumps.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the resolved value of a string option.
func (s *Set) String(name string) string {
	e := s.lookup(name)
	v, ok := e.value.(string)
	if !ok {
		panic(fmt.Sprintf("option %q is %s, not string", name, e.kind))
	}
	return v
}

// Bool returns the resolved value of a boolean option.
func (s *Set) Bool(name string) bool {
	e := s.lookup(name)
	v, ok := e.value.(bool)
	if !ok {
		panic(fmt.Sprintf("option %q is %s, not bool", name, e.kind))
	}
	return v
}

// Int returns the resolved value of an int or count option.
func (s *Set) Int(name string) int {
	e := s.lookup(name)
	v, ok := e.value.(int)
	if !ok {
		panic(fmt.Sprintf("option %q is %s, not int", name, e.kind))
	}
	return v
}

// List returns the resolved sequence of a list option. The returned slice
// is a copy; the set stays immutable after sealing.
func (s *Set) List(name string) []string {
	e := s.lookup(name)
	v, ok := e.value.([]string)
	if !ok {
		panic(fmt.Sprintf("option %q is %s, not list", name, e.kind))
	}
	return append([]string(nil), v...)
}

// lookup returns the entry for name or panics. Every access site reads an
// option it declared itself, so a miss is always a coding mistake.
func (s *Set) lookup(name string) *entry {
	e, ok := s.entries[name]
	if !ok {
		panic(fmt.Sprintf("option %q was never declared", name))
	}
	return e
}
