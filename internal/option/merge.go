// merge.go implements the two mutation stages of a Set: the command-line
// merge and the configuration-file merge. Order matters and is enforced by
// the lifecycle, not here: defaults are seeded at declaration, the CLI merge
// runs first, the file merge fills what the CLI left unset.
package option

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/sosreport/sos/internal/model"
)

// MergeCommandLine merges values the user explicitly supplied on the
// command line into the set. A flag is merged only when pflag marked it
// Changed — flags resting at their parser default are treated as absent so
// they cannot shadow a configuration-file value.
//
// Flags are matched to options by name. flagNames maps option names to
// differently named flags (e.g. the "verbosity" option is fed by the
// "verbose" count flag); options not present in the map use their own name.
func (s *Set) MergeCommandLine(fs *pflag.FlagSet, flagNames map[string]string) error {
	if s.sealed {
		return fmt.Errorf("option set is sealed, cannot merge command line")
	}

	for name, e := range s.entries {
		flagName := name
		if alias, ok := flagNames[name]; ok {
			flagName = alias
		}

		f := fs.Lookup(flagName)
		if f == nil || !f.Changed {
			continue
		}

		// The typed getters fail only when the flag was registered with
		// a type that disagrees with the declaration; surface that as an
		// argument error rather than a silent drop.
		var (
			value any
			err   error
		)
		switch e.kind {
		case KindString:
			value, err = fs.GetString(flagName)
		case KindBool:
			value, err = fs.GetBool(flagName)
		case KindInt:
			value, err = fs.GetInt(flagName)
		case KindCount:
			value, err = fs.GetCount(flagName)
		case KindList:
			value, err = fs.GetStringArray(flagName)
		}
		if err != nil {
			return &model.ArgumentError{Option: name, Err: err}
		}

		e.value = value
		e.source = SourceCLI
	}

	return nil
}

// stagedValue is one pending config-file assignment. MergeConfig coerces
// every key into this form before touching the set, so a bad value cannot
// leave a half-applied file layer behind.
type stagedValue struct {
	entry  *entry
	value  any
	source Source
}

// MergeConfig merges configuration-file values into options still at their
// declared default. Options the user already set on the command line keep
// their CLI value, except list options, which append the file values after
// the CLI-supplied ones.
//
// Keys in the file that match no declared option are not an error — the
// file is shared by every component — so they are returned for the caller
// to log. A value that fails type coercion fails the whole merge: no file
// value is applied, every option keeps its prior value and source, and the
// caller skips the file layer entirely.
func (s *Set) MergeConfig(values map[string][]string) (unknown []string, err error) {
	if s.sealed {
		return nil, fmt.Errorf("option set is sealed, cannot merge config file")
	}

	var staged []stagedValue
	for key, raw := range values {
		e, ok := s.entries[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}

		if e.kind == KindList {
			// Lists extend rather than overwrite: file values are
			// appended after whatever the CLI contributed, and the
			// recorded source reflects the highest layer that wrote.
			if e.source == SourceDefault {
				staged = append(staged, stagedValue{
					entry:  e,
					value:  append([]string(nil), raw...),
					source: SourceFile,
				})
			} else {
				staged = append(staged, stagedValue{
					entry:  e,
					value:  append(append([]string(nil), e.value.([]string)...), raw...),
					source: e.source,
				})
			}
			continue
		}

		// Non-list options: the command line wins outright.
		if e.source != SourceDefault {
			continue
		}
		if len(raw) != 1 {
			return unknown, fmt.Errorf("option %q: expected a single value, got %d", key, len(raw))
		}

		var value any
		switch e.kind {
		case KindString:
			value = raw[0]
		case KindBool:
			b, perr := strconv.ParseBool(raw[0])
			if perr != nil {
				return unknown, fmt.Errorf("option %q: %q is not a boolean", key, raw[0])
			}
			value = b
		case KindInt, KindCount:
			n, perr := strconv.Atoi(raw[0])
			if perr != nil {
				return unknown, fmt.Errorf("option %q: %q is not an integer", key, raw[0])
			}
			value = n
		}
		staged = append(staged, stagedValue{entry: e, value: value, source: SourceFile})
	}

	// Every value coerced; apply the layer in one step.
	for _, sv := range staged {
		sv.entry.value = sv.value
		sv.entry.source = sv.source
	}

	return unknown, nil
}
