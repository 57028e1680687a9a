// Package option implements the resolved configuration for one sos run.
//
// A Set is seeded with declared defaults, then mutated exactly twice, in
// order: values the user explicitly supplied on the command line are merged
// first, then values from the configuration file are merged into whatever
// is still unset. The effective precedence is therefore
//
//	command line > configuration file > built-in default
//
// with one deliberate exception: list-typed options accumulate across
// sources instead of overwriting, so file values append after CLI values.
//
// The subtlety the package exists for is telling "user typed -v" apart from
// "user typed nothing". The pflag Changed bit serves as that sentinel: a
// flag left at its parser default is treated as absent during the merge, so
// a configuration-file value is never shadowed by a default the user never
// actually typed. Each option tracks which source supplied its value.
//
// After sealing, a Set is read-only for the remainder of the run.
package option
