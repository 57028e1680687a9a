// Package config is the configuration-file collaborator for the sos CLI.
//
// The dispatch core only consumes a flat mapping of option names to string
// values; this package produces that mapping from a file on disk. Files are
// YAML mappings by default. Files named *.json or *.jsonc may carry
// comments and trailing commas, which are stripped with github.com/tidwall/jsonc
// before parsing (YAML is a superset of JSON, so one decoder serves both).
//
// Malformed content is reported as a model.ConfigParseError. The policy for
// that error — skip the file merge, log, continue — belongs to the caller,
// not to this package.
package config
