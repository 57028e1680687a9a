package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sosreport/sos/internal/model"
)

// writeConfig drops content into a temp file and returns its path.
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad_YAMLScalarsAndSequences verifies the normal YAML path: scalars
// become single-element lists, sequences keep their order, and non-string
// scalars are stringified for the option layer to re-coerce.
func TestLoad_YAMLScalarsAndSequences(t *testing.T) {
	path := writeConfig(t, "sos.conf", `
tmp-dir: /var/tmp/sos
quiet: true
verbosity: 2
enable-plugins:
  - networking
  - kernel
`)

	values, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/var/tmp/sos"}, values["tmp-dir"])
	assert.Equal(t, []string{"true"}, values["quiet"])
	assert.Equal(t, []string{"2"}, values["verbosity"])
	assert.Equal(t, []string{"networking", "kernel"}, values["enable-plugins"])
}

// TestLoad_JSONCStripsComments verifies that .jsonc files may carry
// comments and trailing commas; they are stripped before decoding.
func TestLoad_JSONCStripsComments(t *testing.T) {
	path := writeConfig(t, "sos.jsonc", `{
  // site-wide collection settings
  "tmp-dir": "/scratch/sos",
  "quiet": false, /* keep console output */
}`)

	values, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/scratch/sos"}, values["tmp-dir"])
	assert.Equal(t, []string{"false"}, values["quiet"])
}

// TestLoad_MissingFileIsNotAnError verifies the default /etc/sos.conf being
// absent yields empty values, not a failure.
func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	values, err := Load(filepath.Join(t.TempDir(), "no-such.conf"))
	require.NoError(t, err)
	assert.Empty(t, values)
}

// TestLoad_MalformedContent verifies syntax errors surface as a
// ConfigParseError carrying the file path.
func TestLoad_MalformedContent(t *testing.T) {
	path := writeConfig(t, "sos.conf", "tmp-dir: [unclosed\n  nested: {")

	_, err := Load(path)
	require.Error(t, err)

	var parseErr *model.ConfigParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, path, parseErr.Path)
}

// TestLoad_NestedMappingRejected verifies a value that is itself a mapping
// is rejected: the contract is flat key/value semantics only.
func TestLoad_NestedMappingRejected(t *testing.T) {
	path := writeConfig(t, "sos.conf", "report:\n  label: nightly\n")

	_, err := Load(path)
	require.Error(t, err)

	var parseErr *model.ConfigParseError
	assert.True(t, errors.As(err, &parseErr))
}
