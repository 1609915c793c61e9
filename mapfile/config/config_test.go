package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "*fill*", c.Parse.FillMarker)
	assert.Equal(t, 8, c.Parse.StubIndent)
	assert.False(t, c.Parse.Demangle)
	assert.Equal(t, "tsv", c.Report.Format)
	assert.NoError(t, c.Validate())
}

func TestDecode(t *testing.T) {
	c, err := Decode([]byte(`
parse:
  stub_indent: 20
  demangle: true
diff:
  min_delta: 16
  include: ["mem*", "str*"]
  exclude:
    - "*_test"
report:
  format: json
  summary: true
`))
	require.NoError(t, err)

	assert.Equal(t, Config{
		Parse: Parse{
			FillMarker: "*fill*",
			StubIndent: 20,
			Demangle:   true,
		},
		Diff: Diff{
			MinDelta: 16,
			Include:  []string{"mem*", "str*"},
			Exclude:  []string{"*_test"},
		},
		Report: Report{
			Format:  "json",
			Summary: true,
		},
	}, c)
}

func TestDecodeEmpty(t *testing.T) {
	c, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		In  string
		Err string
	}{
		{In: "parse:\n  fill: x\n", Err: "decode config"},
		{In: "parse:\n  fill_marker: \"\"\n", Err: "parse: empty fill_marker"},
		{In: "parse:\n  stub_indent: -1\n", Err: "parse: stub_indent must be positive: -1"},
		{In: "report:\n  format: xml\n", Err: `report: unsupported format: "xml"`},
		{In: "diff: [1, 2]\n", Err: "decode config"},
	} {
		_, err := Decode([]byte(tc.In))
		if assert.Error(t, err, "%q", tc.In) {
			assert.Contains(t, err.Error(), tc.Err, "%q", tc.In)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "mapdiff.yaml")

	err := os.WriteFile(name, []byte("report:\n  format: table\n"), 0o644)
	require.NoError(t, err)

	c, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, "table", c.Report.Format)
	assert.Equal(t, 8, c.Parse.StubIndent)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
