package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/slowlang/mapdiff/mapfile/symtab"
)

type (
	Config struct {
		Parse  Parse  `yaml:"parse"`
		Diff   Diff   `yaml:"diff"`
		Report Report `yaml:"report"`
	}

	Parse struct {
		FillMarker string `yaml:"fill_marker"`
		StubIndent int    `yaml:"stub_indent"`
		Demangle   bool   `yaml:"demangle"`
	}

	Diff struct {
		MinDelta uint64   `yaml:"min_delta"`
		Include  []string `yaml:"include"`
		Exclude  []string `yaml:"exclude"`
	}

	Report struct {
		Format  string `yaml:"format"`
		Summary bool   `yaml:"summary"`
	}
)

var Formats = []string{"tsv", "table", "json"}

func Default() Config {
	return Config{
		Parse: Parse{
			FillMarker: symtab.DefaultFillMarker,
			StubIndent: symtab.DefaultStubIndent,
		},
		Report: Report{
			Format: "tsv",
		},
	}
}

// Load reads yaml config file on top of defaults.
func Load(name string) (Config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	return Decode(data)
}

func Decode(data []byte) (Config, error) {
	c := Default()

	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)

	err := d.Decode(&c)
	if err != nil && err != io.EOF { // empty file is fine
		return Config{}, errors.Wrap(err, "decode config")
	}

	err = c.Validate()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) Validate() error {
	if c.Parse.FillMarker == "" {
		return errors.New("parse: empty fill_marker")
	}

	if c.Parse.StubIndent <= 0 {
		return errors.New("parse: stub_indent must be positive: %d", c.Parse.StubIndent)
	}

	for _, f := range Formats {
		if c.Report.Format == f {
			return nil
		}
	}

	return errors.New("report: unsupported format: %q", c.Report.Format)
}
