// Package manifest loads vegabundle.toml, the file that lists the specs of a
// bundle and how to build it.
//
//	output = "dist/charts.js"
//
//	[build]
//	name = "charts"
//	format = "umd"
//	targets = ["es2018"]
//	minify = true
//
//	[[spec]]
//	name = "sales"
//	path = "specs/sales.vl.json"
//
// Relative paths are resolved against the directory holding the manifest.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vegabundle/pkg/build"
	"github.com/matzehuels/vegabundle/pkg/bundle"
	"github.com/matzehuels/vegabundle/pkg/errors"
)

// DefaultFile is the manifest looked up when none is given.
const DefaultFile = "vegabundle.toml"

// Manifest is the decoded manifest file.
type Manifest struct {
	Output string `toml:"output"`
	Build  Build  `toml:"build"`
	Specs  []Spec `toml:"spec"`

	// dir is the directory relative paths resolve against.
	dir string
}

// Build holds the [build] table. Unset booleans keep the defaults.
type Build struct {
	Name       string   `toml:"name"`
	Format     string   `toml:"format"`
	Targets    []string `toml:"targets"`
	Transpile  *bool    `toml:"transpile"`
	Minify     *bool    `toml:"minify"`
	Specs      *bool    `toml:"specs"`
	ResolveDir string   `toml:"resolve_dir"`
}

// Spec is one [[spec]] entry.
type Spec struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates manifest text. Relative paths resolve against
// the current directory.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown keys: %s", strings.Join(keys, ", "))
	}
	m.dir = "."
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Find returns the path of DefaultFile in dir, or "" if there is none.
func Find(dir string) string {
	path := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Validate checks spec names, paths and the build format.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Specs))
	for i, s := range m.Specs {
		if err := errors.ValidateSpecName(s.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "spec %d", i+1)
		}
		if seen[s.Name] {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate spec name %q", s.Name)
		}
		seen[s.Name] = true
		if err := errors.ValidatePath(s.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "spec %q", s.Name)
		}
	}
	if m.Build.Format != "" {
		if err := build.ValidateFormat(m.Build.Format); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "build.format")
		}
	}
	return nil
}

// Resolve returns path relative to the manifest directory.
func (m *Manifest) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.dir, path)
}

// OutputPath returns the resolved output path, or "" for stdout.
func (m *Manifest) OutputPath() string {
	return m.Resolve(m.Output)
}

// BuildOptions converts the [build] table to build options.
func (m *Manifest) BuildOptions() build.Options {
	opts := build.Options{
		Name:       m.Build.Name,
		Format:     m.Build.Format,
		Targets:    m.Build.Targets,
		ResolveDir: m.Resolve(m.Build.ResolveDir),
	}
	if m.Build.ResolveDir == "" {
		opts.ResolveDir = m.dir
	}
	if m.Build.Transpile != nil {
		opts.NoTranspile = !*m.Build.Transpile
	}
	if m.Build.Minify != nil {
		opts.NoMinify = !*m.Build.Minify
	}
	return opts
}

// ExcludeSpecs reports whether the manifest asks for a runtime-only bundle.
func (m *Manifest) ExcludeSpecs() bool {
	return m.Build.Specs != nil && !*m.Build.Specs
}

// ReadSpecs reads every listed spec file.
func (m *Manifest) ReadSpecs() ([]bundle.Input, error) {
	inputs := make([]bundle.Input, 0, len(m.Specs))
	for _, s := range m.Specs {
		path := m.Resolve(s.Path)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "spec %q", s.Name).WithSubject(path)
		}
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, bundle.Input{Name: s.Name, Spec: json.RawMessage(data)})
	}
	return inputs, nil
}
