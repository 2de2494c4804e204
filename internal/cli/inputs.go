package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vegabundle/pkg/bundle"
	"github.com/matzehuels/vegabundle/pkg/errors"
	"github.com/matzehuels/vegabundle/pkg/manifest"
)

// stdinArg reads a spec from standard input.
const stdinArg = "-"

// loadManifest loads the manifest at path. With an empty path it looks for
// manifest.DefaultFile in the working directory and returns nil if there is
// none.
func loadManifest(path string) (*manifest.Manifest, error) {
	if path == "" {
		path = manifest.Find(".")
		if path == "" {
			return nil, nil
		}
	}
	return manifest.Load(path)
}

// runInputs are the resolved inputs of a bundle, codegen or inspect run.
type runInputs struct {
	manifest *manifest.Manifest // nil without a manifest
	specs    []bundle.Input
}

// readRunInputs loads the manifest named by config (or the default one) and
// the specs for args.
func readRunInputs(cmd *cobra.Command, args []string, config string) (*runInputs, error) {
	m, err := loadManifest(config)
	if err != nil {
		return nil, err
	}
	specs, err := loadInputs(args, m, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return &runInputs{manifest: m, specs: specs}, nil
}

// loadInputs resolves the specs of a command. Files named on the command
// line become spec0, spec1, ... in order; without any, the manifest's
// [[spec]] entries are read.
func loadInputs(args []string, m *manifest.Manifest, stdin io.Reader) ([]bundle.Input, error) {
	if len(args) == 0 {
		if m == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"no spec files given and no %s found", manifest.DefaultFile)
		}
		return m.ReadSpecs()
	}

	inputs := make([]bundle.Input, 0, len(args))
	for i, arg := range args {
		data, err := readSpecFile(arg, stdin)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, bundle.Input{
			Name: fmt.Sprintf("spec%d", i),
			Spec: json.RawMessage(data),
		})
	}
	return inputs, nil
}

func readSpecFile(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "spec file %s", path).WithSubject(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, creating parent directories, or to
// stdout when path is empty.
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
