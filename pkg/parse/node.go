package parse

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/errors"
)

// NodeEnv names the environment variable that overrides the node binary.
const NodeEnv = "VEGABUNDLE_NODE"

// DefaultTimeout bounds a single node invocation.
const DefaultTimeout = 30 * time.Second

// nodeScript reads a spec on stdin and writes the runtime dataflow to
// stdout. argv[1] selects the dialect.
const nodeScript = `
import * as vega from "vega";
const chunks = [];
for await (const chunk of process.stdin) chunks.push(chunk);
let spec = JSON.parse(Buffer.concat(chunks).toString("utf8"));
if (process.argv[1] === "vega-lite") {
  const vl = await import("vega-lite");
  spec = vl.compile(spec).spec;
}
process.stdout.write(JSON.stringify(vega.parse(spec)));
`

// NodeParser parses specifications by running the vega npm packages in a
// node process.
type NodeParser struct {
	// NodePath is the node executable.
	NodePath string

	// Dir is the working directory; vega and vega-lite must be resolvable
	// from it.
	Dir string

	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewNodeParser locates node and returns a parser resolving packages from
// dir. NodeEnv takes precedence over PATH and common install locations.
func NewNodeParser(dir string) (*NodeParser, error) {
	path, err := findNode()
	if err != nil {
		return nil, err
	}
	return &NodeParser{NodePath: path, Dir: dir, Timeout: DefaultTimeout}, nil
}

func findNode() (string, error) {
	if p := os.Getenv(NodeEnv); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "%s points to a missing file", NodeEnv)
		}
		return p, nil
	}
	if p, err := exec.LookPath("node"); err == nil {
		return p, nil
	}

	candidates := []string{
		"/usr/local/bin/node",
		"/usr/bin/node",
		"/opt/homebrew/bin/node",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".volta", "bin", "node"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnsupported, "node is required to parse Vega and Vega-Lite specifications; install it from https://nodejs.org")
}

// ParseVega runs vega.parse over raw.
func (p *NodeParser) ParseVega(ctx context.Context, raw []byte) (*dataflow.Spec, error) {
	return p.run(ctx, DialectVega, raw)
}

// ParseVegaLite compiles raw to Vega and parses the result.
func (p *NodeParser) ParseVegaLite(ctx context.Context, raw []byte) (*dataflow.Spec, error) {
	return p.run(ctx, DialectVegaLite, raw)
}

func (p *NodeParser) run(ctx context.Context, d Dialect, raw []byte) (*dataflow.Spec, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.NodePath, "--input-type=module", "-e", nodeScript, string(d)) //nolint:gosec // NodePath is chosen by the caller or NewNodeParser
	cmd.Dir = p.Dir
	cmd.Stdin = bytes.NewReader(raw)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, errors.New(errors.ErrCodeTimeout, "parsing %s specification timed out after %s", d, timeout)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if runErr != nil {
		msg := cleanNodeError(stderr.String())
		if msg == "" {
			msg = runErr.Error()
		}
		return nil, errors.Wrap(errors.ErrCodeParseFailed, runErr, "%s: %s", d, msg)
	}

	spec, err := dataflow.Parse(stdout.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "%s: unexpected parser output", d)
	}
	return spec, nil
}

var (
	stackFrame = regexp.MustCompile(`^\s+at `)
	errorLine  = regexp.MustCompile(`^(\w*Error|Error \[\w+\]):`)
)

// cleanNodeError picks the message out of a node stack trace.
func cleanNodeError(stderr string) string {
	var last string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || stackFrame.MatchString(line) {
			continue
		}
		if errorLine.MatchString(line) {
			return strings.TrimSpace(line)
		}
		last = strings.TrimSpace(line)
	}
	return last
}
