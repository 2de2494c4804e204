package build

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/vegabundle/pkg/build/buildtest"
	"github.com/matzehuels/vegabundle/pkg/errors"
)

const index = `import { View } from "vega-view";
import { transforms } from "vega-dataflow";
import { aggregate } from "vega-transforms";
import { geoshape } from "vega-geo";

Object.assign(transforms, {
  aggregate,
  geoshape,
});

export { View } from "vega-view";

export function chart(opt) {
  return new View(spec_chart, opt);
}

const spec_chart = {"operators":[{"type":"aggregate"},{"type":"geoshape"}]};
`

func stubOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		ResolveDir: t.TempDir(),
		Plugins:    []api.Plugin{buildtest.StubPlugin(nil)},
	}
}

func TestBuildFormats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{format: FormatUMD, want: []string{"define.amd", `root["vegaBundle"]`, "return module.exports;"}},
		{format: FormatIIFE, want: []string{"var vegaBundle="}},
		{format: FormatES, want: []string{"export{"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			opts := stubOptions(t)
			opts.Format = tt.format
			out, err := Esbuild{}.Build(context.Background(), index, opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if strings.TrimSpace(out) == "" {
				t.Fatal("empty output")
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			if !strings.Contains(out, `"operators"`) {
				t.Error("embedded spec missing from output")
			}
		})
	}
}

func TestBuildUnminified(t *testing.T) {
	opts := stubOptions(t)
	opts.NoMinify = true
	out, err := Esbuild{}.Build(context.Background(), index, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(out, "function chart(opt)") {
		t.Errorf("unminified output should keep names:\n%s", out)
	}
}

func TestBuildUnresolvedImport(t *testing.T) {
	code := `import { nothing } from "vega-nonexistent";
export { nothing };
`
	_, err := Esbuild{}.Build(context.Background(), code, stubOptions(t))
	if !errors.Is(err, errors.ErrCodeBuildFailed) {
		t.Fatalf("error = %v, want BUILD_FAILED", err)
	}
	if !strings.Contains(errors.UserMessage(err), "vega-nonexistent") {
		t.Errorf("message should name the import: %v", err)
	}
}

func TestBuildInvalidOptions(t *testing.T) {
	opts := stubOptions(t)
	opts.Format = "amd"
	if _, err := (Esbuild{}).Build(context.Background(), index, opts); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Esbuild{}).Build(ctx, index, stubOptions(t)); err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestBuildConcurrent(t *testing.T) {
	const n = 8
	opts := stubOptions(t)

	var wg sync.WaitGroup
	outs := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], errs[i] = Esbuild{}.Build(context.Background(), index, opts)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("build %d: %v", i, errs[i])
		}
		if outs[i] != outs[0] {
			t.Errorf("build %d differs from build 0", i)
		}
	}
}
