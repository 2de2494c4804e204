// Package pkg provides the core libraries for vegabundle.
//
// # Overview
//
// Vegabundle turns Vega and Vega-Lite specifications into minimal JavaScript
// bundles. A full Vega build registers every transform the runtime knows; a
// vegabundle registers only the transforms the bundled specs actually use,
// together with a factory function per spec.
//
// # Architecture
//
// The typical data flow:
//
//	Vega / Vega-Lite JSON
//	         ↓
//	    [parse] package (detect dialect, compile to a runtime dataflow)
//	         ↓
//	    [analyze] package (walk operators, map transforms to modules)
//	         ↓
//	    [codegen] package (emit the entry ES module)
//	         ↓
//	    [build] package (bundle with esbuild as umd, iife or es)
//
// [bundle] ties these steps together for a set of named specs, and
// [pipeline] adds caching and the hooks shared by the CLI and the HTTP
// service.
//
// # Quick Start
//
//	b := bundle.New()
//	if _, err := b.Add(ctx, "sales", raw); err != nil {
//	    return err
//	}
//	js, err := b.Build(ctx, bundle.BuildOptions{})
//
// # Main Packages
//
// [dataflow] - The runtime dataflow model: operators, nested subflows and the
// ordered spec collection.
//
// [transforms] - The static package index mapping transform names to the
// Vega module that exports them.
//
// [analyze] - Module map construction. Fails with UNRECOGNIZED_TRANSFORM on
// any operator no indexed module exports.
//
// [codegen] - The generated entry source. Output is deterministic for a
// given module map and spec collection.
//
// [parse] - Dialect detection and the node-backed Vega/Vega-Lite compiler.
//
// [build] - Output options and the esbuild-backed builder.
//
// [bundle] - The aggregator API.
//
// ## Infrastructure
//
// [pipeline] - Cached parse → analyze → codegen → build used by the CLI and
// the HTTP service.
//
// [cache] - File, memory (LRU) and Redis caches with content-addressed keys.
//
// [manifest] - The vegabundle.toml project file.
//
// [inspect] - Module usage reports as text, DOT, SVG or PNG.
//
// [server] - The HTTP bundle service.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Builds in tests use [build/buildtest.StubPlugin], which serves stub vega
// modules so no npm install is needed:
//
//	go test ./...
//
// [dataflow]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/dataflow
// [transforms]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/transforms
// [analyze]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/analyze
// [codegen]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/codegen
// [parse]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/parse
// [build]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/build
// [build/buildtest.StubPlugin]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/build/buildtest#StubPlugin
// [bundle]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/bundle
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/cache
// [manifest]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/manifest
// [inspect]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/inspect
// [server]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/vegabundle/pkg/buildinfo
package pkg
