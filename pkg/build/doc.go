// Package build compiles generated index source into a distributable bundle.
//
// The [Esbuild] builder feeds the source to esbuild as a virtual stdin entry
// named bundle-index.js, bundles every import it references, and returns the
// single output file. Module resolution starts at [Options.ResolveDir], so
// the vega packages must be installed there (or served by a plugin).
//
// # Formats
//
//   - umd: CommonJS output wrapped so it loads under AMD, CommonJS or as a
//     browser global named [Options.Name]
//   - iife: a script assigning the exports to the global [Options.Name]
//   - es: an ES module
//
// # Targets
//
// Targets accept esbuild's syntax targets ("es2018", "esnext") and engine
// versions ("chrome58", "firefox57", "safari11", "edge16", "node18").
package build
