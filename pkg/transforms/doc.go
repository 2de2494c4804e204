// Package transforms indexes the Vega extension modules that export dataflow
// transforms.
//
// Vega splits its dataflow transforms across several npm packages
// (vega-transforms, vega-geo, vega-hierarchy, ...). A bundle only needs the
// packages whose transforms its specs actually use, so the first step of
// bundling is to map every operator type to the package that exports it.
//
// The mapping is a static, versioned table ([Modules], [TableVersion]) rather
// than something discovered by loading the packages. The table is checked by
// this package's tests.
//
// # Lookup
//
// [Index.FindPackage] scans modules in declaration order and returns the
// first one exporting the name, so resolution stays deterministic even if two
// modules were to export the same name:
//
//	idx := transforms.Default()
//	if mod, ok := idx.FindPackage("geoshape"); ok {
//	    fmt.Println(mod) // vega-geo
//	}
//
// A miss is a normal result; deciding what an unknown name means is left to
// the caller.
package transforms
