// Package analyze determines which Vega extension modules a dataflow spec
// needs.
//
// [Analyzer.Analyze] walks every operator of a spec, including operators of
// nested subflows at any depth, resolves each operator type against a
// [transforms.Index], and records the result in a [ModuleMap]. The generic
// "operator" type ([Sentinel]) is built into the Vega runtime and is skipped.
//
// An operator type that no module exports aborts the analysis with an
// UNRECOGNIZED_TRANSFORM error naming the type:
//
//	m := analyze.NewModuleMap()
//	if err := analyze.Analyze(spec, m); err != nil {
//	    if name, ok := analyze.UnrecognizedTransform(err); ok {
//	        log.Fatalf("unknown transform %q", name)
//	    }
//	    return err
//	}
//	for _, mod := range m.Modules() {
//	    fmt.Println(mod, m.Operators(mod))
//	}
//
// A module map only grows. Analyzing several specs into the same map yields
// the union of their requirements, and analyzing the same spec twice leaves
// the map unchanged.
package analyze
