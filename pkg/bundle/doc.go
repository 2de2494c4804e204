// Package bundle aggregates dataflow specs into a single vega bundle.
//
// A [Bundle] accumulates named specs, records the transform modules each one
// needs, and produces either the generated index source ([Bundle.Codegen])
// or a compiled artifact ([Bundle.Build]):
//
//	b := bundle.New()
//	if _, err := b.Add(ctx, "sales", raw); err != nil {
//	    return err
//	}
//	out, err := b.Build(ctx, bundle.BuildOptions{})
//
// A Bundle is meant for a single caller; it does no locking. Independent
// bundles share no mutable state and may be built in parallel.
package bundle
