// Package dataflow models Vega runtime dataflow specifications.
//
// A runtime dataflow spec is what the Vega parser produces from a Vega (or
// compiled Vega-Lite) specification: an object whose "operators" array lists
// every dataflow operator by type. This package decodes just enough of that
// structure to analyze which transforms a spec uses:
//
//   - [Operator] carries the operator type and, for control-flow operators
//     such as "facet", the nested subflow spec found at params.subflow.$subflow.
//   - [Spec] is an ordered list of operators. Specs decoded from JSON keep
//     their original (compacted) bytes so they re-encode exactly as parsed.
//   - [Collection] is an insertion-ordered set of named specs.
//
// # Usage
//
//	spec, err := dataflow.Parse(runtimeJSON)
//	if err != nil {
//	    return err
//	}
//	for _, op := range spec.Operators {
//	    fmt.Println(op.Type)
//	}
//
// Specs can also be built in code, which is convenient in tests:
//
//	spec := dataflow.NewSpec(
//	    dataflow.Op("collect"),
//	    dataflow.SubflowOp("facet", dataflow.NewSpec(dataflow.Op("aggregate"))),
//	)
//
// Specs are treated as immutable once built or decoded; mutating Operators on
// a decoded spec does not change its JSON encoding.
package dataflow
