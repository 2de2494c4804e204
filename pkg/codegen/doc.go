// Package codegen emits the module-index JavaScript source for a bundle.
//
// The generated source imports exactly the transforms recorded in an
// [analyze.ModuleMap], registers them with vega-dataflow's transform
// registry, and re-exports the View class:
//
//	import { View } from "vega-view";
//	import { transforms } from "vega-dataflow";
//	import { aggregate } from "vega-transforms";
//
//	Object.assign(transforms, {
//	  aggregate,
//	});
//
//	export { View } from "vega-view";
//
// When a spec collection is passed, each spec gets a factory function that
// constructs a View over the embedded runtime spec, and the specs themselves
// are appended as compact JSON constants named with [SpecPrefix].
//
// Output depends only on the insertion order of the map and collection, so
// equal histories produce byte-identical source.
package codegen
