// Package parse turns raw visualization specifications into dataflow specs.
//
// Three input dialects are recognized by [Detect]:
//
//   - Vega specifications, parsed with vega.parse
//   - Vega-Lite specifications, compiled to Vega first
//   - runtime dataflow specs that are already parsed, passed through as is
//
// Parsing the visualization grammar is delegated to a [Parser]. The
// [NodeParser] runs the vega and vega-lite npm packages in a node process;
// [DataflowParser] accepts only pre-parsed input and needs no JavaScript
// runtime.
package parse
