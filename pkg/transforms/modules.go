package transforms

// TableVersion identifies the Vega release line the module table was taken
// from. Bump it whenever the table changes.
const TableVersion = "vega@5.30"

// Module is a Vega extension package and the transforms it exports.
type Module struct {
	Name       string   `json:"name"`
	Transforms []string `json:"transforms"`
}

// Modules is the ordered list of known extension modules.
var Modules = []Module{
	{
		Name:       "vega-crossfilter",
		Transforms: []string{"crossfilter", "resolvefilter"},
	},
	{
		Name: "vega-encode",
		Transforms: []string{
			"axisticks", "datajoin", "encode", "legendentries", "linkpath",
			"pie", "scale", "sortitems", "stack",
		},
	},
	{
		Name:       "vega-force",
		Transforms: []string{"force"},
	},
	{
		Name: "vega-geo",
		Transforms: []string{
			"contour", "geojson", "geopath", "geopoint", "geoshape",
			"graticule", "heatmap", "isocontour", "kde2d", "projection",
		},
	},
	{
		Name: "vega-hierarchy",
		Transforms: []string{
			"nest", "pack", "partition", "stratify", "tree", "treelinks",
			"treemap",
		},
	},
	{
		Name:       "vega-label",
		Transforms: []string{"label"},
	},
	{
		Name:       "vega-regression",
		Transforms: []string{"loess", "regression"},
	},
	{
		Name: "vega-transforms",
		Transforms: []string{
			"aggregate", "bin", "collect", "compare", "countpattern", "cross",
			"density", "dotbin", "expression", "extent", "facet", "field",
			"filter", "flatten", "fold", "formula", "generate", "impute",
			"joinaggregate", "kde", "key", "load", "lookup", "multiextent",
			"multivalues", "params", "pivot", "prefacet", "project", "proxy",
			"quantile", "relay", "sample", "sequence", "sieve", "subflow",
			"timeunit", "tupleindex", "values", "window",
		},
	},
	{
		Name: "vega-view-transforms",
		Transforms: []string{
			"bound", "identifier", "mark", "overlap", "render", "viewlayout",
		},
	},
	{
		Name:       "vega-voronoi",
		Transforms: []string{"voronoi"},
	},
	{
		Name:       "vega-wordcloud",
		Transforms: []string{"wordcloud"},
	},
}
