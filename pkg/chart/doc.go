// Package chart provides serialization types for bubble chart datasets and
// layouts.
//
// This package defines the wire formats used for input files, API payloads,
// caching and storage.
//
// # Core Types
//
//   - [Dataset], [CategoryDoc]: chart input, readable from JSON, YAML and TOML
//   - [RawWeight]: a weight as written ("53%" or 53), parsed leniently
//   - [Layout], [Bubble]: one computed drill-down view, serialized as JSON
//
// # Datasets
//
//	ds, _ := chart.ReadDatasetFile("holdings.yaml")
//	cats := ds.Normalized()          // normalized []bubble.Category
//	data, _ := chart.MarshalDataset(ds, chart.FormatTOML)
//
// Older exports spell the weight key "percentage" and the children key
// "subcategories"; both are accepted on input and rewritten on output.
//
// # Layouts
//
//	sel := drilldown.New(ds.Normalized(), bubble.DefaultConfig())
//	_ = sel.Select(0)
//	layout := chart.FromSelector(ds.Title, sel)
//	chart.WriteLayoutFile(layout, "holdings.layout.json")
//
// # Samples
//
// [Sample] returns the built-in datasets listed by [SampleNames], useful for
// demos and tests.
package chart
