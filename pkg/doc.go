// Package pkg provides the core libraries for Bubblechart drill-down bubble charts.
//
// # Overview
//
// Bubblechart turns weighted categories ("Technology 53%") into circles
// sized by weight and packed onto a fixed canvas. Selecting a parent circle
// swaps in its subcategories; going back restores the parents. The pkg
// directory is organized into four areas:
//
//  1. Domain logic ([bubble], [drilldown]) - sizing, placement and selection
//  2. Documents ([chart]) - dataset files and layout documents
//  3. Output ([render], [pipeline]) - SVG/PNG/PDF/JSON with caching
//  4. Serving ([api], [store], [session], [cache]) - HTTP API and backends
//
// # Architecture
//
// The typical data flow:
//
//	Dataset file (JSON, YAML, TOML) or built-in sample
//	         ↓
//	    [chart] package (parse, normalize weights)
//	         ↓
//	    [drilldown] package (parents or children of one parent)
//	         ↓
//	    [bubble] package (size → spiral placement → grid fallback)
//	         ↓
//	    [render] packages (bubble SVG, Graphviz category tree)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Lay out a dataset and drill into its first parent:
//
//	import (
//	    "github.com/matzehuels/bubblechart/pkg/bubble"
//	    "github.com/matzehuels/bubblechart/pkg/chart"
//	    "github.com/matzehuels/bubblechart/pkg/drilldown"
//	    "github.com/matzehuels/bubblechart/pkg/render/sink"
//	)
//
//	ds, _ := chart.ReadDatasetFile("holdings.yaml")
//	sel := drilldown.New(ds.Normalized(), bubble.DefaultConfig())
//
//	parents := chart.FromSelector(ds.Title, sel)
//	_ = sel.Select(parents.Bubbles[0].Index)
//	children := chart.FromSelector(ds.Title, sel)
//
//	svg := sink.RenderSVG(children, sink.WithLabels())
//
// # Main Packages
//
// [bubble] - Weight parsing, diameter sizing, spiral placement with a grid
// fallback, and the parent/child tier configuration.
//
// [drilldown] - The two-state selector that swaps the active item set.
//
// [chart] - Dataset and layout documents, built-in samples.
//
// [pipeline] - Dataset → layout → artifacts with validation, defaults and
// caching. Used by both the CLI and the API.
//
// [render] - rsvg-convert based PDF/PNG conversion, with the bubble SVG
// writer in render/sink and the Graphviz category tree in render/tree.
//
// [cache] - Layout and artifact caches: file (CLI), Redis (API), null.
//
// [store] - Chart storage: memory and MongoDB.
//
// [session] - Drill-down sessions for the API: memory, file and Redis.
//
// [api] - chi HTTP server exposing charts, renders and sessions.
//
// [observability] - Hooks for layout, render, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/bubble/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Store tests against real services run when BUBBLECHART_TEST_MONGO_URI or
// BUBBLECHART_TEST_REDIS_URL is set.
//
// [bubble]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/bubble
// [drilldown]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/drilldown
// [chart]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/chart
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/store
// [session]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/session
// [api]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/bubblechart/pkg/observability
package pkg
