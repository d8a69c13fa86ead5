package chart

import (
	"slices"
	"strings"

	"github.com/matzehuels/bubblechart/pkg/errors"
)

// Built-in sample dataset names.
const (
	SamplePortfolio = "portfolio"
	SampleBought    = "bought"
	SampleSold      = "sold"
)

var samples = map[string]func() Dataset{
	SamplePortfolio: portfolioSample,
	SampleBought:    boughtSample,
	SampleSold:      soldSample,
}

// SampleNames returns the built-in dataset names in sorted order.
func SampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Sample returns a fresh copy of a built-in dataset.
func Sample(name string) (Dataset, error) {
	fn, ok := samples[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Dataset{}, errors.New(errors.ErrCodeNotFound,
			"unknown sample %q (available: %s)", name, strings.Join(SampleNames(), ", "))
	}
	return fn(), nil
}

func leaf(name string, w float64) CategoryDoc {
	return CategoryDoc{Name: name, Weight: Weight(w)}
}

// portfolioSample uses percentage strings, the way holdings are exported.
func portfolioSample() Dataset {
	return Dataset{
		Title: "Portfolio",
		Categories: []CategoryDoc{
			{Name: "Technology", Weight: "53%", Color: "#f89c5e", Children: []CategoryDoc{
				leaf("Software", 50), leaf("Hardware", 30), leaf("Cloud Services", 20),
			}},
			{Name: "Consumer Goods", Weight: "22%", Color: "#d9d9d9", Children: []CategoryDoc{
				leaf("Food & Beverage", 45), leaf("Clothing", 35), leaf("Electronics", 20),
			}},
			{Name: "Healthcare", Weight: "14%", Color: "#b066f7", Children: []CategoryDoc{
				leaf("Pharmaceuticals", 40), leaf("Medical Devices", 35), leaf("Healthcare Services", 25),
			}},
			{Name: "Infrastructure", Weight: "6%", Color: "#e8ed69", Children: []CategoryDoc{
				leaf("Transportation", 40), leaf("Energy", 35), leaf("Utilities", 25),
			}},
			{Name: "Sustainability", Weight: "5%", Color: "#6dcff6", Children: []CategoryDoc{
				leaf("Renewable Energy", 60), leaf("Water Conservation", 25), leaf("Green Buildings", 15),
			}},
		},
	}
}

func boughtSample() Dataset {
	return Dataset{
		Title: "Most bought today",
		Categories: []CategoryDoc{
			{Name: "Technology", Weight: Weight(42), Color: "#f89c5e", Children: []CategoryDoc{
				leaf("Software", 55), leaf("Hardware", 25), leaf("Cloud Services", 20),
			}},
			{Name: "Healthcare", Weight: Weight(26), Color: "#b066f7", Children: []CategoryDoc{
				leaf("Pharmaceuticals", 40), leaf("Medical Devices", 35), leaf("Healthcare Services", 25),
			}},
			{Name: "Finance", Weight: Weight(18), Color: "#6dcff6", Children: []CategoryDoc{
				leaf("Banking", 45), leaf("Insurance", 30), leaf("Fintech", 25),
			}},
			{Name: "Consumer Goods", Weight: Weight(14), Color: "#e8ed69", Children: []CategoryDoc{
				leaf("Food & Beverage", 50), leaf("Apparel", 30), leaf("Home Products", 20),
			}},
		},
	}
}

func soldSample() Dataset {
	return Dataset{
		Title: "Most sold today",
		Categories: []CategoryDoc{
			{Name: "Real Estate", Weight: Weight(38), Color: "#e8ed69", Children: []CategoryDoc{
				leaf("Residential", 45), leaf("Commercial", 35), leaf("REITs", 20),
			}},
			{Name: "Energy", Weight: Weight(27), Color: "#6dcff6", Children: []CategoryDoc{
				leaf("Oil & Gas", 55), leaf("Utilities", 30), leaf("Alternative Energy", 15),
			}},
			{Name: "Materials", Weight: Weight(21), Color: "#f89c5e", Children: []CategoryDoc{
				leaf("Chemicals", 40), leaf("Metals & Mining", 35), leaf("Packaging", 25),
			}},
			{Name: "Industrials", Weight: Weight(14), Color: "#b066f7", Children: []CategoryDoc{
				leaf("Manufacturing", 50), leaf("Transportation", 30), leaf("Aerospace", 20),
			}},
		},
	}
}
