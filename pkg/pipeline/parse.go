package pipeline

import (
	"os"
	"strings"

	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/errors"
)

// SamplePrefix marks a dataset reference as a built-in sample, e.g.
// "sample:portfolio".
const SamplePrefix = "sample:"

// LoadDataset resolves a dataset reference. A reference is either a path to
// a JSON, YAML or TOML file, "sample:<name>", or a bare sample name when no
// file of that name exists.
func LoadDataset(ref string) (chart.Dataset, error) {
	if name, ok := strings.CutPrefix(ref, SamplePrefix); ok {
		return chart.Sample(name)
	}
	if _, err := os.Stat(ref); err != nil && os.IsNotExist(err) {
		if ds, serr := chart.Sample(ref); serr == nil {
			return ds, nil
		}
		return chart.Dataset{}, errors.Wrap(errors.ErrCodeFileNotFound, err,
			"dataset %q is neither a file nor a sample", ref)
	}
	return chart.ReadDatasetFile(ref)
}

