package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bubblechart/pkg/bubble"
	"github.com/matzehuels/bubblechart/pkg/errors"
)

// =============================================================================
// Formats
// =============================================================================

// Dataset file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FormatFromPath infers the dataset format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"cannot infer dataset format from %q (use .json, .yaml, .yml or .toml)", filepath.Base(path))
}

// =============================================================================
// Dataset - Category Input Document
// =============================================================================

// Dataset is the serialization format for chart input: a titled list of
// weighted categories with optional subcategories.
//
//	{
//	  "title": "Portfolio",
//	  "categories": [
//	    {"name": "Technology", "weight": "53%", "color": "#f89c5e",
//	     "children": [{"name": "Software", "weight": 50}]}
//	  ]
//	}
//
// On input, "percentage" is accepted for "weight" and "subcategories" for
// "children".
type Dataset struct {
	Title      string        `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty" bson:"title,omitempty"`
	Categories []CategoryDoc `json:"categories" yaml:"categories" toml:"categories" bson:"categories"`
}

// CategoryDoc is one category in a [Dataset].
type CategoryDoc struct {
	Name     string        `json:"name" yaml:"name" toml:"name" bson:"name"`
	Weight   RawWeight     `json:"weight" yaml:"weight" toml:"weight" bson:"weight"`
	Color    string        `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty" bson:"color,omitempty"`
	Children []CategoryDoc `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty" bson:"children,omitempty"`
}

// categoryWire is the decoding shape of a category, carrying legacy keys.
type categoryWire struct {
	Name          string         `json:"name" yaml:"name" toml:"name"`
	Weight        *RawWeight     `json:"weight" yaml:"weight" toml:"weight"`
	Percentage    *RawWeight     `json:"percentage" yaml:"percentage" toml:"percentage"`
	Color         string         `json:"color" yaml:"color" toml:"color"`
	Children      []categoryWire `json:"children" yaml:"children" toml:"children"`
	Subcategories []categoryWire `json:"subcategories" yaml:"subcategories" toml:"subcategories"`
}

type datasetWire struct {
	Title      string         `json:"title" yaml:"title" toml:"title"`
	Categories []categoryWire `json:"categories" yaml:"categories" toml:"categories"`
}

func (c categoryWire) doc() CategoryDoc {
	out := CategoryDoc{Name: c.Name, Color: c.Color}
	switch {
	case c.Weight != nil:
		out.Weight = *c.Weight
	case c.Percentage != nil:
		out.Weight = *c.Percentage
	}
	children := c.Children
	if len(children) == 0 {
		children = c.Subcategories
	}
	for _, child := range children {
		out.Children = append(out.Children, child.doc())
	}
	return out
}

func (d datasetWire) dataset() Dataset {
	out := Dataset{Title: d.Title, Categories: make([]CategoryDoc, len(d.Categories))}
	for i, c := range d.Categories {
		out.Categories[i] = c.doc()
	}
	return out
}

// Validate checks that every category, at any depth, has a usable name.
// Weights are never rejected.
func (d Dataset) Validate() error {
	return validateDocs(d.Categories, "categories")
}

func validateDocs(docs []CategoryDoc, path string) error {
	for i, c := range docs {
		at := fmt.Sprintf("%s[%d]", path, i)
		if err := errors.ValidateCategoryName(c.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "%s", at)
		}
		if err := validateDocs(c.Children, at+".children"); err != nil {
			return err
		}
	}
	return nil
}

// Normalized converts the dataset into normalized layout input.
func (d Dataset) Normalized() []bubble.Category {
	return bubble.NormalizeAll(toCategories(d.Categories))
}

func toCategories(docs []CategoryDoc) []bubble.Category {
	out := make([]bubble.Category, len(docs))
	for i, c := range docs {
		out[i] = bubble.Category{
			Name:     c.Name,
			Weight:   c.Weight.Float(),
			Color:    c.Color,
			Children: toCategories(c.Children),
		}
	}
	return out
}

// FromCategories builds a dataset from layout input.
func FromCategories(title string, cats []bubble.Category) Dataset {
	return Dataset{Title: title, Categories: fromCategories(cats)}
}

func fromCategories(cats []bubble.Category) []CategoryDoc {
	if len(cats) == 0 {
		return nil
	}
	out := make([]CategoryDoc, len(cats))
	for i, c := range cats {
		out[i] = CategoryDoc{
			Name:     c.Name,
			Weight:   Weight(c.Weight),
			Color:    c.Color,
			Children: fromCategories(c.Children),
		}
	}
	return out
}

// =============================================================================
// Dataset Serialization API
// =============================================================================

// ParseDataset decodes and validates a dataset in the given format.
func ParseDataset(data []byte, format string) (Dataset, error) {
	var wire datasetWire
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &wire)
	case FormatYAML:
		err = yaml.Unmarshal(data, &wire)
	case FormatTOML:
		err = toml.Unmarshal(data, &wire)
	default:
		return Dataset{}, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported dataset format: %q (must be one of: json, yaml, toml)", format)
	}
	if err != nil {
		return Dataset{}, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode %s dataset", format)
	}

	ds := wire.dataset()
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// ReadDataset decodes a dataset from an io.Reader.
func ReadDataset(r io.Reader, format string) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	return ParseDataset(data, format)
}

// ReadDatasetFile reads a dataset file, inferring the format from its
// extension.
func ReadDatasetFile(path string) (Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Dataset{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Dataset{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseDataset(data, format)
}

// MarshalDataset encodes a dataset in the given format.
func MarshalDataset(d Dataset, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(d); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat,
		"unsupported dataset format: %q (must be one of: json, yaml, toml)", format)
}

// WriteDatasetFile writes a dataset, inferring the format from the path.
func WriteDatasetFile(d Dataset, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := MarshalDataset(d, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
