package chart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bubblechart/pkg/bubble"
)

// RawWeight is a category weight exactly as written in a dataset: a number
// (53, 12.5) or a percentage string ("53%"). Decoding never fails on
// content; [RawWeight.Float] maps anything malformed to 0.
type RawWeight string

// Weight returns the RawWeight for a numeric percentage.
func Weight(f float64) RawWeight {
	return RawWeight(strconv.FormatFloat(f, 'f', -1, 64))
}

// Float parses the weight as a percentage.
func (w RawWeight) Float() float64 { return bubble.ParseWeight(string(w)) }

// number reports w as a plain finite number, if it is one.
func (w RawWeight) number() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(w)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MarshalJSON writes plain numbers unquoted and everything else as a string.
func (w RawWeight) MarshalJSON() ([]byte, error) {
	if w == "" {
		return []byte("0"), nil
	}
	if f, ok := w.number(); ok {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return json.Marshal(string(w))
}

// UnmarshalJSON accepts a number, a string or null.
func (w *RawWeight) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*w = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*w = RawWeight(str)
	default:
		*w = RawWeight(s)
	}
	return nil
}

// MarshalYAML emits plain numbers as YAML floats.
func (w RawWeight) MarshalYAML() (any, error) {
	if f, ok := w.number(); ok {
		return f, nil
	}
	if w == "" {
		return 0, nil
	}
	return string(w), nil
}

// UnmarshalYAML accepts any scalar. Non-scalar nodes decode as empty.
func (w *RawWeight) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
		*w = ""
		return nil
	}
	*w = RawWeight(value.Value)
	return nil
}

// MarshalTOML emits plain numbers bare and everything else quoted.
func (w RawWeight) MarshalTOML() ([]byte, error) {
	if f, ok := w.number(); ok {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	if w == "" {
		return []byte("0"), nil
	}
	return []byte(strconv.Quote(string(w))), nil
}

// UnmarshalTOML accepts TOML integers, floats and strings.
func (w *RawWeight) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*w = RawWeight(x)
	case int64:
		*w = RawWeight(strconv.FormatInt(x, 10))
	case float64:
		*w = Weight(x)
	default:
		*w = ""
	}
	return nil
}
