package bubble

// DefaultScaleFactor is the diameter a 100% weight adds on top of MinSize
// before clamping.
const DefaultScaleFactor = 300.0

// SizeConfig bounds the diameter ramp for one tier.
type SizeConfig struct {
	MinSize     float64 `json:"min_size" mapstructure:"min_size"`
	MaxSize     float64 `json:"max_size" mapstructure:"max_size"`
	ScaleFactor float64 `json:"scale_factor" mapstructure:"scale_factor"`
}

// Size returns the diameter for a weight percentage.
// A zero ScaleFactor falls back to [DefaultScaleFactor].
func (c SizeConfig) Size(weight float64) float64 {
	scale := c.ScaleFactor
	if scale == 0 {
		scale = DefaultScaleFactor
	}
	d := c.MinSize + SanitizeWeight(weight)/100*scale
	if d > c.MaxSize {
		d = c.MaxSize
	}
	if d < c.MinSize {
		d = c.MinSize
	}
	return d
}

// Size is the unconfigured form of [SizeConfig.Size] using [DefaultScaleFactor].
func Size(weight, minSize, maxSize float64) float64 {
	return SizeConfig{MinSize: minSize, MaxSize: maxSize, ScaleFactor: DefaultScaleFactor}.Size(weight)
}
