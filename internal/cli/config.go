package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/bubblechart/pkg/pipeline"
)

// Config file keys for the serve command.
const (
	keyServeAddr       = "serve.addr"
	keyServeRedisURL   = "serve.redis_url"
	keyServeMongoURI   = "serve.mongo_uri"
	keyServeMongoDB    = "serve.mongo_database"
	keyServeSessionTTL = "serve.session_ttl"
)

// floatKey binds a config key and its overriding flag to an Options field.
type floatKey struct {
	key   string
	flag  string
	field func(*pipeline.Options) *float64
}

var layoutFloatKeys = []floatKey{
	{"canvas.width", "width", func(o *pipeline.Options) *float64 { return &o.Width }},
	{"canvas.height", "height", func(o *pipeline.Options) *float64 { return &o.Height }},
	{"canvas.padding", "padding", func(o *pipeline.Options) *float64 { return &o.Padding }},
	{"canvas.center_y_offset", "center-offset", func(o *pipeline.Options) *float64 { return &o.CenterYOffset }},
	{"parent.min_size", "parent-min", func(o *pipeline.Options) *float64 { return &o.ParentMinSize }},
	{"parent.max_size", "parent-max", func(o *pipeline.Options) *float64 { return &o.ParentMaxSize }},
	{"child.min_size", "child-min", func(o *pipeline.Options) *float64 { return &o.ChildMinSize }},
	{"child.max_size", "child-max", func(o *pipeline.Options) *float64 { return &o.ChildMaxSize }},
	{"child.center_y_offset", "child-offset", func(o *pipeline.Options) *float64 { return &o.ChildCenterYOffset }},
	{"sizing.scale_factor", "scale-factor", func(o *pipeline.Options) *float64 { return &o.ScaleFactor }},
	{"search.buffer", "buffer", func(o *pipeline.Options) *float64 { return &o.Buffer }},
	{"search.grid_step", "grid-step", func(o *pipeline.Options) *float64 { return &o.GridStep }},
}

const (
	keyMaxSamples  = "search.max_samples"
	flagMaxSamples = "max-samples"
)

// LoadConfig reads the optional config file. An explicit path must exist;
// otherwise config.yaml is searched in the XDG config dir and the working
// directory, and a missing file is not an error. Environment variables
// prefixed BUBBLECHART_ override file values.
func (c *CLI) LoadConfig(path string) error {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		c.Logger.Debug("loaded config", "file", v.ConfigFileUsed())
	}

	c.config = v
	return nil
}

// addLayoutFlags registers the canvas, sizing and search flags on cmd,
// defaulting to the current values in opts.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.Float64Var(&opts.Width, "width", opts.Width, "canvas width")
	f.Float64Var(&opts.Height, "height", opts.Height, "canvas height")
	f.Float64Var(&opts.Padding, "padding", opts.Padding, "canvas padding")
	f.Float64Var(&opts.CenterYOffset, "center-offset", opts.CenterYOffset, "vertical center offset for parent bubbles")
	f.Float64Var(&opts.ChildCenterYOffset, "child-offset", opts.ChildCenterYOffset, "vertical center offset for child bubbles")
	f.Float64Var(&opts.ParentMinSize, "parent-min", opts.ParentMinSize, "minimum parent bubble diameter")
	f.Float64Var(&opts.ParentMaxSize, "parent-max", opts.ParentMaxSize, "maximum parent bubble diameter")
	f.Float64Var(&opts.ChildMinSize, "child-min", opts.ChildMinSize, "minimum child bubble diameter")
	f.Float64Var(&opts.ChildMaxSize, "child-max", opts.ChildMaxSize, "maximum child bubble diameter")
	f.Float64Var(&opts.ScaleFactor, "scale-factor", opts.ScaleFactor, "diameter per weight point")
	f.Float64Var(&opts.Buffer, "buffer", opts.Buffer, "minimum gap between bubbles")
	f.Float64Var(&opts.GridStep, "grid-step", opts.GridStep, "grid fallback step")
	f.IntVar(&opts.MaxSamples, flagMaxSamples, opts.MaxSamples, "spiral search sample limit")
}

// applyLayoutConfig copies config and environment values into opts for
// every layout setting whose flag was not given explicitly.
func (c *CLI) applyLayoutConfig(cmd *cobra.Command, opts *pipeline.Options) error {
	v := c.config
	for _, k := range layoutFloatKeys {
		if err := bindFlag(v, cmd, k.key, k.flag); err != nil {
			return err
		}
		if v.IsSet(k.key) {
			*k.field(opts) = v.GetFloat64(k.key)
		}
	}
	if err := bindFlag(v, cmd, keyMaxSamples, flagMaxSamples); err != nil {
		return err
	}
	if v.IsSet(keyMaxSamples) {
		opts.MaxSamples = v.GetInt(keyMaxSamples)
	}
	return nil
}

// serveSettings are the serve command's connection options.
type serveSettings struct {
	addr       string
	redisURL   string
	mongoURI   string
	mongoDB    string
	sessionTTL time.Duration
}

// applyServeConfig fills s from config for every flag not given explicitly.
func (c *CLI) applyServeConfig(cmd *cobra.Command, s *serveSettings) error {
	v := c.config
	keys := []struct {
		key, flag string
		dst       *string
	}{
		{keyServeAddr, "addr", &s.addr},
		{keyServeRedisURL, "redis", &s.redisURL},
		{keyServeMongoURI, "mongo", &s.mongoURI},
		{keyServeMongoDB, "mongo-db", &s.mongoDB},
	}
	for _, k := range keys {
		if err := bindFlag(v, cmd, k.key, k.flag); err != nil {
			return err
		}
		if v.IsSet(k.key) {
			*k.dst = v.GetString(k.key)
		}
	}

	if err := bindFlag(v, cmd, keyServeSessionTTL, "session-ttl"); err != nil {
		return err
	}
	if v.IsSet(keyServeSessionTTL) {
		s.sessionTTL = v.GetDuration(keyServeSessionTTL)
	}
	return nil
}

// bindFlag makes an explicitly set flag take precedence over key.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) error {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		return nil
	}
	if err := v.BindPFlag(key, f); err != nil {
		return fmt.Errorf("bind flag --%s: %w", flag, err)
	}
	return nil
}
