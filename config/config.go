// Package config loads the settings of a curve editor host: the curve's
// configuration surface, its initial points, and the layout and logging of
// the host itself.
//
// Settings are resolved in order: built-in defaults, then a YAML (or JSON)
// file, then CURVEEDIT_* environment variables. The result is validated
// before use.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"honnef.co/go/curveedit"
)

// EnvPrefix is the prefix of all environment variables that override file
// settings.
const EnvPrefix = "CURVEEDIT_"

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("invalid config")

// Point is the initial data of one control point. A nil Range mirrors Value.
type Point struct {
	Time  float64  `yaml:"time" json:"time" validate:"gte=0,lte=1"`
	Value float64  `yaml:"value" json:"value"`
	Range *float64 `yaml:"range,omitempty" json:"range,omitempty"`
}

// ReadOnly lists the settings the user may not change interactively.
type ReadOnly struct {
	Type  bool `yaml:"type" json:"type"`
	Clamp bool `yaml:"clamp" json:"clamp"`
	Range bool `yaml:"range" json:"range"`
}

type Config struct {
	// Type is the curve type, "linear" or "catmullrom".
	Type  string  `yaml:"type" json:"type" validate:"required,curvetype"`
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
	Clamp bool    `yaml:"clamp" json:"clamp"`
	Range bool    `yaml:"range" json:"range"`

	ReadOnly ReadOnly `yaml:"readonly" json:"readonly"`

	// Width and Height are the size of the drawable area, in pixels. Anything
	// smaller than 11 pixels leaves no room for the control area.
	Width  int `yaml:"width" json:"width" validate:"gte=11"`
	Height int `yaml:"height" json:"height" validate:"gte=11"`
	// Divisions is the number of samples per Catmull-Rom segment.
	Divisions int `yaml:"divisions" json:"divisions" validate:"gt=0,lte=65536"`

	LogLevel string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`

	Points []Point `yaml:"points" json:"points" validate:"dive"`
}

// Default returns the built-in settings: a linear curve in [0, 100] through
// four demo points.
func Default() Config {
	return Config{
		Type:      curveedit.Linear.String(),
		Min:       0,
		Max:       100,
		Width:     410,
		Height:    210,
		Divisions: curveedit.DefaultDivisions,
		LogLevel:  "info",
		Points: []Point{
			{Time: 0, Value: 0},
			{Time: 0.5, Value: 30},
			{Time: 0.8, Value: 50},
			{Time: 1, Value: 60},
		},
	}
}

// Load resolves the settings from the defaults, the file at path and the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, fmt.Errorf("load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return parse(data, cfg)
}

// parse decodes YAML, falling back to JSON.
func parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

// applyEnv overrides settings from environment variables. Unlike file
// settings, malformed values are errors rather than being ignored, since
// nothing else would tell the user that their override had no effect.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	env := func(name string, set func(string) error) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return
		}
		if err := set(v); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		}
	}
	str := func(dst *string) func(string) error {
		return func(v string) error { *dst = strings.ToLower(v); return nil }
	}
	float := func(dst *float64) func(string) error {
		return func(v string) (err error) { *dst, err = cast.ToFloat64E(v); return err }
	}
	integer := func(dst *int) func(string) error {
		return func(v string) (err error) { *dst, err = cast.ToIntE(v); return err }
	}
	boolean := func(dst *bool) func(string) error {
		return func(v string) (err error) { *dst, err = cast.ToBoolE(v); return err }
	}

	env("TYPE", str(&cfg.Type))
	env("MIN", float(&cfg.Min))
	env("MAX", float(&cfg.Max))
	env("CLAMP", boolean(&cfg.Clamp))
	env("RANGE", boolean(&cfg.Range))
	env("READONLY_TYPE", boolean(&cfg.ReadOnly.Type))
	env("READONLY_CLAMP", boolean(&cfg.ReadOnly.Clamp))
	env("READONLY_RANGE", boolean(&cfg.ReadOnly.Range))
	env("WIDTH", integer(&cfg.Width))
	env("HEIGHT", integer(&cfg.Height))
	env("DIVISIONS", integer(&cfg.Divisions))
	env("LOG_LEVEL", str(&cfg.LogLevel))
	env("POINTS", func(v string) (err error) {
		cfg.Points, err = ParsePoints(v)
		return err
	})
	return errors.Join(errs...)
}

// ParsePoints parses a comma separated list of points. Each point is
// "time:value" or "time:value:range", for example "0:0,0.5:30:40,1:60".
func ParsePoints(s string) ([]Point, error) {
	var out []Point
	for i, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		parts := strings.Split(field, ":")
		if len(parts) != 2 && len(parts) != 3 {
			return nil, fmt.Errorf("point %d: %q isn't of the form time:value[:range]", i, field)
		}
		var nums [3]float64
		for j, part := range parts {
			f, err := cast.ToFloat64E(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			nums[j] = f
		}
		pt := Point{Time: nums[0], Value: nums[1]}
		if len(parts) == 3 {
			r := nums[2]
			pt.Range = &r
		}
		out = append(out, pt)
	}
	return out, nil
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("curvetype", validateCurveType)
	validate.RegisterStructValidation(validateConfig, Config{})
}

// validateCurveType accepts the curve types that can be evaluated.
func validateCurveType(fl validator.FieldLevel) bool {
	typ, err := curveedit.ParseCurveType(fl.Field().String())
	return err == nil && typ != curveedit.BSpline
}

func validateConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Min > cfg.Max {
		sl.ReportError(cfg.Max, "Max", "max", "gtefield", "Min")
	}
	for i := 1; i < len(cfg.Points); i++ {
		if cfg.Points[i].Time < cfg.Points[i-1].Time {
			name := fmt.Sprintf("Points[%d].Time", i)
			sl.ReportError(cfg.Points[i].Time, name, name, "nondecreasing", "")
		}
	}
}

// Validate checks the settings. The returned error wraps [ErrInvalid].
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = describe(fe)
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "curvetype":
		return fmt.Sprintf("%s: unsupported curve type %q", fe.Namespace(), fe.Value())
	case "gtefield":
		return fmt.Sprintf("%s: must not be less than %s", fe.Namespace(), fe.Param())
	case "nondecreasing":
		return fmt.Sprintf("%s: times must not decrease", fe.Namespace())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", fe.Namespace(), fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: failed %s=%s, got %v", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Sprintf("%s: failed %s, got %v", fe.Namespace(), fe.Tag(), fe.Value())
	}
}

// CurveType returns the parsed curve type. It returns [curveedit.Linear] for
// settings that didn't pass validation.
func (cfg Config) CurveType() curveedit.CurveType {
	typ, err := curveedit.ParseCurveType(cfg.Type)
	if err != nil {
		return curveedit.Linear
	}
	return typ
}

// Values converts the configured points.
func (cfg Config) Values() []curveedit.ControlValue {
	out := make([]curveedit.ControlValue, len(cfg.Points))
	for i, pt := range cfg.Points {
		cv := curveedit.NewControlValue(pt.Time, pt.Value)
		if pt.Range != nil {
			cv.Range = *pt.Range
		}
		out[i] = cv
	}
	return out
}

// Size returns the configured size of the drawable area.
func (cfg Config) Size() curveedit.Size {
	return curveedit.Sz(float64(cfg.Width), float64(cfg.Height))
}

// NewModel returns a model configured and populated according to cfg.
func (cfg Config) NewModel() *curveedit.Model {
	m := curveedit.NewModel(cfg.Min, cfg.Max, cfg.Values()...)
	cfg.Apply(m)
	return m
}

// Apply copies the curve settings and the layout to m. Points are left
// alone.
func (cfg Config) Apply(m *curveedit.Model) {
	m.SetType(cfg.CurveType())
	m.SetBounds(cfg.Min, cfg.Max)
	m.SetClamped(cfg.Clamp)
	m.SetRangeEnabled(cfg.Range)
	m.SetLayout(cfg.Size())
}

// SlogLevel returns the configured log level.
func (cfg Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
