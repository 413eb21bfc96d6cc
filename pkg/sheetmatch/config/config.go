// Package config loads the TOML settings of a matcher run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/address"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/parser"
)

// ErrMissingKey indicates a required setting is absent.
var ErrMissingKey = errors.New("configuration key missing")

// ErrInvalidValue indicates a setting with a value of the wrong shape.
var ErrInvalidValue = errors.New("invalid configuration value")

// HeaderPrefix starts the per-sheet header color keys.
const HeaderPrefix = "header_"

// Config holds the settings read from the configuration file.
type Config struct {
	// HeaderColors maps sheet names to the fill color of their header cells.
	HeaderColors map[string]string `toml:"-"`
	// ForwardingOn names the forwarding header as "<Sheet>/<Header>".
	ForwardingOn string `toml:"forwarding_on" validate:"omitempty,contains=/"`
	// PathForwardSymbol is the segment spliced into forwarded expressions.
	PathForwardSymbol string `toml:"path_forward_symbol" validate:"required_with=ForwardingOn,forwardsymbol"`
	// WidthOnlyIn restricts the width read type to these sheets (comma list).
	WidthOnlyIn string `toml:"width_only_in"`
	// URI is the tag of the identifying field of a record.
	URI string `toml:"uri" validate:"required"`
	// ListNodes is the comma list of tags whose children are records.
	ListNodes string `toml:"List_nodes" validate:"required"`
	// MarkerExpression recognizes cross-table markers; see parser.CompileMarker.
	MarkerExpression string `toml:"marker_expression"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := new(Config)
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse configuration file: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unable to parse configuration file: %w", err)
	}
	cfg.HeaderColors = make(map[string]string)
	for key, value := range raw {
		if !strings.HasPrefix(key, HeaderPrefix) {
			continue
		}
		color, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidValue, key)
		}
		cfg.HeaderColors[strings.TrimPrefix(key, HeaderPrefix)] = parser.NormalizeColor(color)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct constraints and the marker expression.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("forwardsymbol", validForwardSymbol); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			if strings.HasPrefix(fe.Tag(), "required") {
				return fmt.Errorf("%w: %s", ErrMissingKey, fe.Field())
			}
			return fmt.Errorf("%w: %s (%s)", ErrInvalidValue, fe.Field(), fe.Tag())
		}
		return err
	}
	if _, err := c.Marker(); err != nil {
		return err
	}
	return nil
}

// HeaderColor returns the header fill color configured for a sheet.
func (c *Config) HeaderColor(sheet string) (string, error) {
	color, ok := c.HeaderColors[sheet]
	if !ok {
		return "", fmt.Errorf("%w: %s%s", ErrMissingKey, HeaderPrefix, sheet)
	}
	return color, nil
}

// ForwardHeader returns the forwarding header name if it applies to sheet.
func (c *Config) ForwardHeader(sheet string) (string, bool) {
	target, header, ok := strings.Cut(c.ForwardingOn, "/")
	if !ok || target != sheet || header == "" {
		return "", false
	}
	return header, true
}

// ForwardSymbol returns the segment name of forwarded hops.
func (c *Config) ForwardSymbol() string {
	return c.PathForwardSymbol
}

// WidthAllowed reports whether merged widths are read on sheet. An empty
// allow-list enables them everywhere.
func (c *Config) WidthAllowed(sheet string) bool {
	list := splitList(c.WidthOnlyIn)
	if len(list) == 0 {
		return true
	}
	for _, s := range list {
		if s == sheet {
			return true
		}
	}
	return false
}

// ListRoots returns the tags whose children are records.
func (c *Config) ListRoots() []string {
	return splitList(c.ListNodes)
}

// Identifier returns the tag of the identifying field.
func (c *Config) Identifier() string {
	return c.URI
}

// Marker compiles the cross-table marker predicate.
func (c *Config) Marker() (*parser.Marker, error) {
	return parser.CompileMarker(c.MarkerExpression)
}

func validForwardSymbol(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || address.ValidForwardSymbol(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
