// Package config loads schema files declaring the node types and
// attribute handlers of a document, and applies them to a registry.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every schema validation failure.
var ErrInvalid = errors.New("invalid schema")

// Schema lists node types in registration order, then attribute handlers.
// A type may extend only a type listed before it.
type Schema struct {
	Blots       []BlotSpec       `yaml:"blots" toml:"blots" validate:"dive"`
	Attributors []AttributorSpec `yaml:"attributors" toml:"attributors" validate:"dive"`
}

// BlotSpec declares one node type.
type BlotSpec struct {
	Name            string   `yaml:"name" toml:"name" validate:"required"`
	Kind            string   `yaml:"kind" toml:"kind" validate:"required,oneof=text leaf embed container format inline block scroll"`
	Scope           string   `yaml:"scope,omitempty" toml:"scope,omitempty" validate:"omitempty,oneof=block inline"`
	Tags            []string `yaml:"tags,omitempty" toml:"tags,omitempty" validate:"dive,required"`
	Class           string   `yaml:"class,omitempty" toml:"class,omitempty"`
	Extends         string   `yaml:"extends,omitempty" toml:"extends,omitempty"`
	AllowedChildren []string `yaml:"allowed_children,omitempty" toml:"allowed_children,omitempty" validate:"dive,required"`
	DefaultChild    string   `yaml:"default_child,omitempty" toml:"default_child,omitempty"`
	ValueAttribute  string   `yaml:"value_attribute,omitempty" toml:"value_attribute,omitempty"`
}

// AttributorSpec declares one attribute handler. Key defaults to Name.
type AttributorSpec struct {
	Name      string   `yaml:"name" toml:"name" validate:"required"`
	Type      string   `yaml:"type" toml:"type" validate:"required,oneof=attribute class style"`
	Key       string   `yaml:"key,omitempty" toml:"key,omitempty"`
	Scope     string   `yaml:"scope,omitempty" toml:"scope,omitempty" validate:"omitempty,oneof=block inline"`
	Whitelist []string `yaml:"whitelist,omitempty" toml:"whitelist,omitempty"`
}

// Format names a schema encoding.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("schema %s: unsupported extension %q", path, filepath.Ext(path))
}

// Load reads and validates the schema file at path.
func Load(path string) (*Schema, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", path, err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a schema.
func Parse(data []byte, format Format) (*Schema, error) {
	var s Schema
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case TOML:
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field rules and that names are unique within each list.
func (s *Schema) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	seen := make(map[string]bool)
	for _, b := range s.Blots {
		if seen[b.Name] {
			return fmt.Errorf("%w: duplicate blot %q", ErrInvalid, b.Name)
		}
		seen[b.Name] = true
	}
	seen = make(map[string]bool)
	for _, a := range s.Attributors {
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate attributor %q", ErrInvalid, a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}
