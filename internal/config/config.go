// Package config loads frbgen settings from frbgen.cue or frbgen.yaml.
//
// CUE files are unified with an embedded schema before decoding, so type and
// enum errors carry CUE positions. YAML files are decoded strictly. Both
// paths finish with struct validation, which also checks cross-field rules
// the schema does not express.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/frbgen/internal/source"
)

//go:embed schema.cue
var schemaCUE string

// DefaultFileNames are tried in order by Discover.
var DefaultFileNames = []string{"frbgen.cue", "frbgen.yaml", "frbgen.yml"}

// Config holds settings shared by every command.
type Config struct {
	Format       string `json:"format" yaml:"format" validate:"oneof=text json yaml"`
	LogLevel     string `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	MaxFileSize  int64  `json:"max_file_size" yaml:"max_file_size" validate:"gt=0"`
	WarnFileSize int64  `json:"warn_file_size" yaml:"warn_file_size" validate:"gt=0,ltefield=MaxFileSize"`
	DB           string `json:"db" yaml:"db"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Format:       "text",
		LogLevel:     "info",
		MaxFileSize:  source.DefaultMaxFileSize,
		WarnFileSize: source.DefaultWarnFileSize,
	}
}

// LoadError reports a config file that could not be read, decoded or
// validated.
type LoadError struct {
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field values and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q check", fe.Field(), fe.Tag())
	}
}

// Load reads the config file at path. The format is chosen by extension:
// .cue, or .yaml/.yml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{Path: path, Message: "cannot read config file", Err: err}
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		cfg, err = decodeCUE(path, data)
	case ".yaml", ".yml":
		cfg, err = decodeYAML(path, data)
	default:
		return Config{}, &LoadError{Path: path, Message: fmt.Sprintf("unsupported config extension %q", filepath.Ext(path))}
	}
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &LoadError{Path: path, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// Discover looks for a default config file in dir. It returns the defaults
// and an empty path when none exists.
func Discover(dir string) (Config, string, error) {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}
	return Default(), "", nil
}

func decodeCUE(path string, data []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, &LoadError{Path: path, Message: fmt.Sprintf("compiling schema: %v", err), Err: err}
	}

	file := ctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return Config{}, cueLoadError(path, err)
	}

	value := schema.LookupPath(cue.ParsePath("#Config")).Unify(file)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return Config{}, cueLoadError(path, err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return Config{}, cueLoadError(path, err)
	}
	return cfg, nil
}

func cueLoadError(path string, err error) *LoadError {
	loadErr := &LoadError{Path: path, Message: err.Error(), Err: err}
	for _, e := range cueerrors.Errors(err) {
		if pos := e.Position(); pos.IsValid() {
			loadErr.Pos = pos
			break
		}
	}
	return loadErr
}

func decodeYAML(path string, data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &LoadError{Path: path, Message: fmt.Sprintf("decoding yaml: %v", err), Err: err}
	}
	return cfg, nil
}
