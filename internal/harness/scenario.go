package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/frbgen/internal/compiler"
)

// Scenario defines a conformance test scenario.
// A scenario feeds one Rust source file through the resolver and asserts on
// the resulting ApiFile, or on the error that rejected it.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source is inline Rust source. Exactly one of Source and SourceFile
	// must be set.
	Source string `yaml:"source,omitempty"`

	// SourceFile is a path to a Rust file, relative to the scenario file.
	SourceFile string `yaml:"source_file,omitempty"`

	// Expect describes the overall outcome.
	Expect Expect `yaml:"expect"`

	// Assertions validate details of the resolved file.
	// Supported types: func_signature, struct_fields, cycle
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expect is the top-level outcome of a scenario.
type Expect struct {
	// Error is the expected compile error kind (e.g. "UnrecognizedType").
	// When set, Funcs and Structs must be empty.
	Error string `yaml:"error,omitempty"`

	// ErrorSubject is the expected offending identifier or type string.
	ErrorSubject string `yaml:"error_subject,omitempty"`

	// Funcs is the exact function list, in declaration order.
	Funcs []string `yaml:"funcs,omitempty"`

	// Structs is the exact set of struct pool names (order-insensitive).
	Structs []string `yaml:"structs,omitempty"`
}

// Assertion validates one part of the resolved file.
type Assertion struct {
	// Type specifies the assertion type:
	// - "func_signature": Check a function's inputs and output
	// - "struct_fields": Check a struct's fields and layout
	// - "cycle": Check a recursive struct group is reported
	Type string `yaml:"type"`

	// Func is the function name (used by func_signature).
	Func string `yaml:"func,omitempty"`

	// Inputs are the expected parameters as "name: Type" (used by func_signature).
	Inputs []string `yaml:"inputs,omitempty"`

	// Output is the expected output type (used by func_signature).
	Output string `yaml:"output,omitempty"`

	// Struct is the struct name (used by struct_fields).
	Struct string `yaml:"struct,omitempty"`

	// Fields are the expected fields as "name: Type" (used by struct_fields).
	Fields []string `yaml:"fields,omitempty"`

	// Named is the expected layout (used by struct_fields).
	Named *bool `yaml:"named,omitempty"`

	// Structs are the members of the cycle, in any order (used by cycle).
	Structs []string `yaml:"structs,omitempty"`

	// Level is the expected cycle level, "info" or "warning" (used by cycle).
	Level string `yaml:"level,omitempty"`
}

// Assertion type constants.
const (
	AssertFuncSignature = "func_signature"
	AssertStructFields  = "struct_fields"
	AssertCycle         = "cycle"
)

var errorKinds = map[string]bool{
	string(compiler.KindUnsupportedParamPattern): true,
	string(compiler.KindUnsupportedReturnShape):  true,
	string(compiler.KindUnrecognizedType):        true,
	string(compiler.KindUnsupportedFieldLayout):  true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A SourceFile reference is read relative to the scenario's directory and
// inlined into Source.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.SourceFile != "" && scenario.Source != "" {
		return nil, fmt.Errorf("invalid scenario: source and source_file are mutually exclusive")
	}
	if scenario.SourceFile != "" {
		srcPath := scenario.SourceFile
		if !filepath.IsAbs(srcPath) {
			srcPath = filepath.Join(filepath.Dir(path), srcPath)
		}
		src, err := os.ReadFile(srcPath)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: source file not found: %w", err)
		}
		scenario.Source = string(src)
		scenario.SourceFile = srcPath
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.SourceFile != "" && strings.TrimSpace(s.Source) == "" {
		return fmt.Errorf("source file %s is empty", s.SourceFile)
	}
	if s.SourceFile == "" && s.Source == "" {
		return fmt.Errorf("one of source or source_file is required")
	}

	if s.Expect.Error != "" {
		if !errorKinds[s.Expect.Error] {
			return fmt.Errorf("expect.error: unknown error kind %q", s.Expect.Error)
		}
		if len(s.Expect.Funcs) > 0 || len(s.Expect.Structs) > 0 || len(s.Assertions) > 0 {
			return fmt.Errorf("expect.error cannot be combined with funcs, structs or assertions")
		}
	} else if s.Expect.ErrorSubject != "" {
		return fmt.Errorf("expect.error_subject requires expect.error")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFuncSignature:
		if a.Func == "" {
			return fmt.Errorf("assertions[%d]: func is required for func_signature", index)
		}
		if a.Output == "" {
			return fmt.Errorf("assertions[%d]: output is required for func_signature", index)
		}
	case AssertStructFields:
		if a.Struct == "" {
			return fmt.Errorf("assertions[%d]: struct is required for struct_fields", index)
		}
	case AssertCycle:
		if len(a.Structs) == 0 {
			return fmt.Errorf("assertions[%d]: structs list is required for cycle", index)
		}
		if a.Level != "" && a.Level != "info" && a.Level != "warning" {
			return fmt.Errorf("assertions[%d]: level must be info or warning, got %q", index, a.Level)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
