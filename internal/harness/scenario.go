package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cilsym/internal/compiler"
	"github.com/roach88/cilsym/internal/method"
)

// Scenario defines one conformance test: a method and what compiling it
// must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Method is an inline method. Exclusive with MethodFile.
	Method *method.Description `yaml:"method,omitempty"`

	// MethodFile is a YAML or CUE method file. Relative paths are resolved
	// against the scenario file's directory.
	MethodFile string `yaml:"method_file,omitempty"`

	// MethodName selects a method from MethodFile. May be empty when the
	// file holds exactly one method.
	MethodName string `yaml:"method_name,omitempty"`

	// Expect is the required compilation outcome.
	Expect Expectation `yaml:"expect"`

	// Assertions validate the emitted stream.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expectation is the outcome a scenario requires.
type Expectation struct {
	// Status is the required compiler.Status.
	Status string `yaml:"status"`

	// ErrorCode is the required engine error code, if the compilation
	// fails inside the engine.
	ErrorCode string `yaml:"error_code,omitempty"`

	// Records is the required number of emitted records. Nil skips the
	// check.
	Records *int `yaml:"records,omitempty"`
}

// Assertion validates the emitted stream.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Record indexes the stream (record_text, result_type, no_result).
	Record int `yaml:"record,omitempty"`

	// Text is the expected SSA rendering (record_text).
	Text string `yaml:"text,omitempty"`

	// ResultType is the expected Result type name (result_type).
	ResultType string `yaml:"result_type,omitempty"`

	// Opcodes is the expected opcode sequence (opcode_order).
	Opcodes []string `yaml:"opcodes,omitempty"`

	// Refs are the operands compared (same_operand, distinct_operand).
	Refs []Ref `yaml:"refs,omitempty"`
}

// Ref names one operand of the stream: operand Operand of record Record,
// or the record's Result when Operand is nil.
type Ref struct {
	Record  int  `yaml:"record"`
	Operand *int `yaml:"operand,omitempty"`
}

func (r Ref) String() string {
	if r.Operand == nil {
		return fmt.Sprintf("record %d result", r.Record)
	}
	return fmt.Sprintf("record %d operand %d", r.Record, *r.Operand)
}

// Assertion type constants.
const (
	AssertRecordText      = "record_text"
	AssertResultType      = "result_type"
	AssertNoResult        = "no_result"
	AssertOpcodeOrder     = "opcode_order"
	AssertSameOperand     = "same_operand"
	AssertDistinctOperand = "distinct_operand"
	AssertUniqueResults   = "unique_results"
	AssertStoredStream    = "stored_stream"
)

var statuses = map[string]bool{
	string(compiler.StatusOK):             true,
	string(compiler.StatusUnsupported):    true,
	string(compiler.StatusTypeError):      true,
	string(compiler.StatusInvalidProgram): true,
	string(compiler.StatusBackendFailed):  true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML, resolving a relative method_file
// against baseDir.
func ParseScenario(data []byte, baseDir string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.MethodFile != "" && !filepath.IsAbs(scenario.MethodFile) && baseDir != "" {
		scenario.MethodFile = filepath.Join(baseDir, scenario.MethodFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Method != nil && s.MethodFile != "":
		return fmt.Errorf("method and method_file are mutually exclusive")
	case s.Method == nil && s.MethodFile == "":
		return fmt.Errorf("one of method or method_file is required")
	case s.Method != nil && s.MethodName != "":
		return fmt.Errorf("method_name requires method_file")
	}
	if s.MethodFile != "" {
		if _, err := os.Stat(s.MethodFile); os.IsNotExist(err) {
			return fmt.Errorf("method file not found: %s", s.MethodFile)
		}
	}

	if s.Expect.Status == "" {
		return fmt.Errorf("expect.status is required")
	}
	if !statuses[s.Expect.Status] {
		return fmt.Errorf("expect.status: unknown status %q", s.Expect.Status)
	}
	if s.Expect.Records != nil && *s.Expect.Records < 0 {
		return fmt.Errorf("expect.records must be non-negative")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
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
	if a.Record < 0 {
		return fmt.Errorf("assertions[%d]: record must be non-negative", index)
	}

	switch a.Type {
	case AssertRecordText:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for record_text", index)
		}
	case AssertResultType:
		if a.ResultType == "" {
			return fmt.Errorf("assertions[%d]: result_type is required for result_type", index)
		}
	case AssertOpcodeOrder:
		if len(a.Opcodes) == 0 {
			return fmt.Errorf("assertions[%d]: opcodes list is required for opcode_order", index)
		}
	case AssertSameOperand, AssertDistinctOperand:
		if len(a.Refs) < 2 {
			return fmt.Errorf("assertions[%d]: at least two refs are required for %s", index, a.Type)
		}
	case AssertNoResult, AssertUniqueResults, AssertStoredStream:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
