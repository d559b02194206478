package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/cilsym/internal/ir"
)

// Snapshot renders a scenario result as canonical JSON: its status, the
// digest and error code when present, and the full stream.
func Snapshot(name string, result *Result) ([]byte, error) {
	stream := make([]any, len(result.Operations))
	for i, op := range result.Operations {
		stream[i] = op.Canonical()
	}

	m := map[string]any{
		"scenario_name": name,
		"status":        result.Status,
		"stream":        stream,
	}
	if result.Digest != "" {
		m["digest"] = result.Digest
	}
	if result.ErrorCode != "" {
		m["error_code"] = result.ErrorCode
	}
	return ir.MarshalCanonical(m)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already computed result against its golden
// file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
