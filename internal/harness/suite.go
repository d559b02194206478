package harness

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// FindScenarios returns every .yaml/.yml file under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find scenarios in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// SuiteResult is the outcome of one scenario in a suite.
type SuiteResult struct {
	Path     string
	Scenario *Scenario
	Result   *Result
}

// RunSuite loads and runs every scenario file in paths. Scenarios that
// cannot be loaded or executed are collected into the returned error;
// the rest still run.
func RunSuite(paths []string, opts ...Option) ([]SuiteResult, error) {
	var (
		results []SuiteResult
		errs    *multierror.Error
	)
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		r, err := Run(s, opts...)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		results = append(results, SuiteResult{Path: path, Scenario: s, Result: r})
	}
	return results, errs.ErrorOrNil()
}
