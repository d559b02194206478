package cli

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/cilsym/internal/ir"
	"github.com/roach88/cilsym/internal/method"
)

// Error codes for CLI responses that are not method load errors.
const (
	ErrCodeGeneric     = "E000"
	ErrCodeStoreFailed = "STORE_FAILED"
	ErrCodeNoMethods   = "NO_METHODS"
	ErrCodeBadQuery    = "BAD_QUERY"
)

// loadMethods loads every method of files, collecting all load errors.
// The methods that did load are returned alongside the errors.
func loadMethods(files []string, types *ir.TypeRegistry) ([]*method.Method, []error) {
	methods, err := method.LoadFiles(files, types, method.LoadModeCollectAll)
	if err != nil {
		return methods, flatten(err)
	}
	return methods, nil
}

// flatten unpacks a multierror into its members.
func flatten(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Errors
	}
	return []error{err}
}

// loadErrorCode returns the method load error code of err, or
// ErrCodeGeneric.
func loadErrorCode(err error) string {
	if code, ok := method.CodeOf(err); ok {
		return code
	}
	return ErrCodeGeneric
}

// selectMethods filters methods by name. An empty name keeps all.
func selectMethods(methods []*method.Method, name string) []*method.Method {
	if name == "" {
		return methods
	}
	var out []*method.Method
	for _, m := range methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}
