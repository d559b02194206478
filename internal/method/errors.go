package method

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error codes for method loading.
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeParse             = "PARSE_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeUnknownType       = "UNKNOWN_TYPE"
	ErrCodeInvalidBody       = "INVALID_BODY"
)

// LoadError represents an error that occurred while loading a method file.
//
// Pos is set for CUE sources. YAML sources report File and Line instead.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
	File    string
	Line    int
}

func (e *LoadError) Error() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the LoadError code of err, if any.
func CodeOf(err error) (string, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code, true
	}
	return "", false
}

// at attaches a location to err when it is a LoadError without one.
func at(err error, file string, line int, pos token.Pos) error {
	var le *LoadError
	if !errors.As(err, &le) {
		return err
	}
	if !le.Pos.IsValid() && le.File == "" {
		le.Pos = pos
		le.File = file
		le.Line = line
	}
	return err
}
