package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cilsym/internal/compiler"
	"github.com/roach88/cilsym/internal/ir"
)

// MethodValidation holds the findings for one method.
type MethodValidation struct {
	Method   string                     `json:"method"`
	Valid    bool                       `json:"valid"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []compiler.LoopWarning     `json:"warnings,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool               `json:"valid"`
	Methods []MethodValidation `json:"methods"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <method-file>...",
		Short: "Check method bodies without replaying them",
		Long: `Check method files statically: every slot index against the signature,
every branch target against instruction boundaries, and every opcode against
the set the stack machine accepts. Control-flow cycles are reported as
warnings.

Faster than compile and reports every problem instead of the first.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	methods, loadErrs := loadMethods(files, ir.NewTypeRegistry())
	if len(loadErrs) > 0 {
		for _, err := range loadErrs {
			formatter.Error(loadErrorCode(err), err.Error(), nil)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d method file error(s)", len(loadErrs)))
	}
	if len(methods) == 0 {
		formatter.Error(ErrCodeNoMethods, "no methods found", nil)
		return NewExitError(ExitCommandError, "no methods found")
	}

	result := ValidationResult{Valid: true, Methods: make([]MethodValidation, 0, len(methods))}
	for _, m := range methods {
		formatter.VerboseLog("Validating %s", m.Signature())
		mv := MethodValidation{
			Method:   m.Name,
			Errors:   compiler.Validate(m, m.Body),
			Warnings: compiler.AnalyzeLoops(m.Body),
		}
		mv.Valid = len(mv.Errors) == 0
		if !mv.Valid {
			result.Valid = false
		}
		result.Methods = append(result.Methods, mv)
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, mv := range result.Methods {
			if mv.Valid {
				formatter.Pass("%s", mv.Method)
			} else {
				formatter.Fail("%s", mv.Method)
			}
			for _, e := range mv.Errors {
				formatter.Detail("%s", e.Error())
			}
			for _, w := range mv.Warnings {
				formatter.Warn("%s", w.Message)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
