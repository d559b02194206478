package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/cilsym/internal/compiler"
	"github.com/roach88/cilsym/internal/ir"
	"github.com/roach88/cilsym/internal/method"
	"github.com/roach88/cilsym/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Method string // compile only this method
	Save   bool   // write compilations to the store
	DB     string // store path; implies Save
	Output string // write results as JSON to this file
}

// MethodResult is the outcome of compiling one method.
type MethodResult struct {
	Method    string   `json:"method"`
	Signature string   `json:"signature"`
	Status    string   `json:"status"`
	Error     string   `json:"error,omitempty"`
	Digest    string   `json:"digest,omitempty"`
	Size      int      `json:"size,omitempty"`
	Listing   []string `json:"listing"`
	ID        string   `json:"id,omitempty"` // store ID when saved
}

// CompileResult holds every method result of one compile run.
type CompileResult struct {
	Methods []MethodResult `json:"methods"`
	Failed  int            `json:"failed"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <method-file>...",
		Short: "Replay method bodies and print their operation streams",
		Long: `Load methods from YAML or CUE files, replay each body through the
symbolic stack machine and print the resulting SSA listing.

Exit codes:
  0 - Every method compiled
  1 - One or more methods failed to compile
  2 - Command error (unreadable files, store failure, etc.)

Examples:
  cilsym compile methods.yaml
  cilsym compile methods.cue --method Add
  cilsym compile methods.yaml --save
  cilsym compile methods.yaml --db ./out.db --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Method, "method", "m", "", "compile only the named method")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "record compilations in the store")
	cmd.Flags().StringVar(&opts.DB, "db", "", "store path (implies --save)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write results as JSON to file")

	return cmd
}

func runCompile(opts *CompileOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	types := ir.NewTypeRegistry()

	methods, loadErrs := loadMethods(files, types)
	if len(loadErrs) > 0 {
		for _, err := range loadErrs {
			formatter.Error(loadErrorCode(err), err.Error(), nil)
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("%d method file error(s)", len(loadErrs)))
	}

	methods = selectMethods(methods, opts.Method)
	if len(methods) == 0 {
		formatter.Error(ErrCodeNoMethods, "no methods to compile", nil)
		return NewExitError(ExitCommandError, "no methods to compile")
	}

	var st *store.Store
	if opts.Save || opts.DB != "" {
		path := opts.DB
		if path == "" {
			path = opts.Config.StorePath()
		}
		var err error
		st, err = openStore(path, true)
		if err != nil {
			formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening store", err)
		}
		defer st.Close()
		formatter.VerboseLog("Recording compilations in %s", path)
	}

	result := CompileResult{Methods: make([]MethodResult, 0, len(methods))}
	for _, m := range methods {
		formatter.VerboseLog("Compiling %s", m.Signature())
		mr, err := compileOne(contextOf(cmd), opts, m, types, st)
		if err != nil {
			formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "recording compilation", err)
		}
		if mr.Status != string(compiler.StatusOK) {
			result.Failed++
		}
		result.Methods = append(result.Methods, mr)
	}

	if opts.Output != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err == nil {
			err = os.WriteFile(opts.Output, append(data, '\n'), 0644)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printCompileText(formatter, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d method(s) failed to compile", result.Failed, len(result.Methods)))
	}
	return nil
}

func compileOne(ctx context.Context, opts *CompileOptions, m *method.Method, types *ir.TypeRegistry, st *store.Store) (MethodResult, error) {
	backend := compiler.NewListingBackend()
	res, cerr := compiler.Compile(m, backend,
		compiler.WithTypes(types),
		compiler.WithLogger(opts.Logger),
	)

	mr := MethodResult{
		Method:    m.Name,
		Signature: m.Signature(),
		Status:    string(res.Status),
		Digest:    res.Digest,
		Listing:   append([]string{}, backend.Lines()...),
	}
	if cerr != nil {
		mr.Error = cerr.Error()
	} else {
		mr.Size = res.Code.Size
	}

	if st != nil {
		c, err := st.WriteCompilation(ctx, store.Compilation{
			Method:           m.Name,
			Signature:        mr.Signature,
			Status:           mr.Status,
			Error:            mr.Error,
			InstructionCount: len(m.Body),
			Digest:           mr.Digest,
		}, res.Operations)
		if err != nil {
			return mr, err
		}
		mr.ID = c.ID
	}
	return mr, nil
}

func printCompileText(f *OutputFormatter, result CompileResult) {
	for _, mr := range result.Methods {
		if mr.Status == string(compiler.StatusOK) {
			f.Pass("%s  %s  %s", mr.Signature, mr.Status, short(mr.Digest))
		} else {
			f.Fail("%s  %s", mr.Signature, mr.Status)
		}
		for _, line := range mr.Listing {
			fmt.Fprintf(f.Writer, "  %s\n", line)
		}
		if mr.Error != "" {
			f.Detail("%s", mr.Error)
		}
		if mr.ID != "" {
			f.Detail("recorded as %s", mr.ID)
		}
	}
	fmt.Fprintf(f.Writer, "\n%d method(s), %d failed\n", len(result.Methods), result.Failed)
}

// openStore opens the store at path. With create, missing parent
// directories are created; without it a missing file is an error.
func openStore(path string, create bool) (*store.Store, error) {
	if create {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("store not found: %s", path)
	}
	return store.Open(path)
}

func short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
