package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cilsym/internal/queryir"
	"github.com/roach88/cilsym/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	ID       string
	Method   string
	Limit    int
	Opcodes  bool
	Where    []string
	Records  bool
}

// CompilationTrace is one stored compilation with its stream.
type CompilationTrace struct {
	Compilation store.Compilation       `json:"compilation"`
	Operations  []store.OperationRecord `json:"operations"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded compilations",
		Long: `Inspect the compilation log written by "cilsym compile --save".

Without --id, lists recorded compilations in the order they were written.
With --id, prints one compilation and its stored operation stream.
With --records, lists matching operation records instead of compilations.
With --opcodes, prints how often each opcode appears across all streams.

--where takes field=value or field^=prefix and may be repeated; all
conditions must hold. Compilation fields: id, seq, method, signature,
status, instruction_count, digest, engine_version, stream_version. Records
add idx, il_offset, opcode, result_type and hash.

Examples:
  cilsym trace
  cilsym trace --method Add --limit 5
  cilsym trace --where status=TYPE_ERROR
  cilsym trace --records --where opcode^=conv. --where result_type=int64
  cilsym trace --id 0190b7c4-...
  cilsym trace --opcodes --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "store path (default from cilsym.toml)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show one compilation")
	cmd.Flags().StringVar(&opts.Method, "method", "", "list only compilations of this method")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "list at most this many compilations")
	cmd.Flags().BoolVar(&opts.Opcodes, "opcodes", false, "print opcode frequencies")
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "filter by field=value or field^=prefix (repeatable)")
	cmd.Flags().BoolVar(&opts.Records, "records", false, "list matching operation records")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := contextOf(cmd)

	path := opts.Database
	if path == "" {
		path = opts.Config.StorePath()
	}
	st, err := openStore(path, false)
	if err != nil {
		formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer st.Close()

	switch {
	case opts.Opcodes:
		counts, err := st.CountOpcodes(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "counting opcodes", err)
		}
		if formatter.JSON() {
			return formatter.Success(counts)
		}
		for _, c := range counts {
			fmt.Fprintf(formatter.Writer, "%8d  %s\n", c.Count, c.Opcode)
		}
		return nil

	case opts.ID != "":
		c, err := st.ReadCompilation(ctx, opts.ID)
		if errors.Is(err, store.ErrNotFound) {
			formatter.Error("NOT_FOUND", fmt.Sprintf("no compilation %s", opts.ID), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("no compilation %s", opts.ID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "reading compilation", err)
		}
		ops, err := st.ReadOperations(ctx, c.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "reading operations", err)
		}
		if formatter.JSON() {
			return formatter.Success(CompilationTrace{Compilation: c, Operations: ops})
		}
		printCompilation(formatter, c)
		for _, op := range ops {
			fmt.Fprintf(formatter.Writer, "  IL_%04X  %s\n", op.Offset, op)
		}
		return nil

	case opts.Records:
		q, err := buildSelect(queryir.Operations, opts)
		if err != nil {
			formatter.Error(ErrCodeBadQuery, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid --where", err)
		}
		matches, err := st.FindOperations(ctx, q)
		if err != nil {
			return WrapExitError(ExitCommandError, "finding records", err)
		}
		if formatter.JSON() {
			return formatter.Success(matches)
		}
		if len(matches) == 0 {
			fmt.Fprintln(formatter.Writer, "No records match.")
			return nil
		}
		for _, m := range matches {
			fmt.Fprintf(formatter.Writer, "#%d %s  IL_%04X  %s\n", m.Seq, m.Method, m.Record.Offset, m.Record)
		}
		return nil

	default:
		q, err := buildSelect(queryir.Compilations, opts)
		if err != nil {
			formatter.Error(ErrCodeBadQuery, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid --where", err)
		}
		list, err := st.FindCompilations(ctx, q)
		if err != nil {
			return WrapExitError(ExitCommandError, "listing compilations", err)
		}
		if formatter.JSON() {
			if list == nil {
				list = []store.Compilation{}
			}
			return formatter.Success(list)
		}
		if len(list) == 0 {
			fmt.Fprintln(formatter.Writer, "No compilations recorded.")
			return nil
		}
		for _, c := range list {
			printCompilation(formatter, c)
		}
		return nil
	}
}

// buildSelect turns --method, --where and --limit into a query over src.
func buildSelect(src queryir.Source, opts *TraceOptions) (queryir.Select, error) {
	var preds []queryir.Predicate
	if opts.Method != "" {
		preds = append(preds, queryir.Equals{Field: "method", Value: queryir.String(opts.Method)})
	}
	for _, w := range opts.Where {
		p, err := parseWhere(src, w)
		if err != nil {
			return queryir.Select{}, err
		}
		preds = append(preds, p)
	}

	q := queryir.Select{From: src, Filter: queryir.Where(preds...), Limit: opts.Limit}
	if res := queryir.Validate(q); !res.Valid {
		return queryir.Select{}, errors.New(strings.Join(res.Errors, "; "))
	}
	return q, nil
}

// parseWhere parses "field=value" or "field^=prefix".
func parseWhere(src queryir.Source, expr string) (queryir.Predicate, error) {
	field, value, ok := strings.Cut(expr, "=")
	if !ok || field == "" {
		return nil, fmt.Errorf("%q: expected field=value or field^=prefix", expr)
	}
	if name, isPrefix := strings.CutSuffix(field, "^"); isPrefix {
		return queryir.Prefix{Field: name, Prefix: value}, nil
	}

	kind, ok := queryir.FieldKind(src, field)
	if !ok {
		return nil, fmt.Errorf("%s has no field %q", src, field)
	}
	if kind == queryir.KindInt {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", field, value)
		}
		return queryir.Equals{Field: field, Value: queryir.Int(n)}, nil
	}
	return queryir.Equals{Field: field, Value: queryir.String(value)}, nil
}

func printCompilation(f *OutputFormatter, c store.Compilation) {
	if c.Status == "OK" {
		f.Pass("%s", c)
	} else {
		f.Fail("%s", c)
	}
	f.Detail("id %s, %d instruction(s)", c.ID, c.InstructionCount)
	if c.Digest != "" {
		f.Detail("digest %s", c.Digest)
	}
	if c.Error != "" {
		f.Detail("%s", c.Error)
	}
}
