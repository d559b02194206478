package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/infer"
)

// OpcodeInfo describes one instruction as the stack machine sees it.
type OpcodeInfo struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Pop  string `json:"pop"`
	Push string `json:"push"`
	Rule string `json:"rule"`
}

// NewOpcodesCommand creates the opcodes command.
func NewOpcodesCommand(rootOpts *RootOptions) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "opcodes",
		Short: "List instructions with their stack behavior",
		Long: `List every defined CIL instruction with its encoding, pop and push
behavior and the inference rule that types its result.

Examples:
  cilsym opcodes
  cilsym opcodes --filter conv.
  cilsym opcodes --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			infos := listOpcodes(prefix)
			if formatter.JSON() {
				return formatter.Success(infos)
			}
			tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCODE\tPOP\tPUSH\tRULE")
			for _, i := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", i.Name, i.Code, i.Pop, i.Push, i.Rule)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&prefix, "filter", "", "only list names starting with this prefix")
	return cmd
}

func listOpcodes(prefix string) []OpcodeInfo {
	infos := []OpcodeInfo{}
	cil.All(func(op cil.Opcode, ext cil.ExtOpcode, info cil.Info) {
		if !strings.HasPrefix(info.Name, prefix) {
			return
		}
		code := fmt.Sprintf("%02X", byte(op))
		if op == cil.Prefix1 {
			code = fmt.Sprintf("FE %02X", byte(ext))
		}
		infos = append(infos, OpcodeInfo{
			Name: info.Name,
			Code: code,
			Pop:  info.Pop.String(),
			Push: info.Push.String(),
			Rule: infer.RuleOf(op, ext).String(),
		})
	})
	return infos
}
