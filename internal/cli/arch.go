package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ysiraichi/enfield/pkg/arch"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
	pkgio "github.com/ysiraichi/enfield/pkg/io"
	"github.com/ysiraichi/enfield/pkg/pipeline"
	"github.com/ysiraichi/enfield/pkg/render/dot"
)

// archCommand creates the device inspection command.
func (c *CLI) archCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arch",
		Short: "Inspect, render and convert devices",
	}

	cmd.AddCommand(c.archListCommand())
	cmd.AddCommand(c.archShowCommand())
	cmd.AddCommand(c.archRenderCommand())
	cmd.AddCommand(c.archExportCommand())

	return cmd
}

func (c *CLI) archListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range arch.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (c *CLI) archShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|file>",
		Short: "Print a device summary and its couplings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := pipeline.LoadArch(args[0])
			if err != nil {
				return err
			}
			out := newTerm(cmd.OutOrStdout())
			out.title(args[0])
			out.keyValue("Qubits", fmt.Sprint(a.Size()))
			out.keyValue("Couplings", fmt.Sprint(len(a.Couplings())))
			out.keyValue("Registers", describeRegs(a.Regs()))
			out.keyValue("Weighted", fmt.Sprint(a.IsWeighted()))
			if !graph.IsConnected(a) {
				out.warn("device is not connected; circuits spanning components cannot be routed")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return pkgio.WriteText(cmd.OutOrStdout(), a)
		},
	}
}

func describeRegs(regs []graph.Reg) string {
	if len(regs) == 0 {
		return "-"
	}
	parts := make([]string, len(regs))
	for i, r := range regs {
		parts[i] = fmt.Sprintf("%s[%d]", r.Name, r.Size)
	}
	return strings.Join(parts, ", ")
}

func (c *CLI) archRenderCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "render <name|file>",
		Short: "Render a device as Graphviz DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatDOT && format != pipeline.FormatSVG {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (want dot or svg)", format)
			}
			a, err := pipeline.LoadArch(args[0])
			if err != nil {
				return err
			}
			data := []byte(dot.ToDOT(a, nil, dot.Options{Title: args[0]}))
			if format == pipeline.FormatSVG {
				if data, err = dot.RenderSVG(cmd.Context(), string(data)); err != nil {
					return err
				}
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}
			out := newTerm(cmd.OutOrStdout())
			out.success("Rendered %s", args[0])
			out.file(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(pipeline.FormatDOT, pipeline.FormatSVG))

	return cmd
}

func (c *CLI) archExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <name|file> <output>",
		Short: "Write a device description file (.json, otherwise text)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := pipeline.LoadArch(args[0])
			if err != nil {
				return err
			}
			if err := pkgio.ExportArch(a, args[1]); err != nil {
				return err
			}
			c.Logger.Debug("device exported", "device", args[0], "path", args[1])
			out := newTerm(cmd.OutOrStdout())
			out.success("Exported %s", args[0])
			out.file(args[1])
			return nil
		},
	}
}
