package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/pipeline"
	"github.com/ysiraichi/enfield/pkg/route"
)

// routeFlags holds the route flags that do not map onto pipeline.Options.
type routeFlags struct {
	formats string
	initial string
	output  string
	noCache bool
	stats   bool
}

// routeCommand creates the route command.
func (c *CLI) routeCommand() *cobra.Command {
	var opts pipeline.Options
	var flags routeFlags

	cmd := &cobra.Command{
		Use:   "route <circuit.qasm>",
		Short: "Route a circuit onto a device",
		Long: `Route an OpenQASM 2 circuit onto a device, inserting swaps so that every
two-qubit gate acts on coupled physical qubits.

The device is a built-in name (ibmqx2, ibmqx3, ibmqx5, linear:N, ring:N,
grid:RxC, complete:N) or a device description file (.json or text).

With a single text format and no --output, the artifact is written to
stdout. Otherwise --output names the file (one format) or the base path
(several formats), defaulting to <circuit>.routed.<format>.`,
		Example: `  enfield route qft.qasm --arch ibmqx5
  enfield route qft.qasm --arch grid:3x3 --finder exact -f qasm,svg
  enfield route bell.qasm --initial 0,2 --stats`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial, err := parseInitial(flags.initial)
			if err != nil {
				return err
			}
			opts.CircuitPath = args[0]
			opts.Initial = initial
			opts.Formats = parseFormats(flags.formats)
			return c.runRoute(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, flags)
		},
	}

	cmd.Flags().StringVarP(&opts.Arch, "arch", "a", defaultArch, "device name or description file")
	cmd.Flags().StringVar(&opts.Finder, "finder", "", "swap finder: approx, exact")
	cmd.Flags().StringVar(&opts.Estimator, "estimator", "", "distance estimator: hop, geo")
	cmd.Flags().StringVar(&opts.Order, "order", "", "qubit allocation order: program, geo-nearest")
	cmd.Flags().IntVar(&opts.ExactMaxVertices, "exact-max-vertices", 0, "largest device the exact finder accepts")
	cmd.Flags().StringVar(&flags.initial, "initial", "", "initial mapping, logical qubit order (e.g. 0,2,-)")
	cmd.Flags().BoolVar(&opts.PinIdle, "pin-idle", false, "map unused logical qubits onto free vertices")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "routing time limit (default from config, 30s)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): qasm, json, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.ExpandSwaps, "expand-swaps", false, "write each swap as three cx gates")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print routing statistics")

	_ = cmd.RegisterFlagCompletionFunc("finder", fixedCompletion("approx", "exact"))
	_ = cmd.RegisterFlagCompletionFunc("estimator", fixedCompletion("hop", "geo"))
	_ = cmd.RegisterFlagCompletionFunc("order", fixedCompletion("program", "geo-nearest"))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion("qasm", "json", "dot", "svg"))

	return cmd
}

func (c *CLI) runRoute(ctx context.Context, stdout, stderr io.Writer, opts pipeline.Options, flags routeFlags) error {
	c.config.Apply(&opts)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	toStdout := flags.output == "" && len(opts.Formats) == 1 && opts.Formats[0] != pipeline.FormatSVG

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	name := filepath.Base(opts.CircuitPath)
	prog := newProgress(c.Logger)
	sp := newSpinner(ctx, stderr, fmt.Sprintf("Routing %s on %s...", name, opts.Arch))
	sp.start()
	res, err := runner.Execute(ctx, opts)
	sp.halt()
	if err != nil {
		if sp.interrupted() {
			return ctx.Err()
		}
		if !toStdout {
			newTerm(stdout).failure("Routing %s failed", name)
		}
		return err
	}
	prog.done("Routed", "circuit", name, "arch", opts.Arch, "run", res.RunID)

	if toStdout {
		_, err := stdout.Write(res.Artifacts[opts.Formats[0]])
		if flags.stats {
			newTerm(stderr).statsTable(statsRows(res))
		}
		return err
	}

	out := newTerm(stdout)
	out.success("Routed %s onto %s", name, opts.Arch)
	out.routeSummary(len(res.Route.Swaps), int(res.Route.Stats[route.StatDepth]), res.CacheInfo.RouteHit)
	if flags.stats {
		out.statsTable(statsRows(res))
	}
	paths, err := writeArtifacts(res.Artifacts, opts.Formats, opts.CircuitPath, flags.output)
	for _, p := range paths {
		out.file(p)
	}
	return err
}

// statsRows combines the routing report with the pipeline measurements.
func statsRows(res *pipeline.Result) [][]string {
	rows := reportRows(res.Route.Report)
	rows = append(rows,
		[]string{"layers", fmt.Sprint(res.Layers), "Parallel layers of two-qubit gates in the input"},
		[]string{"route_time", res.Stats.RouteTime.Round(time.Millisecond).String(), "Routing wall time"},
		[]string{"render_time", res.Stats.RenderTime.Round(time.Millisecond).String(), "Rendering wall time"},
	)
	return rows
}

// writeArtifacts writes each requested format and returns the written paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	var paths []string
	for _, f := range formats {
		path := artifactPath(input, output, f, len(formats) == 1)
		if err := writeFile(path, artifacts[f]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath returns output when it names a single artifact, otherwise
// <base>.<format> with base defaulting to <input without extension>.routed.
func artifactPath(input, output, format string, single bool) string {
	if output != "" && single {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input)) + ".routed"
	}
	return base + "." + format
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// fixedCompletion completes a flag from a fixed list of values.
func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
