// Command pipl-decompile extracts and decodes PIPL resources from plugin
// files: Mac resource forks, Windows .aex binaries, plugin bundles, and
// resource-compiler scripts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	piplkit "github.com/aefx/piplkit"
	"github.com/aefx/piplkit/detect"
)

var (
	forcedFormat string
	verbose      bool
)

func main() {
	root := &cobra.Command{
		Use:   "pipl-decompile",
		Short: "Decompile After Effects PIPL resources",
		Long: `pipl-decompile reads the PIPL (Plug-in Property List) resource out of a
plugin container and prints its properties in decoded form.

Supported containers: Mac resource forks (.rsrc), Windows plugins (.aex),
plugin bundles (.plugin), and resource-compiler scripts (.rcp, .r). The
container format is sniffed from extension and content; use --format to
override the guess.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&forcedFormat, "format", "", "force container format (rsrc, aex, rcp, plugin)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log parser internals")

	root.AddCommand(
		decompileCommand(),
		infoCommand(),
		versionCommand(),
		configCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// load runs the shared front half of every subcommand: logging setup,
// format override, decompile.
func load(path string) (*piplkit.Result, error) {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		piplkit.SetLogger(logger)
	}

	if forcedFormat != "" {
		format := detect.Format(forcedFormat)
		switch format {
		case detect.FormatResourceFork, detect.FormatPE, detect.FormatScript, detect.FormatBundle:
			return piplkit.DecompileFileAs(path, format)
		default:
			return nil, fmt.Errorf("unknown format %q (want rsrc, aex, rcp, or plugin)", forcedFormat)
		}
	}
	return piplkit.DecompileFile(path)
}

func decompileCommand() *cobra.Command {
	var summaryOnly bool

	cmd := &cobra.Command{
		Use:   "decompile <file>",
		Short: "Print the decoded property listing and summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := load(args[0])
			if err != nil {
				return describeFailure(args[0], err)
			}

			gen := res.Report()
			out := cmd.OutOrStdout()

			if !summaryOnly {
				fmt.Fprintln(out, styled(fmt.Sprintf("PIPL: %s (%s, %d properties)",
					res.Path, res.Format, len(res.Properties))))
				fmt.Fprintln(out)
				if err := gen.WriteListing(out); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}
			return gen.WriteSummary(out)
		},
	}

	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the aggregate summary")
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version <file>",
		Short: "Print only the encoded effect version and its decode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := load(args[0])
			if err != nil {
				return describeFailure(args[0], err)
			}

			v, ok := res.EffectVersion()
			if !ok {
				return fmt.Errorf("%s: no effect version property", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "raw: %#x\ndecoded: %s\n",
				res.Descriptor.EffectVersionRaw, v)
			return nil
		},
	}
}

func configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config <file>",
		Short: "Reconstruct Config.h style defines from the resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := load(args[0])
			if err != nil {
				return describeFailure(args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Report().ConfigHeader())
			return nil
		},
	}
}
