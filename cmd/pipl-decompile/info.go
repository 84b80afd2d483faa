package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aefx/piplkit/aex"
	"github.com/aefx/piplkit/detect"
	"github.com/aefx/piplkit/rcp"
	"github.com/aefx/piplkit/resfork"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#87CEEB"))

// styled applies the header style only when stdout is a terminal; piped
// output stays plain.
func styled(s string) string {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return headerStyle.Render(s)
	}
	return s
}

// describeFailure augments a parse failure with the diagnostics a user
// needs to tell "wrong format" from "no PIPL present".
func describeFailure(path string, err error) error {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return err
	}
	return fmt.Errorf("%w\n%s", err, diagnostics(path, data))
}

func diagnostics(path string, data []byte) string {
	format, detectErr := detect.File(path)
	formatStr := string(format)
	if detectErr != nil {
		formatStr = "unrecognized"
	}

	out := fmt.Sprintf("  file:            %s\n", path)
	out += fmt.Sprintf("  size:            %d bytes\n", len(data))
	out += fmt.Sprintf("  detected format: %s\n", formatStr)
	out += fmt.Sprintf("  PiPL marker:     %v\n", resfork.HasPiPLMarker(data))
	out += fmt.Sprintf("  8BIM records:    %d\n", resfork.Count8BIM(data))

	scriptInfo := rcp.Inspect(data)
	out += fmt.Sprintf("  script block:    %v (%d MIB8 signatures)\n",
		scriptInfo.HasPiPLBlock, scriptInfo.SignatureCount)

	if sections, err := aex.Sections(data); err == nil {
		out += fmt.Sprintf("  PE sections:     %d\n", len(sections))
		for _, s := range sections {
			out += fmt.Sprintf("    %-8s raw %#x+%#x virt %#x+%#x\n",
				s.Name, s.RawOffset, s.RawSize, s.VirtualAddr, s.VirtualSize)
		}
	}
	return out
}

func infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print container diagnostics without decompiling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styled("Container diagnostics"))
			fmt.Fprint(cmd.OutOrStdout(), diagnostics(path, data))
			return nil
		},
	}
}
