// Command pesect inspects the section table of a Windows plugin binary
// and the PIPL records inside its resource section. It exists for the
// cases pipl-decompile gives up on: truncated images, packed binaries,
// resources outside .rsrc.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/aefx/piplkit/aex"
	"github.com/aefx/piplkit/pipl"
)

func main() {
	var (
		peFile      = flag.String("pe", "", "Path to PE/.aex file")
		hexSection  = flag.String("hex", "", "Hex dump the named section")
		dumpPiPL    = flag.Bool("dump-pipl", false, "Write the raw PIPL blob to stdout")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *peFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: pesect -pe <file.aex> [-hex section] [-dump-pipl]")
		fmt.Fprintln(os.Stderr, "       pesect -pe <file.aex> -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(*peFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*peFile, *hexSection, *dumpPiPL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(peFile, hexSection string, dumpPiPL bool) error {
	data, err := os.ReadFile(peFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	if dumpPiPL {
		blob, ok := aex.PiPLBlob(data)
		if !ok {
			return fmt.Errorf("%s: no MIB8 records", peFile)
		}
		_, err := os.Stdout.Write(blob)
		return err
	}

	sections, err := aex.Sections(data)
	if err != nil {
		return fmt.Errorf("section table: %w", err)
	}

	if hexSection != "" {
		for _, s := range sections {
			if s.Name == hexSection {
				return hexDump(data, s)
			}
		}
		return fmt.Errorf("no section named %q", hexSection)
	}

	fmt.Printf("File: %s (%d bytes)\n\n", peFile, len(data))
	fmt.Printf("%-10s %10s %10s %10s %10s\n", "Section", "RawOff", "RawSize", "VirtAddr", "VirtSize")
	for _, s := range sections {
		fmt.Printf("%-10s %#10x %#10x %#10x %#10x\n",
			s.Name, s.RawOffset, s.RawSize, s.VirtualAddr, s.VirtualSize)
	}

	props := aex.Parse(data)
	fmt.Printf("\nPIPL records: %d\n", len(props))
	for i, p := range props {
		canonical := pipl.Normalize([]pipl.RawProperty{p}, pipl.SourcePE)[0]
		fmt.Printf("  [%d] %s -> %s (%d bytes)\n", i+1, p.Type, canonical.Tag, len(p.Data))
	}
	return nil
}

func hexDump(data []byte, s aex.Section) error {
	end := int(s.RawOffset) + int(s.RawSize)
	if end > len(data) {
		end = len(data)
	}
	if int(s.RawOffset) >= end {
		return fmt.Errorf("section %s lies outside the file", s.Name)
	}

	dumper := hex.Dumper(os.Stdout)
	defer dumper.Close()
	_, err := dumper.Write(data[s.RawOffset:end])
	return err
}
