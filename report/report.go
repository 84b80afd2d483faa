// Package report renders decompiled output from a canonical property set:
// a numbered per-property listing, an aggregate summary, and a Config.h
// style header reconstructing the defines a plugin project would have
// compiled from.
package report

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/aefx/piplkit/pipl"
)

// Generator renders reports over one parse's property set. Aggregation
// happens once in New; the generator is read-only afterwards.
type Generator struct {
	props []pipl.Property
	desc  *pipl.Descriptor
}

// New builds a generator and its descriptor from canonical properties.
func New(props []pipl.Property) *Generator {
	return &Generator{
		props: props,
		desc:  pipl.BuildDescriptor(props),
	}
}

// Descriptor exposes the aggregated plugin descriptor.
func (g *Generator) Descriptor() *pipl.Descriptor {
	return g.desc
}

// entryLabels names the per-platform entry point properties in listings.
var entryLabels = map[pipl.Tag]string{
	pipl.TagCodeWin64:    "Entry Point (Windows 64)",
	pipl.TagCodeMacIntel: "Entry Point (Mac Intel 64)",
	pipl.TagCodeMacARM:   "Entry Point (Mac ARM 64)",
}

// Listing renders one line per property, numbered in parse order.
func (g *Generator) Listing() []string {
	lines := make([]string, len(g.props))
	for i, p := range g.props {
		lines[i] = propertyLine(p, i+1)
	}
	return lines
}

// WriteListing writes the numbered listing to w.
func (g *Generator) WriteListing(w io.Writer) error {
	for _, line := range g.Listing() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func propertyLine(p pipl.Property, index int) string {
	switch p.Tag {
	case pipl.TagKind:
		kind := "AEEffect"
		if len(p.Data) >= 4 {
			if name, ok := pipl.PluginKinds[string(p.Data[:4])]; ok {
				kind = name
			}
		}
		return fmt.Sprintf("[%d] Kind [%s]: %s", index, p.Tag, kind)

	case pipl.TagName, pipl.TagCategory, pipl.TagMatchName:
		label := pipl.TagNames[p.Tag]
		if p.Tag == pipl.TagName {
			label = "Name"
		}
		return fmt.Sprintf("[%d] %s [%s]: %s", index, label, p.Tag, pipl.DecodeString(p.Data))

	case pipl.TagCodeWin64, pipl.TagCodeMacIntel, pipl.TagCodeMacARM:
		return fmt.Sprintf("[%d] %s [%s]: %s", index, entryLabels[p.Tag], p.Tag, pipl.DecodeString(p.Data))

	case pipl.TagPiPLVersion, pipl.TagSpecVersion:
		major, minor := pipl.DecodeVersionPair(p.Data)
		return fmt.Sprintf("[%d] %s [%s]: %d, %d", index, pipl.TagNames[p.Tag], p.Tag, major, minor)

	case pipl.TagEffectVersion:
		if len(p.Data) < 4 {
			return fmt.Sprintf("[%d] %s [%s]: <truncated>", index, pipl.TagNames[p.Tag], p.Tag)
		}
		raw := pipl.U32BE(p.Data)
		v := pipl.DecodeEffectVersionBytes(p.Data)
		return fmt.Sprintf("[%d] %s [%s]: %#x // %s", index, pipl.TagNames[p.Tag], p.Tag, raw, v)

	case pipl.TagInfoFlags, pipl.TagReserved:
		var value uint32
		if len(p.Data) >= 4 {
			value = pipl.U32BE(p.Data)
		}
		return fmt.Sprintf("[%d] %s [%s]: %d", index, pipl.TagNames[p.Tag], p.Tag, value)

	case pipl.TagGlobalFlags:
		return flagLine(p, index, pipl.OutFlags)
	case pipl.TagGlobalFlags2:
		return flagLine(p, index, pipl.OutFlags2)

	default:
		window := p.Data
		if len(window) > 16 {
			window = window[:16]
		}
		dump := "00"
		if len(window) > 0 {
			dump = hex.EncodeToString(window)
		}
		return fmt.Sprintf("[%d] Unknown [%s]: %s...", index, p.RawType, dump)
	}
}

func flagLine(p pipl.Property, index int, table map[uint32]string) string {
	if len(p.Data) < 4 {
		return fmt.Sprintf("[%d] %s [%s]: <truncated>", index, pipl.TagNames[p.Tag], p.Tag)
	}
	names := pipl.DecodeFlags(pipl.U32BE(p.Data), table)
	return fmt.Sprintf("[%d] %s [%s]: %s", index, pipl.TagNames[p.Tag], p.Tag, pipl.FormatFlags(names))
}

// Summary is the aggregate view of one parse.
type Summary struct {
	Name       string
	Category   string
	UniqueID   string
	EntryPoint string

	TotalProperties int
	PropertyTypes   map[string]int

	EffectVersion    string
	EffectVersionRaw uint32
	PiPLVersion      string
	SpecVersion      string
}

// Summary aggregates per-type counts and decoded version strings. The
// effect version here uses the place-value layout, which is what release
// tooling writes into shipped resources; the per-line listing keeps the
// bit-packed interpretation alongside the raw word so both readings of an
// ambiguous value stay visible.
func (g *Generator) Summary() Summary {
	s := Summary{
		Name:            g.desc.Name,
		Category:        g.desc.Category,
		UniqueID:        g.desc.UniqueID,
		EntryPoint:      g.desc.EntryPoint(),
		TotalProperties: len(g.props),
		PropertyTypes:   make(map[string]int),
	}

	for _, p := range g.props {
		s.PropertyTypes[p.RawType]++
	}

	if raw, ok := g.effectVersionRaw(); ok {
		s.EffectVersionRaw = raw
		s.EffectVersion = pipl.DecodePlaceValueVersion(raw).String()
	}
	if g.desc.PiPLVersion != [2]uint16{} {
		s.PiPLVersion = fmt.Sprintf("%d.%d", g.desc.PiPLVersion[0], g.desc.PiPLVersion[1])
	}
	if g.desc.SpecVersion != [2]uint16{} {
		s.SpecVersion = fmt.Sprintf("%d.%d", g.desc.SpecVersion[0], g.desc.SpecVersion[1])
	}
	return s
}

func (g *Generator) effectVersionRaw() (uint32, bool) {
	for _, p := range g.props {
		if p.Tag == pipl.TagEffectVersion && len(p.Data) >= 4 {
			return pipl.U32BE(p.Data), true
		}
	}
	return 0, false
}

// WriteSummary renders the aggregate summary as text.
func (g *Generator) WriteSummary(w io.Writer) error {
	s := g.Summary()

	fmt.Fprintf(w, "Plugin:      %s\n", s.Name)
	fmt.Fprintf(w, "Category:    %s\n", s.Category)
	fmt.Fprintf(w, "Unique ID:   %s\n", s.UniqueID)
	fmt.Fprintf(w, "Entry point: %s\n", s.EntryPoint)
	if s.EffectVersion != "" {
		fmt.Fprintf(w, "Version:     %s (raw %#x)\n", s.EffectVersion, s.EffectVersionRaw)
	}
	if s.PiPLVersion != "" {
		fmt.Fprintf(w, "PiPL:        %s\n", s.PiPLVersion)
	}
	if s.SpecVersion != "" {
		fmt.Fprintf(w, "Spec:        %s\n", s.SpecVersion)
	}
	fmt.Fprintf(w, "Properties:  %d\n", s.TotalProperties)
	if len(g.desc.OutFlags) > 0 {
		fmt.Fprintf(w, "OutFlags:    %s\n", pipl.FormatFlags(g.desc.OutFlags))
	}
	if len(g.desc.OutFlags2) > 0 {
		fmt.Fprintf(w, "OutFlags2:   %s\n", pipl.FormatFlags(g.desc.OutFlags2))
	}
	_, err := fmt.Fprintf(w, "Per type:    %s\n", formatTypeCounts(s.PropertyTypes))
	return err
}

func formatTypeCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// Stable output for diffing.
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}

// ConfigHeader reconstructs the Config.h defines a plugin project would
// have used to produce this resource. Version fields decode under the
// place-value layout and RESSOURCEVERSION is recomputed from them, so a
// resource whose raw word disagrees with its fields shows up as a
// mismatch against the listing.
func (g *Generator) ConfigHeader() string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Plugin Information\n")
	fmt.Fprintf(&b, "#define FX_NAME %q\n", g.desc.Name)
	fmt.Fprintf(&b, "#define FX_CATEGORY %q\n", g.desc.Category)
	fmt.Fprintf(&b, "#define FX_UNIQUEID %q\n", g.desc.UniqueID)

	raw, _ := g.effectVersionRaw()
	v := pipl.DecodePlaceValueVersion(raw)
	fmt.Fprintf(&b, "\n// Version Information\n")
	fmt.Fprintf(&b, "#define MAJOR_VERSION %d\n", v.Major)
	fmt.Fprintf(&b, "#define MINOR_VERSION %d\n", v.Minor)
	fmt.Fprintf(&b, "#define BUG_VERSION %d\n", v.Bugfix)
	fmt.Fprintf(&b, "#define STAGE_VERSION %d  // PF_Stage_%s\n", int(v.Stage), strings.ToUpper(v.Stage.String()))
	fmt.Fprintf(&b, "#define BUILD_VERSION %d\n", v.Build)
	fmt.Fprintf(&b, "\n#define RESSOURCEVERSION %d\n", pipl.EncodePlaceValueVersion(v))
	fmt.Fprintf(&b, "// Calculated version: %d.%d.%d (Build %d)\n", v.Major, v.Minor, v.Bugfix, v.Build)

	if len(g.desc.EntryPoints) > 0 {
		fmt.Fprintf(&b, "\n// Entry Points\n")
		for _, tag := range []pipl.Tag{pipl.TagCodeWin64, pipl.TagCodeMacIntel, pipl.TagCodeMacARM} {
			if ep, ok := g.desc.EntryPoints[tag]; ok {
				fmt.Fprintf(&b, "// %s: %q\n", entryLabels[tag], ep)
			}
		}
	}

	if len(g.desc.OutFlags) > 0 && g.desc.OutFlags[0] != pipl.FlagNone {
		fmt.Fprintf(&b, "\n// Output Flags\n")
		fmt.Fprintf(&b, "#define FX_OUT_FLAGS    (   %s )\n",
			strings.Join(g.desc.OutFlags, " + \\\n                            "))
	}
	if len(g.desc.OutFlags2) > 0 && g.desc.OutFlags2[0] != pipl.FlagNone {
		fmt.Fprintf(&b, "\n// Output Flags 2\n")
		fmt.Fprintf(&b, "#define FX_OUT_FLAGS_2  (   %s )\n",
			strings.Join(g.desc.OutFlags2, " + \\\n                            "))
	}

	return b.String()
}
