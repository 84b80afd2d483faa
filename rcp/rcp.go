// Package rcp parses Windows resource-compiler scripts (.rcp, .r, .rc)
// that spell out a PIPL resource as text. The compiler would turn these
// into the MIB8 records the aex package reads from binaries; here the
// script itself is the source of truth.
package rcp

import (
	"encoding/binary"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aefx/piplkit/pipl"
)

var (
	// piplBlockRe captures the resource id and the BEGIN..END body of the
	// PiPL declaration.
	piplBlockRe = regexp.MustCompile(`(?s)(\d+)\s+PiPL\s+DISCARDABLE\s*\r?\n\s*BEGIN\s*\r?\n(.*?)\r?\nEND`)

	rscs32Re    = regexp.MustCompile(`RSCS32\(\s*(\d+)\s*\)`)
	hexEscapeRe = regexp.MustCompile(`\\x([0-9a-fA-F]{2})`)
)

// Info summarizes a script without fully parsing it.
type Info struct {
	Size           int
	HasPiPLBlock   bool
	BlockLength    int
	SignatureCount int
}

// Inspect reports whether data looks like a PIPL resource script and how
// much of it the parser would consume.
func Inspect(data []byte) Info {
	text := decodeText(data)
	info := Info{
		Size:           len(data),
		HasPiPLBlock:   strings.Contains(text, "PiPL"),
		SignatureCount: strings.Count(text, `"MIB8"`),
	}
	if body, ok := piplBlock(text); ok {
		info.BlockLength = len(body)
	}
	return info
}

// Parse extracts raw PIPL properties from resource-script text. Type tags
// come out in their stored script form (reversed for most tags); payloads
// are rebuilt big-endian the way the resource compiler would emit them.
func Parse(data []byte) []pipl.RawProperty {
	body, ok := piplBlock(decodeText(data))
	if !ok {
		return nil
	}

	lines := splitLines(body)
	var props []pipl.RawProperty
	for i := 0; i < len(lines); i++ {
		if lines[i] != `"MIB8",` {
			continue
		}
		prop, next := readProperty(lines, i+1)
		if prop != nil {
			props = append(props, *prop)
		}
		if next > i {
			i = next - 1
		}
	}
	return props
}

// decodeText interprets the input as UTF-8, falling back to a Latin-1
// widening when the bytes are not valid UTF-8. Old resource scripts carry
// vendor names in 8-bit encodings.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}

func piplBlock(text string) (string, bool) {
	m := piplBlockRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	Logger().Debug("located PiPL block",
		zap.String("resource_id", m[1]),
		zap.Int("body_length", len(m[2])))
	return strings.TrimSpace(m[2]), true
}

// splitLines trims each line of the block body. Blank lines are kept so
// that property scanning indexes stay addressable.
func splitLines(body string) []string {
	raw := strings.Split(body, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

func skippable(line string) bool {
	return line == "" ||
		strings.HasPrefix(line, "/*") ||
		strings.HasPrefix(line, "//") ||
		strings.HasPrefix(line, "0x0001") ||
		strings.Contains(line, "kCurrentPiPLVersion") ||
		strings.Contains(line, "Property Count")
}

// readProperty parses one property starting at the line after a "MIB8",
// marker: a type tag (quoted, or a legacy hex long), RSCS32 padding and
// length lines, then one data line. It returns nil when the sequence is
// malformed, plus the index scanning should resume at.
func readProperty(lines []string, i int) (*pipl.RawProperty, int) {
	for i < len(lines) && skippable(lines[i]) {
		i++
	}
	if i >= len(lines) {
		return nil, i
	}

	tag, ok := parseTypeTag(lines[i])
	if !ok {
		return nil, i + 1
	}
	i++

	// RSCS32(0) lines pad the record; the first non-zero RSCS32 is the
	// declared payload length. Legacy blocks use bare 0L / <n>L instead.
	declared := -1
	for i < len(lines) {
		line := lines[i]
		switch {
		case skippable(line):
			i++
			continue
		case strings.Contains(line, "RSCS32(0)"), line == "0L,":
			i++
			continue
		}
		if m := rscs32Re.FindStringSubmatch(line); m != nil {
			declared, _ = strconv.Atoi(m[1])
			i++
		} else if n, ok := parseLongLine(line); ok {
			declared = int(n)
			i++
		}
		break
	}
	if declared < 0 || i >= len(lines) {
		return nil, i
	}

	data := decodeDataLine(strings.TrimSuffix(lines[i], ","))
	Logger().Debug("parsed script property",
		zap.String("type", tag),
		zap.Int("declared_length", declared),
		zap.Int("payload_length", len(data)))

	return &pipl.RawProperty{
		Type:        tag,
		Data:        data,
		DeclaredLen: uint32(len(data)),
	}, i + 1
}

// parseTypeTag accepts a quoted FourCC ("eman",) or the legacy hex-long
// form (0x656D616EL,), which packs the same four ASCII bytes big-endian.
func parseTypeTag(line string) (string, bool) {
	if strings.HasPrefix(line, `"`) {
		tag := strings.TrimSuffix(line, ",")
		tag = strings.Trim(tag, `"`)
		if len(tag) > 4 {
			tag = tag[:4]
		}
		return tag, tag != ""
	}
	if strings.HasPrefix(line, "0x") && strings.Contains(line, "L") {
		n, ok := parseLong(strings.Split(line, ",")[0])
		if !ok {
			return "", false
		}
		var packed [4]byte
		binary.BigEndian.PutUint32(packed[:], n)
		return string(packed[:]), true
	}
	return "", false
}

// parseLong reads a resource-script long literal: optional 0x prefix,
// optional trailing L.
func parseLong(text string) (uint32, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "L")
	base := 10
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		text = text[2:]
		base = 16
	}
	n, err := strconv.ParseUint(text, base, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// parseLongLine matches a line that is nothing but one long literal.
func parseLongLine(line string) (uint32, bool) {
	line = strings.TrimSuffix(line, ",")
	if !strings.HasSuffix(line, "L") {
		return 0, false
	}
	return parseLong(line)
}

// decodeDataLine rebuilds a payload the way the resource compiler would:
// quoted text becomes raw bytes with escape substitution; one numeric
// value packs to a big-endian 32-bit word, two to a pair of 16-bit words,
// more to a run of 32-bit words; anything unrecognized passes through as
// its raw text.
func decodeDataLine(line string) []byte {
	if strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`) && len(line) >= 2 {
		return decodeStringLiteral(line[1 : len(line)-1])
	}

	if strings.Contains(line, ",") {
		var values []uint32
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, ok := parseLong(part)
			if !ok {
				return []byte(line)
			}
			values = append(values, n)
		}
		switch len(values) {
		case 0:
			return []byte(line)
		case 1:
			return packU32(values[0])
		case 2:
			packed := make([]byte, 4)
			binary.BigEndian.PutUint16(packed, uint16(values[0]))
			binary.BigEndian.PutUint16(packed[2:], uint16(values[1]))
			return packed
		default:
			packed := make([]byte, 0, len(values)*4)
			for _, v := range values {
				packed = append(packed, packU32(v)...)
			}
			return packed
		}
	}

	if n, ok := parseLong(line); ok {
		return packU32(n)
	}
	return []byte(line)
}

func packU32(v uint32) []byte {
	packed := make([]byte, 4)
	binary.BigEndian.PutUint32(packed, v)
	return packed
}

// decodeStringLiteral substitutes \xHH hex escapes and \0 null escapes.
func decodeStringLiteral(text string) []byte {
	text = hexEscapeRe.ReplaceAllStringFunc(text, func(esc string) string {
		n, _ := strconv.ParseUint(esc[2:], 16, 8)
		return string([]byte{byte(n)})
	})
	text = strings.ReplaceAll(text, `\0`, "\x00")
	return []byte(text)
}
