// Package detect sniffs the container format of a plugin file. Sniffing
// is best-effort: strategies run in priority order and the first match
// wins, so a stricter signature check always beats a looser size
// heuristic.
package detect

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aefx/piplkit/errors"
	"github.com/aefx/piplkit/pipl"
)

// Format identifies a supported container format.
type Format string

const (
	FormatResourceFork Format = "rsrc"
	FormatPE           Format = "aex"
	FormatScript       Format = "rcp"
	FormatBundle       Format = "plugin"
)

// Source maps a container format to its normalization source. Bundles
// resolve to a resource fork, which is what they carry inside.
func (f Format) Source() pipl.Source {
	switch f {
	case FormatPE:
		return pipl.SourcePE
	case FormatScript:
		return pipl.SourceScript
	default:
		return pipl.SourceResourceFork
	}
}

// extensions maps known file extensions directly to a format.
var extensions = map[string]Format{
	".rsrc":   FormatResourceFork,
	".rcp":    FormatScript,
	".r":      FormatScript,
	".aex":    FormatPE,
	".plugin": FormatBundle,
}

// strategy is one content-sniffing rule. Rules are ordered: earlier rules
// carry stronger evidence.
type strategy struct {
	name  string
	match func(header []byte) bool
	kind  Format
}

var strategies = []strategy{
	{
		name: "resource script",
		kind: FormatScript,
		match: func(h []byte) bool {
			return bytes.Contains(h, []byte("PiPL")) && bytes.Contains(h, []byte("BEGIN"))
		},
	},
	{
		name: "pe image",
		kind: FormatPE,
		match: func(h []byte) bool {
			return len(h) >= 2 && h[0] == 'M' && h[1] == 'Z'
		},
	},
	{
		name: "resource fork",
		kind: FormatResourceFork,
		match: func(h []byte) bool {
			return bytes.Contains(h, []byte("8BIM")) || len(h) > 256
		},
	},
}

// sniffWindow is how much of the file content sniffing looks at.
const sniffWindow = 1024

// ByContent picks a format from the leading bytes of a file.
func ByContent(header []byte) (Format, error) {
	if len(header) > sniffWindow {
		header = header[:sniffWindow]
	}
	for _, s := range strategies {
		if s.match(header) {
			return s.kind, nil
		}
	}
	return "", errors.FormatUnknown("")
}

// File determines the format of the file at path: directory bundles and
// known extensions first, content sniffing second.
func File(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.ReadFailed(path, err)
	}
	if info.IsDir() {
		if strings.HasSuffix(path, ".plugin") {
			return FormatBundle, nil
		}
		return "", errors.FormatUnknown(path)
	}
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f, nil
	}

	header, err := readHeader(path)
	if err != nil {
		return "", errors.ReadFailed(path, err)
	}
	f, err := ByContent(header)
	if err != nil {
		return "", errors.FormatUnknown(path)
	}
	return f, nil
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, sniffWindow)
	n, err := f.Read(header)
	if n == 0 && err != nil {
		return nil, err
	}
	return header[:n], nil
}

// ResourceInBundle locates the resource fork file inside a .plugin bundle
// directory. Contents/Resources is checked first; any .rsrc file anywhere
// in the bundle serves as a fallback.
func ResourceInBundle(bundlePath string) (string, error) {
	resources := filepath.Join(bundlePath, "Contents", "Resources")
	if matches, err := filepath.Glob(filepath.Join(resources, "*.rsrc")); err == nil && len(matches) > 0 {
		return matches[0], nil
	}

	var found string
	err := filepath.WalkDir(bundlePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(path, ".rsrc") {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err == nil && found != "" {
		return found, nil
	}
	return "", errors.NotFound(errors.PhaseDetect, "resource fork in bundle "+bundlePath)
}
