package piplkit

import (
	"os"

	"go.uber.org/zap"

	"github.com/aefx/piplkit/aex"
	"github.com/aefx/piplkit/detect"
	"github.com/aefx/piplkit/errors"
	"github.com/aefx/piplkit/pipl"
	"github.com/aefx/piplkit/rcp"
	"github.com/aefx/piplkit/report"
	"github.com/aefx/piplkit/resfork"
)

// Result is the outcome of decompiling one input. Raw properties keep
// their stored wire form; Properties are the canonical view the rest of
// the API works with. A Result never shares state with another parse.
type Result struct {
	Path       string
	Format     detect.Format
	Raw        []pipl.RawProperty
	Properties []pipl.Property
	Descriptor *pipl.Descriptor
}

// Report returns a generator rendering listings and summaries for this
// result.
func (r *Result) Report() *report.Generator {
	return report.New(r.Properties)
}

// EffectVersion returns the decoded bit-packed effect version, when the
// input carried one.
func (r *Result) EffectVersion() (pipl.VersionInfo, bool) {
	if r.Descriptor.EffectVersion == nil {
		return pipl.VersionInfo{}, false
	}
	return *r.Descriptor.EffectVersion, true
}

// Decompile parses data under an already-known container format and
// normalizes the properties. It fails with a no-properties error when
// every parse path comes up empty.
func Decompile(data []byte, format detect.Format) (*Result, error) {
	var raw []pipl.RawProperty
	switch format {
	case detect.FormatPE:
		raw = aex.Parse(data)
	case detect.FormatScript:
		raw = rcp.Parse(data)
	case detect.FormatResourceFork, detect.FormatBundle:
		raw = resfork.Parse(data)
	default:
		return nil, errors.FormatUnknown(string(format))
	}
	if len(raw) == 0 {
		return nil, errors.NoProperties("")
	}

	props := pipl.Normalize(raw, format.Source())
	return &Result{
		Format:     format,
		Raw:        raw,
		Properties: props,
		Descriptor: pipl.BuildDescriptor(props),
	}, nil
}

// DecompileFile sniffs the format of the file at path and decompiles it.
// Plugin bundles resolve to the resource fork inside them.
func DecompileFile(path string) (*Result, error) {
	format, err := detect.File(path)
	if err != nil {
		return nil, err
	}
	return DecompileFileAs(path, format)
}

// DecompileFileAs decompiles the file at path under a caller-forced
// format, bypassing detection.
func DecompileFileAs(path string, format detect.Format) (*Result, error) {
	if format == detect.FormatBundle {
		inner, err := detect.ResourceInBundle(path)
		if err != nil {
			return nil, err
		}
		path = inner
		format = detect.FormatResourceFork
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ReadFailed(path, err)
	}

	res, err := Decompile(data, format)
	if err != nil {
		if perr, ok := err.(*errors.Error); ok && perr.File == "" {
			perr.File = path
		}
		return nil, err
	}
	res.Path = path
	return res, nil
}

// SetLogger installs one logger across every parsing package. Call it
// before the first parse.
func SetLogger(l *zap.Logger) {
	resfork.SetLogger(l.Named("resfork"))
	aex.SetLogger(l.Named("aex"))
	rcp.SetLogger(l.Named("rcp"))
}
