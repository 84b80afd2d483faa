package piplkit_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	piplkit "github.com/aefx/piplkit"
	"github.com/aefx/piplkit/detect"
	pkgerrors "github.com/aefx/piplkit/errors"
	"github.com/aefx/piplkit/pipl"
)

const scriptFixture = `16000 PiPL DISCARDABLE
BEGIN
	"MIB8",
	"eman",
	RSCS32(0),
	RSCS32(5),
	"Test\0",
END
`

// forkFixture is a loose run of 8BIM records, the shape the resource-fork
// scanner's fallback path handles.
func forkFixture() []byte {
	var out []byte
	add := func(typ string, payload []byte) {
		out = append(out, "8BIM"...)
		out = append(out, typ...)
		out = append(out, 0, 0, 0, 0)
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(payload)))
		out = append(out, length[:]...)
		out = append(out, payload...)
	}
	add("name", []byte("\x04Glow"))
	add("catg", []byte("\x07Stylize"))
	add("eVER", []byte{0x00, 0x08, 0x0e, 0x01})
	return out
}

func TestDecompileScript(t *testing.T) {
	res, err := piplkit.Decompile([]byte(scriptFixture), detect.FormatScript)
	require.NoError(t, err)

	require.Len(t, res.Properties, 1)
	assert.Equal(t, pipl.TagName, res.Properties[0].Tag)
	assert.Equal(t, "Test", res.Descriptor.Name)
	assert.Equal(t, detect.FormatScript, res.Format)
}

func TestDecompileResourceFork(t *testing.T) {
	res, err := piplkit.Decompile(forkFixture(), detect.FormatResourceFork)
	require.NoError(t, err)

	require.Len(t, res.Properties, 3)
	assert.Equal(t, "Glow", res.Descriptor.Name)
	assert.Equal(t, "Stylize", res.Descriptor.Category)

	v, ok := res.EffectVersion()
	require.True(t, ok)
	assert.Equal(t, uint32(1), v.Major)
	assert.Equal(t, pipl.StageRelease, v.Stage)
}

func TestDecompileEmptyInput(t *testing.T) {
	_, err := piplkit.Decompile(nil, detect.FormatResourceFork)
	require.Error(t, err)

	var perr *pkgerrors.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, pkgerrors.KindNoProperties, perr.Kind)
}

func TestDecompileUnknownFormat(t *testing.T) {
	_, err := piplkit.Decompile([]byte("data"), detect.Format("weird"))
	require.Error(t, err)

	var perr *pkgerrors.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, pkgerrors.KindFormatUnknown, perr.Kind)
}

func TestDecompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.rcp")
	require.NoError(t, os.WriteFile(path, []byte(scriptFixture), 0o644))

	res, err := piplkit.DecompileFile(path)
	require.NoError(t, err)
	assert.Equal(t, detect.FormatScript, res.Format)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, "Test", res.Descriptor.Name)
}

func TestDecompileFileForcedFormat(t *testing.T) {
	// A fork saved with a misleading extension still parses when the
	// caller forces the format.
	path := filepath.Join(t.TempDir(), "effect.bin")
	require.NoError(t, os.WriteFile(path, forkFixture(), 0o644))

	res, err := piplkit.DecompileFileAs(path, detect.FormatResourceFork)
	require.NoError(t, err)
	assert.Equal(t, "Glow", res.Descriptor.Name)
}

func TestDecompileFileBundle(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "Glow.plugin")
	resources := filepath.Join(bundle, "Contents", "Resources")
	require.NoError(t, os.MkdirAll(resources, 0o755))
	rsrc := filepath.Join(resources, "Glow.rsrc")
	require.NoError(t, os.WriteFile(rsrc, forkFixture(), 0o644))

	res, err := piplkit.DecompileFile(bundle)
	require.NoError(t, err)
	assert.Equal(t, detect.FormatResourceFork, res.Format)
	assert.Equal(t, rsrc, res.Path)
	assert.Equal(t, "Glow", res.Descriptor.Name)
}

func TestDecompileFileMissing(t *testing.T) {
	_, err := piplkit.DecompileFile(filepath.Join(t.TempDir(), "absent.aex"))
	require.Error(t, err)
}

func TestDecompileFileNoProperties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.rsrc")
	require.NoError(t, os.WriteFile(path, []byte("nothing in here"), 0o644))

	_, err := piplkit.DecompileFile(path)
	require.Error(t, err)

	var perr *pkgerrors.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, pkgerrors.KindNoProperties, perr.Kind)
	assert.Equal(t, path, perr.File)
}

func TestResultReport(t *testing.T) {
	res, err := piplkit.Decompile(forkFixture(), detect.FormatResourceFork)
	require.NoError(t, err)

	lines := res.Report().Listing()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Name [name]: Glow")
}
