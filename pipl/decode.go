package pipl

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// FlagNone is the sentinel returned for a zero flag word. Callers always
// get at least one name back.
const FlagNone = "none"

// PF_VERS field layout of the bit-packed effect version word.
const (
	versBuildBits  = 0x1ff
	versBuildShift = 0
	versStageBits  = 0x3
	versStageShift = 9
	versBugfixBits = 0xf
	versBugfixShift = 11
	versMinorBits  = 0xf
	versMinorShift = 15
	versMajorBits  = 0x7
	versMajorShift = 19
	versHighBits   = 0xf
	versHighShift  = 26
	versLowShift   = 3
)

// Place-value multipliers of the alternative effect version layout, as used
// by plugin build systems composing RESSOURCEVERSION.
const (
	placeMajor  = 524288
	placeMinor  = 32768
	placeBugfix = 2048
	placeStage  = 512
)

// DecodeString decodes a property payload as text. It accepts the Pascal
// form (leading length byte), a NUL-terminated C string, or a bare byte
// run, in that priority order. Total: any input yields a string.
func DecodeString(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	// Pascal form: plausible length byte followed by that many chars.
	if n := int(data[0]); n > 0 && n < len(data) && n+1 <= len(data) {
		return sanitizeText(data[1 : n+1])
	}

	if i := bytes.IndexByte(data, 0); i >= 0 {
		return sanitizeText(data[:i])
	}

	return sanitizeText(data)
}

// sanitizeText performs a lossy UTF-8 decode, dropping invalid bytes.
func sanitizeText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

// DecodeVersionPair decodes the first four payload bytes as two big-endian
// 16-bit words (major, minor). Short payloads yield (0, 0).
func DecodeVersionPair(data []byte) (major, minor uint16) {
	if len(data) < 4 {
		return 0, 0
	}
	return binary.BigEndian.Uint16(data[0:2]), binary.BigEndian.Uint16(data[2:4])
}

// DecodeEffectVersion unpacks a bit-packed effect version word. The stage
// field is two bits wide, so out-of-range values cannot occur after
// masking; the Develop fallback matches the SDK's behavior.
func DecodeEffectVersion(encoded uint32) VersionInfo {
	build := (encoded >> versBuildShift) & versBuildBits
	stageNum := (encoded >> versStageShift) & versStageBits
	bugfix := (encoded >> versBugfixShift) & versBugfixBits
	minor := (encoded >> versMinorShift) & versMinorBits

	low := (encoded >> versMajorShift) & versMajorBits
	high := (encoded >> versHighShift) & versHighBits
	major := (high << versLowShift) | low

	stage := StageDevelop
	if stageNum <= uint32(StageRelease) {
		stage = Stage(stageNum)
	}

	return VersionInfo{
		Major:  major,
		Minor:  minor,
		Bugfix: bugfix,
		Stage:  stage,
		Build:  build,
	}
}

// EncodeEffectVersion packs a VersionInfo back into the bit-packed layout.
// Fields outside their valid ranges are truncated to field width.
func EncodeEffectVersion(v VersionInfo) uint32 {
	var encoded uint32
	encoded |= (v.Build & versBuildBits) << versBuildShift
	encoded |= (uint32(v.Stage) & versStageBits) << versStageShift
	encoded |= (v.Bugfix & versBugfixBits) << versBugfixShift
	encoded |= (v.Minor & versMinorBits) << versMinorShift
	encoded |= (v.Major & versMajorBits) << versMajorShift
	encoded |= ((v.Major >> versLowShift) & versHighBits) << versHighShift
	return encoded
}

// DecodeEffectVersionBytes is DecodeEffectVersion over a property payload.
// Payloads shorter than four bytes decode as the zero version.
func DecodeEffectVersionBytes(data []byte) VersionInfo {
	if len(data) < 4 {
		return VersionInfo{}
	}
	return DecodeEffectVersion(binary.BigEndian.Uint32(data[0:4]))
}

// DecodePlaceValueVersion interprets the same 32-bit word under the
// place-value layout (MAJOR*524288 + MINOR*32768 + BUGFIX*2048 + STAGE*512
// + BUILD). The two layouts are mutually incompatible readings of one
// word; callers choose per call site, never by guessing.
func DecodePlaceValueVersion(encoded uint32) VersionInfo {
	major := encoded / placeMajor
	rem := encoded % placeMajor

	minor := rem / placeMinor
	rem = rem % placeMinor

	bugfix := rem / placeBugfix
	rem = rem % placeBugfix

	stageNum := rem / placeStage
	build := rem % placeStage

	stage := StageDevelop
	if stageNum <= uint32(StageRelease) {
		stage = Stage(stageNum)
	}

	return VersionInfo{
		Major:  major,
		Minor:  minor,
		Bugfix: bugfix,
		Stage:  stage,
		Build:  build,
	}
}

// EncodePlaceValueVersion recomposes the place-value word from its fields.
func EncodePlaceValueVersion(v VersionInfo) uint32 {
	return v.Major*placeMajor + v.Minor*placeMinor + v.Bugfix*placeBugfix +
		uint32(v.Stage)*placeStage + v.Build
}

// DecodeFlags resolves a flag word against a bit dictionary, returning
// names in ascending bit order. A zero word yields the FlagNone sentinel;
// bits without a table entry are skipped.
func DecodeFlags(value uint32, table map[uint32]string) []string {
	var names []string
	for bit := 0; bit < 32; bit++ {
		mask := uint32(1) << bit
		if value&mask == 0 {
			continue
		}
		if name, ok := table[mask]; ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return []string{FlagNone}
	}
	return names
}

// FormatFlags renders a decoded flag list the way resource scripts do.
func FormatFlags(names []string) string {
	return strings.Join(names, " | ")
}

// U32BE reads the leading big-endian word of a payload, zero when short.
// Several report paths need the raw word next to its decoded form.
func U32BE(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(data[0:4])
}
