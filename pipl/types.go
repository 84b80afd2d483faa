package pipl

import "fmt"

// Tag is a canonical four-character property type code. Parsers may emit
// tags in source-specific encodings (reversed FourCCs, hex literals); after
// normalization every known property carries one of the Tag* constants
// below, and anything else is preserved as-is with Known=false.
type Tag string

// Canonical property tags.
const (
	TagKind          Tag = "kind" // plugin kind FourCC
	TagName          Tag = "name" // display name
	TagCategory      Tag = "catg" // effect category
	TagCodeWin64     Tag = "8664" // Windows x64 entry point
	TagCodeMacIntel  Tag = "mi64" // macOS Intel 64 entry point
	TagCodeMacARM    Tag = "ma64" // macOS ARM 64 entry point
	TagPiPLVersion   Tag = "ePVR" // AE_PiPL_Version
	TagSpecVersion   Tag = "eSVR" // AE_Effect_Spec_Version
	TagEffectVersion Tag = "eVER" // AE_Effect_Version
	TagInfoFlags     Tag = "eINF" // AE_Effect_Info_Flags
	TagGlobalFlags   Tag = "eGLO" // AE_Effect_Global_OutFlags
	TagGlobalFlags2  Tag = "eGL2" // AE_Effect_Global_OutFlags_2
	TagMatchName     Tag = "eMNA" // AE_Effect_Match_Name
	TagReserved      Tag = "aeFL" // AE_Reserved_Info
)

// RawProperty is one property record exactly as a parser found it: the
// stored type code, the payload bytes, and the length the container
// declared. Parsers guarantee DeclaredLen == len(Data).
type RawProperty struct {
	Type        string
	Data        []byte
	DeclaredLen uint32
}

func (p RawProperty) String() string {
	return fmt.Sprintf("RawProperty(type=%q, length=%d)", p.Type, p.DeclaredLen)
}

// Property is a RawProperty after tag canonicalization and payload
// endianness fix-up. Known is false for tags outside the canonical
// vocabulary; such properties are preserved, never dropped.
type Property struct {
	Tag     Tag
	RawType string
	Data    []byte
	Known   bool
}

func (p Property) String() string {
	return fmt.Sprintf("Property(tag=%q, length=%d)", string(p.Tag), len(p.Data))
}

// Stage is the release stage stored in a packed effect version word.
type Stage uint32

const (
	StageDevelop Stage = iota
	StageAlpha
	StageBeta
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageDevelop:
		return "Develop"
	case StageAlpha:
		return "Alpha"
	case StageBeta:
		return "Beta"
	case StageRelease:
		return "Release"
	}
	return fmt.Sprintf("Stage(%d)", uint32(s))
}

// VersionInfo is a decoded effect version.
type VersionInfo struct {
	Major  uint32
	Minor  uint32
	Bugfix uint32
	Stage  Stage
	Build  uint32
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d %s (Build %d)", v.Major, v.Minor, v.Bugfix, v.Stage, v.Build)
}
