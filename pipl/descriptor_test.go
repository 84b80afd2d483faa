package pipl_test

import (
	"testing"

	"github.com/aefx/piplkit/pipl"
)

func beU32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func TestBuildDescriptor(t *testing.T) {
	word := pipl.EncodeEffectVersion(pipl.VersionInfo{Major: 2, Minor: 1, Stage: pipl.StageRelease, Build: 1})
	props := []pipl.Property{
		{Tag: pipl.TagKind, Data: []byte("eFKT"), Known: true},
		{Tag: pipl.TagName, Data: []byte("\x04Glow"), Known: true},
		{Tag: pipl.TagCategory, Data: []byte("Stylize\x00"), Known: true},
		{Tag: pipl.TagMatchName, Data: []byte("ADBE Glow2\x00"), Known: true},
		{Tag: pipl.TagCodeWin64, Data: []byte("EffectMain\x00"), Known: true},
		{Tag: pipl.TagCodeMacIntel, Data: []byte("EffectMain\x00"), Known: true},
		{Tag: pipl.TagEffectVersion, Data: beU32(word), Known: true},
		{Tag: pipl.TagPiPLVersion, Data: []byte{0x00, 0x02, 0x00, 0x0d}, Known: true},
		{Tag: pipl.TagGlobalFlags, Data: beU32(0x00000001), Known: true},
		{Tag: pipl.TagGlobalFlags2, Data: beU32(0), Known: true},
	}

	d := pipl.BuildDescriptor(props)

	if d.Name != "Glow" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Category != "Stylize" {
		t.Errorf("Category = %q", d.Category)
	}
	if d.UniqueID != "ADBE Glow2" {
		t.Errorf("UniqueID = %q", d.UniqueID)
	}
	if d.Kind != "AEEffect" {
		t.Errorf("Kind = %q", d.Kind)
	}
	if d.EntryPoint() != "EffectMain" {
		t.Errorf("EntryPoint = %q", d.EntryPoint())
	}
	if d.EffectVersion == nil || d.EffectVersion.String() != "2.1.0 Release (Build 1)" {
		t.Errorf("EffectVersion = %v", d.EffectVersion)
	}
	if d.EffectVersionRaw != word {
		t.Errorf("EffectVersionRaw = 0x%08x, want 0x%08x", d.EffectVersionRaw, word)
	}
	if d.PiPLVersion != [2]uint16{2, 13} {
		t.Errorf("PiPLVersion = %v", d.PiPLVersion)
	}
	if len(d.OutFlags) != 1 || d.OutFlags[0] != "PF_OutFlag_KEEP_RESOURCE_OPEN" {
		t.Errorf("OutFlags = %v", d.OutFlags)
	}
	if len(d.OutFlags2) != 1 || d.OutFlags2[0] != pipl.FlagNone {
		t.Errorf("OutFlags2 = %v", d.OutFlags2)
	}
	if d.Properties != len(props) {
		t.Errorf("Properties = %d, want %d", d.Properties, len(props))
	}
}

func TestBuildDescriptorFirstSeenWins(t *testing.T) {
	props := []pipl.Property{
		{Tag: pipl.TagName, Data: []byte("First\x00"), Known: true},
		{Tag: pipl.TagName, Data: []byte("Second\x00"), Known: true},
	}
	d := pipl.BuildDescriptor(props)
	if d.Name != "First" {
		t.Errorf("Name = %q, want the first occurrence", d.Name)
	}
}

func TestBuildDescriptorDefaults(t *testing.T) {
	d := pipl.BuildDescriptor(nil)
	if d.Name != "UnknownPlugin" {
		t.Errorf("default Name = %q", d.Name)
	}
	if d.Category != "Utility" {
		t.Errorf("default Category = %q", d.Category)
	}
	if d.UniqueID != "UNKN" {
		t.Errorf("default UniqueID = %q", d.UniqueID)
	}
	if d.EntryPoint() != "EffectMain" {
		t.Errorf("default EntryPoint = %q", d.EntryPoint())
	}
	if d.EffectVersion != nil {
		t.Error("EffectVersion should be nil when absent")
	}
}
