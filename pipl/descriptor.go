package pipl

// Descriptor is the read-only aggregate over one parsed file's canonical
// property set. Scalar fields are first-seen-wins; a second name property
// in the same file never overwrites the first. Build it once per parse and
// treat it as immutable afterwards.
type Descriptor struct {
	Name        string
	Category    string
	UniqueID    string
	Kind        string
	EntryPoints map[Tag]string

	EffectVersion    *VersionInfo
	EffectVersionRaw uint32
	PiPLVersion      [2]uint16
	SpecVersion      [2]uint16

	OutFlags  []string
	OutFlags2 []string

	Properties int
}

// Defaults used when a property is absent, matching what AE assumes.
const (
	defaultName     = "UnknownPlugin"
	defaultCategory = "Utility"
	defaultUniqueID = "UNKN"
	defaultKind     = "AEEffect"
)

// BuildDescriptor aggregates canonical properties into a plugin descriptor.
func BuildDescriptor(props []Property) *Descriptor {
	d := &Descriptor{
		Name:        defaultName,
		Category:    defaultCategory,
		UniqueID:    defaultUniqueID,
		Kind:        defaultKind,
		EntryPoints: make(map[Tag]string),
		Properties:  len(props),
	}

	var (
		haveName, haveCatg, haveID, haveKind bool
		haveVer, havePVR, haveSVR            bool
		haveFlags, haveFlags2                bool
	)

	for _, p := range props {
		switch p.Tag {
		case TagName:
			if !haveName {
				d.Name = DecodeString(p.Data)
				haveName = true
			}
		case TagCategory:
			if !haveCatg {
				d.Category = DecodeString(p.Data)
				haveCatg = true
			}
		case TagMatchName:
			if !haveID {
				d.UniqueID = DecodeString(p.Data)
				haveID = true
			}
		case TagKind:
			if !haveKind && len(p.Data) >= 4 {
				if name, ok := PluginKinds[string(p.Data[:4])]; ok {
					d.Kind = name
				}
				haveKind = true
			}
		case TagCodeWin64, TagCodeMacIntel, TagCodeMacARM:
			if _, seen := d.EntryPoints[p.Tag]; !seen {
				d.EntryPoints[p.Tag] = DecodeString(p.Data)
			}
		case TagEffectVersion:
			if !haveVer && len(p.Data) >= 4 {
				d.EffectVersionRaw = U32BE(p.Data)
				v := DecodeEffectVersion(d.EffectVersionRaw)
				d.EffectVersion = &v
				haveVer = true
			}
		case TagPiPLVersion:
			if !havePVR {
				d.PiPLVersion[0], d.PiPLVersion[1] = DecodeVersionPair(p.Data)
				havePVR = true
			}
		case TagSpecVersion:
			if !haveSVR {
				d.SpecVersion[0], d.SpecVersion[1] = DecodeVersionPair(p.Data)
				haveSVR = true
			}
		case TagGlobalFlags:
			if !haveFlags {
				d.OutFlags = DecodeFlags(U32BE(p.Data), OutFlags)
				haveFlags = true
			}
		case TagGlobalFlags2:
			if !haveFlags2 {
				d.OutFlags2 = DecodeFlags(U32BE(p.Data), OutFlags2)
				haveFlags2 = true
			}
		}
	}

	return d
}

// EntryPoint returns the first entry point for any platform, preferring
// Windows, then Mac Intel, then Mac ARM.
func (d *Descriptor) EntryPoint() string {
	for _, tag := range []Tag{TagCodeWin64, TagCodeMacIntel, TagCodeMacARM} {
		if ep, ok := d.EntryPoints[tag]; ok {
			return ep
		}
	}
	return "EffectMain"
}
