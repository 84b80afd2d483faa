package pipl

import "encoding/binary"

// Source identifies which container format produced a RawProperty. The
// normalization rules differ per source: script and resource-fork payloads
// are already big-endian, PE payloads are little-endian with byte-reversed
// type codes.
type Source int

const (
	SourceResourceFork Source = iota
	SourcePE
	SourceScript
)

func (s Source) String() string {
	switch s {
	case SourceResourceFork:
		return "rsrc"
	case SourcePE:
		return "aex"
	case SourceScript:
		return "rcp"
	}
	return "unknown"
}

// Normalize canonicalizes every raw property's type tag and fixes payload
// endianness so downstream decoders see one encoding regardless of source.
// Order is preserved. Unmapped tags are kept with Known=false.
func Normalize(raw []RawProperty, source Source) []Property {
	props := make([]Property, 0, len(raw))
	for _, rp := range raw {
		props = append(props, normalizeOne(rp, source))
	}
	return props
}

func normalizeOne(rp RawProperty, source Source) Property {
	var tag Tag
	switch source {
	case SourcePE:
		// PE stores every FourCC byte-reversed.
		tag = Tag(reverse4(rp.Type))
	default:
		if mapped, ok := reversedTags[rp.Type]; ok {
			tag = mapped
		} else {
			tag = Tag(rp.Type)
		}
	}

	known := IsCanonical(tag)
	data := rp.Data
	if source == SourcePE && known {
		data = fixEndianness(tag, data)
	}

	return Property{
		Tag:     tag,
		RawType: rp.Type,
		Data:    data,
		Known:   known,
	}
}

// fixEndianness converts known little-endian PE payloads to the canonical
// big-endian form: two 16-bit words for version pairs, one 32-bit word for
// the other numeric properties. String and entry-point payloads pass
// through untouched.
func fixEndianness(tag Tag, data []byte) []byte {
	switch tag {
	case TagPiPLVersion, TagSpecVersion:
		if len(data) >= 4 {
			out := make([]byte, len(data))
			copy(out, data)
			binary.BigEndian.PutUint16(out[0:2], binary.LittleEndian.Uint16(data[0:2]))
			binary.BigEndian.PutUint16(out[2:4], binary.LittleEndian.Uint16(data[2:4]))
			return out
		}
	case TagEffectVersion, TagInfoFlags, TagGlobalFlags, TagGlobalFlags2, TagReserved:
		if len(data) >= 4 {
			out := make([]byte, len(data))
			copy(out, data)
			binary.BigEndian.PutUint32(out[0:4], binary.LittleEndian.Uint32(data[0:4]))
			return out
		}
	}
	return data
}
