// Package pipl defines the canonical PIPL property model shared by every
// container parser in this module, and the pure decoders over it.
//
// A PIPL ("Plug-in Property List") describes an After Effects plugin:
// name, category, match name, per-platform entry points, version words,
// and capability flag bitsets. The same property set is stored three
// mutually alien ways in the wild: Mac resource forks (big-endian, 8BIM
// records), Windows PE resource sections (little-endian, MIB8 records with
// byte-reversed FourCCs), and resource-compiler script text. Parsers for
// those containers emit RawProperty values; Normalize reconciles tags and
// payload endianness into Property values with one canonical encoding.
//
// # Decoding
//
// All decoders are total: malformed input yields a best-effort or sentinel
// value, never an error. Two incompatible 32-bit effect version layouts
// exist in the wild; DecodeEffectVersion handles the bit-packed PF_VERS
// layout and DecodePlaceValueVersion the place-value layout. They are
// deliberately separate — pick per call site.
//
//	props := pipl.Normalize(raw, pipl.SourcePE)
//	desc := pipl.BuildDescriptor(props)
//	fmt.Println(desc.Name, desc.EffectVersion)
package pipl
