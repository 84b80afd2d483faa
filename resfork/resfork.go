// Package resfork parses classic Mac resource-fork binaries and extracts
// the PIPL property records stored in PiPL resources.
//
// The primary path is a structured walk of the fork header, resource map,
// type list, and reference list. Forks in the wild are frequently
// truncated or repacked, so a heuristic scan for 8BIM record signatures
// backs the structured walk: it runs instead of the walk when the header
// offsets are implausible, and after it whenever the walk found nothing.
package resfork

import (
	"go.uber.org/zap"

	"github.com/aefx/piplkit/internal/binread"
	"github.com/aefx/piplkit/pipl"
)

// Container signatures.
var (
	sig8BIM = []byte("8BIM")
	sigPiPL = []byte("PiPL")
)

// piplTypeCode is "PiPL" as a big-endian FourCC word.
const piplTypeCode = 0x5069504C

// minMapGap is the smallest believable distance between the data area and
// the resource map. Real forks put hundreds of bytes of resource data
// before the map; anything tighter is noise that happens to look like a
// header.
const minMapGap = 400

// Parse extracts raw PIPL properties from a resource-fork buffer in
// encounter order. Corrupt structures degrade to a smaller result set; an
// empty slice means no properties were found by any path.
func Parse(data []byte) []pipl.RawProperty {
	buf := binread.New(data)

	var props []pipl.RawProperty
	if headerPlausible(buf) {
		props = walkFork(buf)
	}
	if len(props) == 0 {
		props = scan8BIM(buf, 0, buf.Len())
	}
	return props
}

// headerPlausible applies the sanity gate for the structured walk: offsets
// inside the buffer, map after data, and a believable gap between them.
func headerPlausible(buf *binread.Buffer) bool {
	dataOff, err := buf.U32BE(0)
	if err != nil {
		return false
	}
	mapOff, err := buf.U32BE(4)
	if err != nil {
		return false
	}

	n := uint32(buf.Len())
	return dataOff > 0 && dataOff < n &&
		mapOff > dataOff && mapOff < n &&
		mapOff+32 < n &&
		mapOff-dataOff > minMapGap
}

// walkFork performs the structured header/map/type-list/reference-list
// walk. Any offset arithmetic that leaves the buffer abandons only the
// structure being read, never the whole parse.
func walkFork(buf *binread.Buffer) []pipl.RawProperty {
	dataOff, _ := buf.U32BE(0)
	mapOff, _ := buf.U32BE(4)

	// The map opens with a 16-byte copy of the fork header, then 10 bytes
	// of handle/file-ref fields nobody needs here.
	pos := int(mapOff) + 16 + 10

	typeListOff, err := buf.U16BE(pos)
	if err != nil {
		Logger().Debug("resource map truncated", zap.Int("offset", pos))
		return nil
	}
	// Name list offset follows; names are irrelevant to PIPL extraction.

	typeListPos := int(mapOff) + int(typeListOff)
	storedCount, err := buf.U16BE(typeListPos)
	if err != nil {
		return nil
	}
	numTypes := int(storedCount) + 1

	var props []pipl.RawProperty
	entry := typeListPos + 2
	for i := 0; i < numTypes; i++ {
		typeCode, err := buf.U32BE(entry)
		if err != nil {
			break
		}
		count, err := buf.U16BE(entry + 4)
		if err != nil {
			break
		}
		refListOff, err := buf.U16BE(entry + 6)
		if err != nil {
			break
		}
		entry += 8

		if typeCode != piplTypeCode {
			continue
		}

		refPos := typeListPos + int(refListOff)
		numRefs := int(count) + 1
		for j := 0; j < numRefs; j++ {
			blob, ok := resourceData(buf, refPos, int(dataOff))
			refPos += 12
			if !ok {
				continue
			}
			found := scan8BIM(binread.New(blob), 0, len(blob))
			Logger().Debug("walked PiPL resource",
				zap.Int("index", j),
				zap.Int("bytes", len(blob)),
				zap.Int("properties", len(found)))
			props = append(props, found...)
		}
	}
	return props
}

// resourceData resolves one 12-byte reference-list entry to its
// length-prefixed resource payload.
func resourceData(buf *binread.Buffer, refPos, dataOff int) ([]byte, bool) {
	// {int16 id}{uint16 name offset}{byte attributes + 3-byte data offset}
	// {uint32 reserved handle}
	if _, err := buf.S16BE(refPos); err != nil {
		return nil, false
	}
	attrAndOff, err := buf.U32BE(refPos + 4)
	if err != nil {
		return nil, false
	}

	resPos := dataOff + int(attrAndOff&0x00FFFFFF)
	length, err := buf.U32BE(resPos)
	if err != nil {
		return nil, false
	}
	blob, err := buf.Bytes(resPos+4, int(length))
	if err != nil {
		return nil, false
	}
	return blob, true
}

// scan8BIM scans [from, to) for 8BIM property records: signature, 4-byte
// type code, exactly 4 zero bytes, big-endian length, payload. The cursor
// advances on every iteration, so the scan is O(n) even on adversarial
// input.
func scan8BIM(buf *binread.Buffer, from, to int) []pipl.RawProperty {
	var props []pipl.RawProperty

	off := from
	for off < to-12 {
		if !buf.Match(off, sig8BIM) {
			off++
			continue
		}

		typeBytes, err := buf.Bytes(off+4, 4)
		if err != nil {
			off++
			continue
		}
		pad, err := buf.U32BE(off + 8)
		if err != nil || pad != 0 {
			off++
			continue
		}
		length, err := buf.U32BE(off + 12)
		if err != nil {
			off++
			continue
		}
		payload, err := buf.Bytes(off+16, int(length))
		if err != nil {
			off++
			continue
		}

		Logger().Debug("found 8BIM record",
			zap.String("type", string(typeBytes)),
			zap.Uint32("length", length),
			zap.Int("offset", off))

		props = append(props, pipl.RawProperty{
			Type:        string(typeBytes),
			Data:        payload,
			DeclaredLen: uint32(len(payload)),
		})
		off = off + 16 + int(length)
	}
	return props
}

// HasPiPLMarker reports whether the raw buffer contains a PiPL resource
// type marker anywhere. Used for diagnostics when a parse comes up empty.
func HasPiPLMarker(data []byte) bool {
	return binread.New(data).Find(0, sigPiPL) >= 0
}

// Count8BIM returns the number of 8BIM signatures in the buffer,
// regardless of whether they head well-formed records.
func Count8BIM(data []byte) int {
	buf := binread.New(data)
	n := 0
	for off := buf.Find(0, sig8BIM); off >= 0; off = buf.Find(off+1, sig8BIM) {
		n++
	}
	return n
}
