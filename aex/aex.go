// Package aex parses Windows PE plugin binaries (After Effects ships them
// as .aex files) and extracts the PIPL property records compiled into the
// resource section.
//
// The section table is walked only far enough to slice the .rsrc section;
// the records inside are located by scanning for MIB8 signatures, because
// the PE resource directory tree above them varies wildly between
// compilers and packers. When no .rsrc section exists the whole image is
// scanned, which recovers PIPLs from packed or otherwise obfuscated
// binaries.
package aex

import (
	"strings"

	"go.uber.org/zap"

	"github.com/aefx/piplkit/errors"
	"github.com/aefx/piplkit/internal/binread"
	"github.com/aefx/piplkit/pipl"
)

var (
	sigMZ   = []byte("MZ")
	sigPE   = []byte("PE\x00\x00")
	sigMIB8 = []byte("MIB8")
)

// maxPropertyLen bounds a believable property payload. Windows PIPLs top
// out well under this; a larger value means the length field was noise.
const maxPropertyLen = 10000

// maxPadLookahead bounds the zero-padding skip between a record's type
// code and its length word.
const maxPadLookahead = 8

// Section is one entry of the PE section table.
type Section struct {
	Name        string
	VirtualSize uint32
	VirtualAddr uint32
	RawSize     uint32
	RawOffset   uint32
}

// Parse extracts raw PIPL properties from a PE image. Property type codes
// are returned exactly as stored (byte-reversed); payloads keep their
// little-endian layout. Normalization is the pipl package's job.
func Parse(data []byte) []pipl.RawProperty {
	buf := binread.New(data)

	blob, base := resourceBlob(buf)
	props := scanMIB8(buf, blob, base)
	if len(props) == 0 && base > 0 {
		// Packed binaries relocate resources; retry over the whole image.
		props = scanMIB8(buf, data, 0)
	}
	return props
}

// Sections walks the DOS, PE, and COFF headers and returns the section
// table. A nil slice with an error means the buffer is not a PE image.
func Sections(data []byte) ([]Section, error) {
	buf := binread.New(data)

	peOff, err := peHeaderOffset(buf)
	if err != nil {
		return nil, err
	}

	numSections, err := buf.U16LE(peOff + 6)
	if err != nil {
		return nil, errors.OutOfBounds(errors.PhaseParse, peOff+6, buf.Len())
	}
	optSize, err := buf.U16LE(peOff + 20)
	if err != nil {
		return nil, errors.OutOfBounds(errors.PhaseParse, peOff+20, buf.Len())
	}

	// Section headers follow the PE signature, the 20-byte COFF header,
	// and the optional header.
	tableOff := peOff + 24 + int(optSize)

	sections := make([]Section, 0, numSections)
	for i := 0; i < int(numSections); i++ {
		off := tableOff + i*40
		raw, err := buf.Bytes(off, 40)
		if err != nil {
			break
		}
		name := strings.TrimRight(string(raw[:8]), "\x00")
		vsize, _ := buf.U32LE(off + 8)
		vaddr, _ := buf.U32LE(off + 12)
		rsize, _ := buf.U32LE(off + 16)
		roff, _ := buf.U32LE(off + 20)
		sections = append(sections, Section{
			Name:        name,
			VirtualSize: vsize,
			VirtualAddr: vaddr,
			RawSize:     rsize,
			RawOffset:   roff,
		})
	}
	return sections, nil
}

// peHeaderOffset validates the DOS header and follows e_lfanew to the PE
// signature.
func peHeaderOffset(buf *binread.Buffer) (int, error) {
	if !buf.Match(0, sigMZ) {
		return 0, errors.NotFound(errors.PhaseParse, "MZ header")
	}
	lfanew, err := buf.U32LE(60)
	if err != nil {
		return 0, errors.OutOfBounds(errors.PhaseParse, 60, buf.Len())
	}
	peOff := int(lfanew)
	if !buf.Match(peOff, sigPE) {
		return 0, errors.NotFound(errors.PhaseParse, "PE signature")
	}
	return peOff, nil
}

// resourceBlob slices the .rsrc section out of the image, or falls back to
// the whole file when the section table is unusable. The returned base is
// the blob's offset within the image, for diagnostics.
func resourceBlob(buf *binread.Buffer) ([]byte, int) {
	sections, err := Sections(bufData(buf))
	if err != nil {
		Logger().Debug("no usable section table", zap.Error(err))
		return bufData(buf), 0
	}
	for _, s := range sections {
		if s.Name != ".rsrc" {
			continue
		}
		blob, err := buf.Bytes(int(s.RawOffset), int(s.RawSize))
		if err != nil {
			Logger().Debug("resource section exceeds file",
				zap.Uint32("offset", s.RawOffset),
				zap.Uint32("size", s.RawSize))
			break
		}
		return blob, int(s.RawOffset)
	}
	return bufData(buf), 0
}

func bufData(buf *binread.Buffer) []byte {
	data, _ := buf.Bytes(0, buf.Len())
	return data
}

// scanMIB8 walks a resource blob for MIB8 property records: signature,
// 4-byte type code, up to 8 bytes of zero padding, little-endian length in
// (0, 10000), payload. After a record the scan resynchronizes on the next
// MIB8 signature rather than assuming a fixed stride, because compilers
// pad record tails inconsistently.
func scanMIB8(image *binread.Buffer, blob []byte, base int) []pipl.RawProperty {
	buf := binread.New(blob)

	var props []pipl.RawProperty
	off := buf.Find(0, sigMIB8)
	for off >= 0 {
		rec, next := readMIB8Record(buf, off, base)
		if rec != nil {
			props = append(props, *rec)
		}
		if next <= off {
			next = off + 1
		}
		off = buf.Find(next, sigMIB8)
	}
	return props
}

// readMIB8Record decodes one candidate record at off. It returns the
// property (nil if the candidate is rejected) and the offset scanning
// should resume from.
func readMIB8Record(buf *binread.Buffer, off, base int) (*pipl.RawProperty, int) {
	typeBytes, err := buf.Bytes(off+4, 4)
	if err != nil {
		return nil, off + 1
	}

	// Zero padding between type code and length varies; skip it within a
	// bounded window.
	lengthOff := off + 8
	limit := lengthOff + maxPadLookahead
	for lengthOff < limit {
		b, err := buf.Byte(lengthOff)
		if err != nil {
			return nil, off + 1
		}
		if b != 0 {
			break
		}
		lengthOff++
	}

	length, err := buf.U32LE(lengthOff)
	if err != nil {
		return nil, off + 1
	}
	if length == 0 || length >= maxPropertyLen {
		Logger().Debug("rejected MIB8 candidate",
			zap.String("type", string(typeBytes)),
			zap.Uint32("length", length),
			zap.Int("offset", base+off))
		return nil, off + 1
	}

	payload, err := buf.Bytes(lengthOff+4, int(length))
	if err != nil {
		return nil, off + 1
	}

	Logger().Debug("found MIB8 record",
		zap.String("type", string(typeBytes)),
		zap.Uint32("length", length),
		zap.Int("offset", base+off))

	return &pipl.RawProperty{
		Type:        string(typeBytes),
		Data:        payload,
		DeclaredLen: uint32(len(payload)),
	}, lengthOff + 4 + int(length)
}

// PiPLBlob returns the raw byte range from the first MIB8 signature in the
// resource section to the section end, for offline analysis. ok is false
// when the image carries no MIB8 records at all.
func PiPLBlob(data []byte) (blob []byte, ok bool) {
	buf := binread.New(data)
	section, _ := resourceBlob(buf)
	sbuf := binread.New(section)
	start := sbuf.Find(0, sigMIB8)
	if start < 0 {
		return nil, false
	}
	return section[start:], true
}
