// Package diskimage recognizes Apple II disk-image container formats
// by extension and content, and exposes their header metadata. It
// deliberately stops at the header: bitstream and sector decode are an
// external collaborator's job (spec.md's disk-bitstream non-goal).
package diskimage

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a recognized container.
type Format int

const (
	FormatUnknown Format = iota
	FormatRawSector
	FormatProDOSOrder
	FormatNibble
	FormatWOZ
	Format2IMG
)

func (f Format) String() string {
	switch f {
	case FormatRawSector:
		return "raw-sector"
	case FormatProDOSOrder:
		return "prodos-order"
	case FormatNibble:
		return "nibble"
	case FormatWOZ:
		return "woz"
	case Format2IMG:
		return "2img"
	default:
		return "unknown"
	}
}

const (
	rawSectorSize = 35 * 16 * 256 // 143360 bytes
	nibbleSize    = 232960
	wozMagic      = "WOZ1"
	wozMagic2     = "WOZ2"
	img2Magic     = "2IMG"
)

// UnrecognizedFormatError reports a file whose extension and content
// don't match any known container.
type UnrecognizedFormatError struct {
	Path string
	Size int
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("diskimage: %s (%d bytes) is not a recognized disk image", e.Path, e.Size)
}

// Info is the parsed header metadata for a recognized image, without
// any sector or bitstream content.
type Info struct {
	Format     Format
	BlockCount int
	ReadOnly   bool
	Comment    string
}

// Detect sniffs path's extension and header bytes to classify the
// image and extract its metadata. data must contain at least the
// image's header; for raw/nibble formats the full file is consulted
// only for its length.
func Detect(path string, data []byte) (Info, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if len(data) >= 4 && (string(data[0:4]) == wozMagic || string(data[0:4]) == wozMagic2) {
		return detectWOZ(data)
	}
	if len(data) >= 4 && string(data[0:4]) == img2Magic {
		return detect2IMG(data)
	}

	switch {
	case len(data) == rawSectorSize && ext == ".po":
		return Info{Format: FormatProDOSOrder, BlockCount: rawSectorSize / 512}, nil
	case len(data) == rawSectorSize:
		return Info{Format: FormatRawSector, BlockCount: rawSectorSize / 512}, nil
	case len(data) == nibbleSize:
		return Info{Format: FormatNibble}, nil
	}

	return Info{}, &UnrecognizedFormatError{Path: path, Size: len(data)}
}

// detectWOZ parses just enough of a WOZ header (12-byte file header,
// magic + CRC) to confirm the format; block-level metadata for WOZ
// lives in its TMAP/TRKS chunks, which this package does not decode.
func detectWOZ(data []byte) (Info, error) {
	if len(data) < 12 {
		return Info{}, &UnrecognizedFormatError{Size: len(data)}
	}
	return Info{Format: FormatWOZ}, nil
}

// 2IMG header layout (64 bytes), per Apple II file-format documentation:
//
//	0x00 magic "2IMG"
//	0x04 creator (4 bytes)
//	0x08 header length (uint16 LE)
//	0x0A version (uint16 LE)
//	0x0C image format (uint32 LE): 0=DOS, 1=ProDOS, 2=NIB
//	0x10 flags (uint32 LE): bit 31 set => locked/read-only image
//	0x14 block count (uint32 LE, ProDOS-order images only)
//	0x18 data offset (uint32 LE)
//	0x1C data length (uint32 LE)
//	0x20 comment offset (uint32 LE)
//	0x24 comment length (uint32 LE)
const (
	img2HeaderLen        = 64
	img2FlagsOffset      = 0x10
	img2LockedBit        = 1 << 31
	img2BlockCountOffset = 0x14
	img2CommentOffOffset = 0x20
	img2CommentLenOffset = 0x24
)

func detect2IMG(data []byte) (Info, error) {
	if len(data) < img2HeaderLen {
		return Info{}, &UnrecognizedFormatError{Size: len(data)}
	}
	flags := binary.LittleEndian.Uint32(data[img2FlagsOffset:])
	blockCount := binary.LittleEndian.Uint32(data[img2BlockCountOffset:])
	commentOff := binary.LittleEndian.Uint32(data[img2CommentOffOffset:])
	commentLen := binary.LittleEndian.Uint32(data[img2CommentLenOffset:])

	info := Info{
		Format:     Format2IMG,
		BlockCount: int(blockCount),
		ReadOnly:   flags&img2LockedBit != 0,
	}
	if commentLen > 0 && int(commentOff+commentLen) <= len(data) {
		info.Comment = string(data[commentOff : commentOff+commentLen])
	}
	return info, nil
}
