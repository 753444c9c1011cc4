package gw2dat

import "errors"

var (
	ErrNotADatFile     = errors.New("not a gw2 dat file")
	ErrBadMFT          = errors.New("bad mft header")
	ErrEntryOutOfRange = errors.New("mft entry out of range")
	ErrUnknownFileID   = errors.New("unknown file id")
)

var (
	datIdentifier = [3]uint8{'A', 'N', 0x1A}
	mftMagic      = [4]uint8{'M', 'f', 't', 0x1A}
)

type GW2DatHeader struct {
	Version       uint8
	Identifier    [3]uint8
	HeaderSize    uint32
	UnknownField1 uint32
	ChunkSize     uint32
	CRC           uint32
	UnknownField2 uint32
	MFTOffset     uint64
	MFTSize       uint32
	Flags         uint32
}

type MFTHeader struct {
	Magic           [4]uint8
	UnknownField1   uint32
	UnknownField2   uint32
	NumberOfEntries uint32
	UnknownField3   uint64
}

type MFTEntry struct {
	Offset           uint64
	Size             uint32
	CompressionFlags uint16
	UnknownField1    uint16
	UnknownField2    uint32
	Crc              uint32
}

// IsCompressed reports whether the entry payload must go through the
// generic inflater.
func (entry MFTEntry) IsCompressed() bool {
	return entry.CompressionFlags != 0
}

// fileIDEntry maps a file id to the index of its MFT entry.
type fileIDEntry struct {
	FileID        uint32
	MFTEntryIndex uint32
}
