// Package gw2dattest builds small in-memory archives for tests.
package gw2dattest

import (
	"bytes"
	"encoding/binary"

	"github.com/ptolstoi/gw2inflate/gw2dat"
)

// Entries 0 to 2 are the MFT, the header and the file id table.
const FirstFileEntry = 3

type File struct {
	FileID     uint32
	Content    []byte
	Compressed bool
}

// Build lays out an archive holding files, file i being MFT entry
// FirstFileEntry+i.
func Build(files ...File) []byte {
	headerSize := uint32(binary.Size(gw2dat.GW2DatHeader{}))
	entrySize := uint32(binary.Size(gw2dat.MFTEntry{}))

	var body bytes.Buffer
	entries := make([]gw2dat.MFTEntry, FirstFileEntry+len(files))

	entries[1] = gw2dat.MFTEntry{Offset: 0, Size: headerSize}

	offset := uint64(headerSize)
	for i, file := range files {
		entry := gw2dat.MFTEntry{Offset: offset, Size: uint32(len(file.Content))}
		if file.Compressed {
			entry.CompressionFlags = 8
		}
		entries[FirstFileEntry+i] = entry

		body.Write(file.Content)
		offset += uint64(len(file.Content))
	}

	var idTable bytes.Buffer
	for i, file := range files {
		write(&idTable, file.FileID)
		write(&idTable, uint32(FirstFileEntry+i))
	}
	entries[2] = gw2dat.MFTEntry{Offset: offset, Size: uint32(idTable.Len())}
	body.Write(idTable.Bytes())
	offset += uint64(idTable.Len())

	mftOffset := offset
	mftSize := entrySize * uint32(len(entries))
	entries[0] = gw2dat.MFTEntry{Offset: mftOffset, Size: mftSize}

	var mft bytes.Buffer
	write(&mft, entries)
	mftHeader := gw2dat.MFTHeader{
		Magic:           [4]uint8{'M', 'f', 't', 0x1A},
		NumberOfEntries: uint32(len(entries)),
	}
	var mftHeaderRaw bytes.Buffer
	write(&mftHeaderRaw, mftHeader)
	mftRaw := mft.Bytes()
	copy(mftRaw, mftHeaderRaw.Bytes())

	header := gw2dat.GW2DatHeader{
		Version:    151,
		Identifier: [3]uint8{'A', 'N', 0x1A},
		HeaderSize: headerSize,
		ChunkSize:  0x10000,
		MFTOffset:  mftOffset,
		MFTSize:    mftSize,
	}

	var archive bytes.Buffer
	write(&archive, header)
	archive.Write(body.Bytes())
	archive.Write(mftRaw)

	return archive.Bytes()
}

func write(buffer *bytes.Buffer, data interface{}) {
	if err := binary.Write(buffer, binary.LittleEndian, data); err != nil {
		panic(err)
	}
}
