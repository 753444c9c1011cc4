// Package gw2dat reads the entries of a Guild Wars 2 archive.
package gw2dat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ptolstoi/gw2inflate/inflate"
)

// MFT entry holding the file id table.
const fileIDTableEntry = 2

type GW2DatReader interface {
	Close() error
	Header() GW2DatHeader
	MFTHeader() MFTHeader
	Entries() []MFTEntry
	EntryIndexForFileID(fileID uint32) (int, error)
	FileIDs() map[uint32]int
	ReadEntry(index int) ([]byte, error)
	InflateEntry(index int, maxSize uint32) ([]byte, error)
}

type gw2DatReader struct {
	file   io.ReaderAt
	closer io.Closer

	header     GW2DatHeader
	mftHeader  MFTHeader
	mftEntries []MFTEntry
	fileIDs    map[uint32]int
}

// NewGW2DatReader opens the archive at filePath.
func NewGW2DatReader(filePath string) (GW2DatReader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	reader, err := newReader(file, file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return reader, nil
}

// NewReader reads an archive from r. Close is a no-op on the result.
func NewReader(r io.ReaderAt) (GW2DatReader, error) {
	return newReader(r, nil)
}

func newReader(file io.ReaderAt, closer io.Closer) (*gw2DatReader, error) {
	reader := gw2DatReader{
		file:   file,
		closer: closer,
	}

	if err := reader.readAt(0, &reader.header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if reader.header.Identifier != datIdentifier {
		return nil, fmt.Errorf("%w: identifier %q", ErrNotADatFile, reader.header.Identifier[:])
	}

	if err := reader.readAt(int64(reader.header.MFTOffset), &reader.mftHeader); err != nil {
		return nil, fmt.Errorf("reading mft header: %w", err)
	}
	if reader.mftHeader.Magic != mftMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMFT, reader.mftHeader.Magic[:])
	}

	// The first entry overlaps the MFT header itself.
	reader.mftEntries = make([]MFTEntry, reader.mftHeader.NumberOfEntries)
	if err := reader.readAt(int64(reader.header.MFTOffset), &reader.mftEntries); err != nil {
		return nil, fmt.Errorf("reading mft entries: %w", err)
	}

	if err := reader.readFileIDs(); err != nil {
		return nil, err
	}

	return &reader, nil
}

func (reader *gw2DatReader) readAt(offset int64, data interface{}) error {
	section := io.NewSectionReader(reader.file, offset, int64(binary.Size(data)))
	return binary.Read(section, binary.LittleEndian, data)
}

func (reader *gw2DatReader) readFileIDs() error {
	reader.fileIDs = map[uint32]int{}

	if len(reader.mftEntries) <= fileIDTableEntry {
		return nil
	}

	raw, err := reader.ReadEntry(fileIDTableEntry)
	if err != nil {
		return fmt.Errorf("reading file id table: %w", err)
	}

	table := make([]fileIDEntry, len(raw)/binary.Size(fileIDEntry{}))
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &table); err != nil {
		return fmt.Errorf("decoding file id table: %w", err)
	}

	for _, entry := range table {
		if entry.FileID == 0 || int(entry.MFTEntryIndex) >= len(reader.mftEntries) {
			continue
		}
		reader.fileIDs[entry.FileID] = int(entry.MFTEntryIndex)
	}

	return nil
}

func (reader *gw2DatReader) Close() error {
	if reader.closer == nil {
		return nil
	}
	return reader.closer.Close()
}

func (reader *gw2DatReader) Header() GW2DatHeader {
	return reader.header
}

func (reader *gw2DatReader) MFTHeader() MFTHeader {
	return reader.mftHeader
}

func (reader *gw2DatReader) Entries() []MFTEntry {
	return reader.mftEntries
}

func (reader *gw2DatReader) FileIDs() map[uint32]int {
	return reader.fileIDs
}

func (reader *gw2DatReader) EntryIndexForFileID(fileID uint32) (int, error) {
	index, ok := reader.fileIDs[fileID]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownFileID, fileID)
	}
	return index, nil
}

// ReadEntry returns the stored bytes of an entry.
func (reader *gw2DatReader) ReadEntry(index int) ([]byte, error) {
	if index < 0 || index >= len(reader.mftEntries) {
		return nil, fmt.Errorf("%w: %v of %v", ErrEntryOutOfRange, index, len(reader.mftEntries))
	}

	entry := reader.mftEntries[index]

	raw := make([]byte, entry.Size)
	if _, err := reader.file.ReadAt(raw, int64(entry.Offset)); err != nil {
		return nil, fmt.Errorf("reading entry %v: %w", index, err)
	}

	return raw, nil
}

// InflateEntry returns the content of an entry, inflated when the entry is
// compressed. maxSize caps the inflated size when not 0.
func (reader *gw2DatReader) InflateEntry(index int, maxSize uint32) ([]byte, error) {
	raw, err := reader.ReadEntry(index)
	if err != nil {
		return nil, err
	}

	if !reader.mftEntries[index].IsCompressed() {
		if maxSize != 0 && uint32(len(raw)) > maxSize {
			raw = raw[:maxSize]
		}
		return raw, nil
	}

	inflated, err := inflate.DatFileBuffer(raw, nil, maxSize)
	if err != nil {
		return nil, fmt.Errorf("inflating entry %v: %w", index, err)
	}

	return inflated, nil
}
