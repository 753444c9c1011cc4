package gw2dat_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ptolstoi/gw2inflate/gw2dat"
	"github.com/ptolstoi/gw2inflate/gw2dat/gw2dattest"
	"github.com/ptolstoi/gw2inflate/internal/bitstream/bitstreamtest"
)

// A compressed entry whose declared size is 0.
func emptyCompressed() []byte {
	return bitstreamtest.NewWriter().WriteWord(0).WriteWord(0).Bytes()
}

func TestReadArchive(t *testing.T) {
	archive := gw2dattest.Build(
		gw2dattest.File{FileID: 10, Content: []byte("ATEX first")},
		gw2dattest.File{FileID: 42, Content: []byte("second file")},
	)

	reader, err := gw2dat.NewReader(bytes.NewReader(archive))
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	if reader.MFTHeader().NumberOfEntries != gw2dattest.FirstFileEntry+2 {
		t.Fatalf("got %v entries", reader.MFTHeader().NumberOfEntries)
	}
	if len(reader.Entries()) != gw2dattest.FirstFileEntry+2 {
		t.Fatalf("got %v entries", len(reader.Entries()))
	}
	if len(reader.FileIDs()) != 2 {
		t.Fatalf("got %v file ids expected 2", len(reader.FileIDs()))
	}

	index, err := reader.EntryIndexForFileID(42)
	if err != nil {
		t.Fatal(err)
	}
	if index != gw2dattest.FirstFileEntry+1 {
		t.Fatalf("got entry %v", index)
	}

	content, err := reader.InflateEntry(index, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "second file" {
		t.Fatalf("got %q", content)
	}

	content, err = reader.InflateEntry(gw2dattest.FirstFileEntry, 4)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "ATEX" {
		t.Fatalf("got %q expected the first 4 bytes", content)
	}
}

func TestInflateCompressedEntry(t *testing.T) {
	archive := gw2dattest.Build(gw2dattest.File{FileID: 7, Content: emptyCompressed(), Compressed: true})

	reader, err := gw2dat.NewReader(bytes.NewReader(archive))
	if err != nil {
		t.Fatal(err)
	}

	if !reader.Entries()[gw2dattest.FirstFileEntry].IsCompressed() {
		t.Fatal("expected a compressed entry")
	}

	content, err := reader.InflateEntry(gw2dattest.FirstFileEntry, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(content) != 0 {
		t.Fatalf("got %v bytes expected none", len(content))
	}
}

func TestUnknownFileIDAndRange(t *testing.T) {
	reader, err := gw2dat.NewReader(bytes.NewReader(gw2dattest.Build()))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := reader.EntryIndexForFileID(1); !errors.Is(err, gw2dat.ErrUnknownFileID) {
		t.Fatalf("expected ErrUnknownFileID, got %v", err)
	}
	if _, err := reader.ReadEntry(99); !errors.Is(err, gw2dat.ErrEntryOutOfRange) {
		t.Fatalf("expected ErrEntryOutOfRange, got %v", err)
	}
	if _, err := reader.ReadEntry(-1); !errors.Is(err, gw2dat.ErrEntryOutOfRange) {
		t.Fatalf("expected ErrEntryOutOfRange, got %v", err)
	}
}

func TestNotADatFile(t *testing.T) {
	archive := gw2dattest.Build()
	archive[1] = 'X'

	if _, err := gw2dat.NewReader(bytes.NewReader(archive)); !errors.Is(err, gw2dat.ErrNotADatFile) {
		t.Fatalf("expected ErrNotADatFile, got %v", err)
	}
}

func TestBadMFT(t *testing.T) {
	archive := gw2dattest.Build()

	reader, err := gw2dat.NewReader(bytes.NewReader(archive))
	if err != nil {
		t.Fatal(err)
	}
	archive[reader.Header().MFTOffset] = 'X'

	if _, err := gw2dat.NewReader(bytes.NewReader(archive)); !errors.Is(err, gw2dat.ErrBadMFT) {
		t.Fatalf("expected ErrBadMFT, got %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Gw2.dat")
	archive := gw2dattest.Build(gw2dattest.File{FileID: 3, Content: []byte("on disk")})
	if err := os.WriteFile(path, archive, 0o644); err != nil {
		t.Fatal(err)
	}

	reader, err := gw2dat.NewGW2DatReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	if reader.Header().Identifier != [3]uint8{'A', 'N', 0x1A} {
		t.Fatalf("got identifier %v", reader.Header().Identifier)
	}

	raw, err := reader.ReadEntry(gw2dattest.FirstFileEntry)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "on disk" {
		t.Fatalf("got %q", raw)
	}

	if _, err := gw2dat.NewGW2DatReader(filepath.Join(t.TempDir(), "missing.dat")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
