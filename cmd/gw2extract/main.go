package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/ptolstoi/gw2inflate/gw2dat"
	"github.com/ptolstoi/gw2inflate/internal/filetype"
)

var (
	datPath = flag.String("dat", "Gw2.dat", "archive to extract")
	outDir  = flag.String("out", "unpack", "directory receiving the files")
	maxSize = flag.Uint("max", 30*1024*1024, "largest inflated size kept per file")
)

func main() {
	flag.Parse()

	reader, err := gw2dat.NewGW2DatReader(*datPath)
	if err != nil {
		log.Fatalf("Error when creating a reader: %v", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	written, failed := extract(reader, *outDir, uint32(*maxSize))

	log.Printf("%v files written, %v failed", written, failed)
}

// extract writes every file of reader to dir. A file that cannot be read or
// inflated is logged and skipped.
func extract(reader gw2dat.GW2DatReader, dir string, maxSize uint32) (written int, failed int) {
	fileIDs := make([]uint32, 0, len(reader.FileIDs()))
	for fileID := range reader.FileIDs() {
		fileIDs = append(fileIDs, fileID)
	}
	sort.Slice(fileIDs, func(i, j int) bool { return fileIDs[i] < fileIDs[j] })

	for _, fileID := range fileIDs {
		index := reader.FileIDs()[fileID]

		content, err := reader.InflateEntry(index, maxSize)
		if err != nil {
			log.Printf("[extract] file %v failed to decompress: %v", fileID, err)
			failed++
			continue
		}

		if maxSize != 0 && uint32(len(content)) >= maxSize {
			log.Printf("[extract] file %v has a size greater than (or equal to) %v bytes", fileID, maxSize)
		}

		name := fmt.Sprintf("%v%v", fileID, filetype.Extension(filetype.Deduce(content)))

		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			log.Printf("[extract] file %v: %v", fileID, err)
			failed++
			continue
		}

		written++
	}

	return written, failed
}
