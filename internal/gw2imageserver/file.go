package gw2imageserver

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"strconv"
	"time"

	"github.com/ptolstoi/gw2inflate/gw2dat"
	"github.com/ptolstoi/gw2inflate/inflate"
	"github.com/ptolstoi/gw2inflate/internal/filetype"
)

const (
	fileTypeRaw = "raw"
	fileTypePNG = "png"
)

var (
	errNotFound        = errors.New("file not found")
	errUnknownFileType = errors.New("unknown file type")
	errNotATexture     = errors.New("not a texture")
)

type file struct {
	file         string
	content      []byte
	fileType     string
	lastModified time.Time
}

// readFile inflates the archive entry of fileID.
func (app *app) readFile(fileID string) (*file, error) {
	id, err := strconv.ParseUint(fileID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad file id %q", errNotFound, fileID)
	}

	index, err := app.dat.EntryIndexForFileID(uint32(id))
	if errors.Is(err, gw2dat.ErrUnknownFileID) {
		return nil, fmt.Errorf("%w: %v", errNotFound, err)
	} else if err != nil {
		return nil, err
	}

	log.Printf("[readFile] file %v is entry %v", fileID, index)

	content, err := app.dat.InflateEntry(index, 0)
	if err != nil {
		return nil, err
	}

	return &file{
		file:         fileID,
		fileType:     fileTypeRaw,
		lastModified: time.Now().UTC(),
		content:      content,
	}, nil
}

func (app *app) noFileInCache(fileID string, fileType string) (*file, error) {
	if fileType != fileTypeRaw && fileType != fileTypePNG {
		return nil, fmt.Errorf("%w: %v", errUnknownFileType, fileType)
	}

	rawFile, err := app.getFileFromCache(fileID, fileTypeRaw)

	if rawFile == nil && err == nil {
		rawFile, err = app.readFile(fileID)

		if err == nil && rawFile != nil {
			err = app.saveFileToCache(rawFile)
		}
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[noFileInCache] file found: file=%v type=%v length=%v lastModified=%v",
		rawFile.file, rawFile.fileType, len(rawFile.content), rawFile.lastModified)

	if fileType == fileTypeRaw {
		return rawFile, nil
	}

	if kind := filetype.Deduce(rawFile.content); !filetype.IsTexture(kind) {
		return nil, fmt.Errorf("%w: %v is %v", errNotATexture, fileID, kind)
	}

	img, err := inflate.TextureImage(rawFile.content)
	if err != nil {
		return nil, err
	}

	return app.saveImageAsPNG(fileID, img)
}

func (app *app) saveImageAsPNG(fileID string, img image.Image) (*file, error) {
	buffer := new(bytes.Buffer)

	encoder := png.Encoder{
		CompressionLevel: png.BestCompression,
	}

	if err := encoder.Encode(buffer, img); err != nil {
		return nil, err
	}

	newFile := file{
		content:      buffer.Bytes(),
		file:         fileID,
		lastModified: time.Now().UTC(),
		fileType:     fileTypePNG,
	}

	if err := app.saveFileToCache(&newFile); err != nil {
		return nil, err
	}

	return &newFile, nil
}
