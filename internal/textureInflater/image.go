package textureInflater

import (
	"fmt"
	"image"

	"github.com/ptolstoi/gw2inflate/internal/dxt"
)

// InflateImage decodes a texture file buffer and renders its pixel blocks.
func InflateImage(inputRaw []byte) (image.Image, error) {
	data, fullFormat, err := Inflate(inputRaw, nil, 0)
	if err != nil {
		return nil, err
	}

	var compression dxt.Compression
	switch fullFormat.FourCC {
	case FccDXT1:
		compression = dxt.DXT1
	case FccDXT2, FccDXT3:
		compression = dxt.DXT3
	case FccDXT4, FccDXT5:
		compression = dxt.DXT5
	default:
		return nil, fmt.Errorf("cannot render formatFourCC: 0x%08x (%v)", fullFormat.FourCC, FourCCString(fullFormat.FourCC))
	}

	return dxt.Decode(compression, data, int(fullFormat.Width), int(fullFormat.Height))
}
