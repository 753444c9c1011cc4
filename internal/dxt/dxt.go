// Package dxt renders DXT compressed pixel blocks to images.
package dxt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	imageColor "image/color"
)

type Compression int

const (
	DXT1 Compression = iota
	DXT3
	DXT5
)

func (compression Compression) String() string {
	switch compression {
	case DXT1:
		return "DXT1"
	case DXT3:
		return "DXT3"
	case DXT5:
		return "DXT5"
	}
	return fmt.Sprintf("Compression(%d)", int(compression))
}

// BlockSize is the number of bytes of one 4x4 pixel block.
func (compression Compression) BlockSize() int {
	if compression == DXT1 {
		return 8
	}
	return 16
}

type dxtColor struct {
	Color1  uint16
	Color2  uint16
	Indices uint32
}

type dxtAlphaBlock struct {
	Alpha uint64
	Color dxtColor
}

// Decode renders width x height pixels out of data. Blocks crossing the right
// or bottom edge are clipped.
func Decode(compression Compression, data []byte, width int, height int) (*image.NRGBA, error) {
	horizBlocks := (width + 3) / 4
	vertBlocks := (height + 3) / 4
	numBlocks := horizBlocks * vertBlocks

	if len(data) < numBlocks*compression.BlockSize() {
		return nil, fmt.Errorf("%v data too small: %v bytes for %vx%v", compression, len(data), width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	reader := bytes.NewReader(data)

	var colors [4]imageColor.NRGBA
	var alphas [16]uint8

	for blockY := 0; blockY < vertBlocks; blockY++ {
		for blockX := 0; blockX < horizBlocks; blockX++ {
			var block dxtAlphaBlock

			switch compression {
			case DXT1:
				if err := binary.Read(reader, binary.LittleEndian, &block.Color); err != nil {
					return nil, err
				}
				processDXTColor(&colors, block.Color, true)
			case DXT3, DXT5:
				if err := binary.Read(reader, binary.LittleEndian, &block); err != nil {
					return nil, err
				}
				processDXTColor(&colors, block.Color, false)
				if compression == DXT3 {
					explicitAlphas(&alphas, block.Alpha)
				} else {
					interpolatedAlphas(&alphas, block.Alpha)
				}
			default:
				return nil, fmt.Errorf("unsupported compression %v", compression)
			}

			indices := block.Color.Indices
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					pixel := colors[indices&3]
					if compression != DXT1 {
						pixel.A = alphas[y*4+x]
					}
					indices >>= 2

					px, py := blockX*4+x, blockY*4+y
					if px < width && py < height {
						img.SetNRGBA(px, py, pixel)
					}
				}
			}
		}
	}

	return img, nil
}

func expand565(color uint16) imageColor.NRGBA {
	red := uint8((color & 0xF800) >> 11)
	green := uint8((color & 0x07E0) >> 5)
	blue := uint8(color & 0x001F)

	return imageColor.NRGBA{
		R: (red << 3) | (red >> 2),
		G: (green << 2) | (green >> 4),
		B: (blue << 3) | (blue >> 2),
		A: 0xFF,
	}
}

func processDXTColor(pixel *[4]imageColor.NRGBA, block dxtColor, isDXT1 bool) {
	pixel[0] = expand565(block.Color1)
	pixel[1] = expand565(block.Color2)

	mix := func(a, b uint8, wa, wb, div uint16) uint8 {
		return uint8((uint16(a)*wa + uint16(b)*wb) / div)
	}

	if !isDXT1 || block.Color1 > block.Color2 {
		pixel[2] = imageColor.NRGBA{
			R: mix(pixel[0].R, pixel[1].R, 2, 1, 3),
			G: mix(pixel[0].G, pixel[1].G, 2, 1, 3),
			B: mix(pixel[0].B, pixel[1].B, 2, 1, 3),
			A: 0xFF,
		}
		pixel[3] = imageColor.NRGBA{
			R: mix(pixel[0].R, pixel[1].R, 1, 2, 3),
			G: mix(pixel[0].G, pixel[1].G, 1, 2, 3),
			B: mix(pixel[0].B, pixel[1].B, 1, 2, 3),
			A: 0xFF,
		}
	} else {
		pixel[2] = imageColor.NRGBA{
			R: mix(pixel[0].R, pixel[1].R, 1, 1, 2),
			G: mix(pixel[0].G, pixel[1].G, 1, 1, 2),
			B: mix(pixel[0].B, pixel[1].B, 1, 1, 2),
			A: 0xFF,
		}
		// transparent black
		pixel[3] = imageColor.NRGBA{}
	}
}

// explicitAlphas expands the 4-bit per pixel alpha of DXT2/DXT3.
func explicitAlphas(alphas *[16]uint8, blockAlpha uint64) {
	for i := range alphas {
		value := uint8(blockAlpha & 0xF)
		alphas[i] = value<<4 | value
		blockAlpha >>= 4
	}
}

// interpolatedAlphas expands the two endpoints and 3-bit indices of
// DXT4/DXT5.
func interpolatedAlphas(alphas *[16]uint8, blockAlpha uint64) {
	var palette [8]uint8

	palette[0] = uint8(blockAlpha & 0xFF)
	palette[1] = uint8((blockAlpha >> 8) & 0xFF)
	blockAlpha >>= 16

	var i uint
	if palette[0] > palette[1] {
		for i = 2; i < 8; i++ {
			palette[i] = uint8(((8-i)*uint(palette[0]) + (i-1)*uint(palette[1])) / 7)
		}
	} else {
		for i = 2; i < 6; i++ {
			palette[i] = uint8(((6-i)*uint(palette[0]) + (i-1)*uint(palette[1])) / 5)
		}
		palette[6] = 0x00
		palette[7] = 0xFF
	}

	for i := range alphas {
		alphas[i] = palette[blockAlpha&7]
		blockAlpha >>= 3
	}
}
