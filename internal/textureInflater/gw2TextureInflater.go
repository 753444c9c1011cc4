// Package textureInflater decodes the Huffman coded pixel block payload of
// texture files into plain DXT block data.
package textureInflater

import (
	"encoding/binary"
	"fmt"

	"github.com/ptolstoi/gw2inflate/internal/bitstream"
	"github.com/ptolstoi/gw2inflate/internal/huffman"
	"github.com/ptolstoi/gw2inflate/internal/inflateerr"
)

const (
	FccDXT1 uint32 = 0x31545844
	FccDXT2 uint32 = 0x32545844
	FccDXT3 uint32 = 0x33545844
	FccDXT4 uint32 = 0x34545844
	FccDXT5 uint32 = 0x35545844
	FccDXTA uint32 = 0x41545844
	FccDXTL uint32 = 0x4C545844
	FccDXTN uint32 = 0x4E545844
	Fcc3DCX uint32 = 0x58434433
)

// Format flags
const (
	FfColor       uint16 = 0x10
	FfAlpha       uint16 = 0x20
	FfSingleBlock uint16 = 0x40
	FfBothBlocks  uint16 = 0x80
	FfUnknown     uint16 = 0x200
)

// Compression flags
const (
	cfDecodeAlternateColor = 0x01
	cfDecodeConstantAlpha  = 0x04
	cfDecodePlainColor     = 0x08
)

type Format struct {
	Flags           uint16
	PixelSizeInBits uint16
}

var formats = map[uint32]Format{
	FccDXT1: {Flags: FfColor | FfSingleBlock, PixelSizeInBits: 4},
	FccDXT2: {Flags: FfAlpha | FfColor | FfBothBlocks, PixelSizeInBits: 8},
	FccDXT3: {Flags: FfAlpha | FfColor | FfBothBlocks, PixelSizeInBits: 8},
	FccDXT4: {Flags: FfAlpha | FfColor | FfBothBlocks, PixelSizeInBits: 8},
	FccDXT5: {Flags: FfAlpha | FfColor | FfBothBlocks, PixelSizeInBits: 8},
	FccDXTA: {Flags: FfAlpha | FfBothBlocks, PixelSizeInBits: 4},
	FccDXTL: {Flags: FfColor, PixelSizeInBits: 8},
	FccDXTN: {Flags: FfUnknown, PixelSizeInBits: 8},
	Fcc3DCX: {Flags: FfUnknown, PixelSizeInBits: 8},
}

func deduceFormat(fourCC uint32) (Format, error) {
	format, ok := formats[fourCC]
	if !ok {
		return Format{}, fmt.Errorf("%w: 0x%08x (%v)", inflateerr.ErrUnknownFormat, fourCC, FourCCString(fourCC))
	}
	return format, nil
}

// FourCCString spells a little-endian FourCC.
func FourCCString(fourCC uint32) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], fourCC)
	return string(b[:])
}

type FullFormat struct {
	Format

	FourCC uint32
	Width  uint16
	Height uint16

	NbPixelBlocks      uint32
	BytesPerPixelBlock uint32
	BytesPerComponent  uint32
}

// NewFullFormat derives the block layout of a width x height texture.
func NewFullFormat(fourCC uint32, width uint16, height uint16) (FullFormat, error) {
	format, err := deduceFormat(fourCC)
	if err != nil {
		return FullFormat{}, err
	}

	fullFormat := FullFormat{
		Format: format,
		FourCC: fourCC,
		Width:  width,
		Height: height,
	}

	fullFormat.NbPixelBlocks = ((uint32(width) + 3) / 4) * ((uint32(height) + 3) / 4)
	fullFormat.BytesPerPixelBlock = uint32(format.PixelSizeInBits) * 4 * 4 / 8
	if format.Flags&(FfBothBlocks|FfSingleBlock) != 0 {
		fullFormat.BytesPerComponent = 8
	}

	return fullFormat, nil
}

// OutputSize is the size of the decoded block data.
func (fullFormat FullFormat) OutputSize() uint32 {
	return fullFormat.BytesPerPixelBlock * fullFormat.NbPixelBlocks
}

type inflaterState struct {
	reader         *bitstream.Reader
	dictionaryTree *huffman.Tree

	fullFormat FullFormat
	output     []byte

	colorBitMap []bool
	alphaBitMap []bool
}

// Inflate decodes a texture file buffer. When outputSize is not 0 it must
// hold the whole decoded data. When output is not nil it receives the
// decoded bytes and the returned slice aliases it.
func Inflate(inputRaw []byte, output []byte, outputSize uint32) ([]byte, FullFormat, error) {
	if inputRaw == nil {
		return nil, FullFormat{}, inflateerr.ErrNullInput
	}

	if output != nil && outputSize == 0 {
		return nil, FullFormat{}, inflateerr.ErrInconsistentOutputArgs
	}

	tree, err := dictionary()
	if err != nil {
		return nil, FullFormat{}, err
	}

	reader := bitstream.NewReader(inputRaw)

	fullFormat, err := readFullFormat(reader)
	if err != nil {
		return nil, FullFormat{}, err
	}

	anOutputSize := fullFormat.OutputSize()

	if outputSize != 0 && outputSize < anOutputSize {
		return nil, fullFormat, fmt.Errorf("%w: %v bytes needed, %v given",
			inflateerr.ErrOutputTooSmall, anOutputSize, outputSize)
	}

	if output == nil {
		output = make([]byte, anOutputSize)
	} else {
		if uint32(len(output)) < anOutputSize {
			return nil, fullFormat, fmt.Errorf("%w: %v bytes needed, buffer has %v",
				inflateerr.ErrOutputTooSmall, anOutputSize, len(output))
		}
		output = output[:anOutputSize]
	}

	state := inflaterState{
		reader:         reader,
		dictionaryTree: tree,
		fullFormat:     fullFormat,
		output:         output,
	}

	if err := state.inflateData(); err != nil {
		return nil, fullFormat, err
	}

	return output, fullFormat, nil
}

func readFullFormat(reader *bitstream.Reader) (FullFormat, error) {
	// skip header
	if _, err := reader.TakeBits(32); err != nil {
		return FullFormat{}, err
	}

	formatFourCC, err := reader.TakeBits(32)
	if err != nil {
		return FullFormat{}, err
	}

	// The high half of the size word comes first.
	height, err := reader.TakeBits(16)
	if err != nil {
		return FullFormat{}, err
	}
	width, err := reader.TakeBits(16)
	if err != nil {
		return FullFormat{}, err
	}

	return NewFullFormat(formatFourCC, uint16(width), uint16(height))
}

func (state *inflaterState) inflateData() error {
	// Size of the compressed data, not checked against the input
	if _, err := state.reader.TakeBits(32); err != nil {
		return err
	}

	compressionFlags, err := state.reader.TakeBits(32)
	if err != nil {
		return err
	}

	state.colorBitMap = make([]bool, state.fullFormat.NbPixelBlocks)
	state.alphaBitMap = make([]bool, state.fullFormat.NbPixelBlocks)

	if compressionFlags&cfDecodeAlternateColor != 0 {
		if err := state.decodeAlternateColor(); err != nil {
			return fmt.Errorf("alternate color: %w", err)
		}
	}

	if compressionFlags&cfDecodeConstantAlpha != 0 {
		if err := state.decodeConstantAlpha(); err != nil {
			return fmt.Errorf("constant alpha: %w", err)
		}
	}

	if compressionFlags&cfDecodePlainColor != 0 {
		if err := state.decodePlainColor(); err != nil {
			return fmt.Errorf("plain color: %w", err)
		}
	}

	state.reader.ReleaseLookahead()

	state.processAlpha()
	state.processColor()

	return nil
}

// readRun reads the length of the next run of pixel blocks and whether the
// run carries a value.
func (state *inflaterState) readRun() (uint32, bool, error) {
	code, err := state.dictionaryTree.ReadCode(state.reader)
	if err != nil {
		return 0, false, err
	}

	value, err := state.reader.TakeBits(1)
	if err != nil {
		return 0, false, err
	}

	return uint32(code) + 1, value != 0, nil
}

// runEnd clamps the end of a run to the number of pixel blocks.
func (state *inflaterState) runEnd(pixelBlockPos uint32, runLength uint32) uint32 {
	end := pixelBlockPos + runLength
	if end > state.fullFormat.NbPixelBlocks {
		end = state.fullFormat.NbPixelBlocks
	}
	return end
}

// processAlpha fills the alpha component of every block the passes left
// absent with raw words from the input.
func (state *inflaterState) processAlpha() {
	fullFormat := state.fullFormat

	if fullFormat.Flags&FfAlpha == 0 {
		return
	}

	for i := range state.alphaBitMap {
		if state.alphaBitMap[i] {
			continue
		}

		offset := fullFormat.BytesPerPixelBlock * uint32(i)

		if !state.copyWord(offset) {
			return
		}

		if fullFormat.BytesPerComponent > 4 {
			if !state.copyWord(offset + 4) {
				return
			}
		}
	}
}

// processColor fills the color component of every absent block, first words
// for all blocks then second words for all blocks.
func (state *inflaterState) processColor() {
	fullFormat := state.fullFormat

	if fullFormat.Flags&FfColor == 0 {
		return
	}

	for _, half := range []uint32{0, 4} {
		for i := range state.colorBitMap {
			if state.colorBitMap[i] {
				continue
			}

			offset := state.colorOffset(uint32(i)) + half

			if !state.copyWord(offset) {
				return
			}
		}
	}
}

func (state *inflaterState) colorOffset(pixelBlock uint32) uint32 {
	offset := state.fullFormat.BytesPerPixelBlock * pixelBlock
	if state.fullFormat.Flags&FfBothBlocks != 0 {
		offset += state.fullFormat.BytesPerComponent
	}
	return offset
}

// copyWord moves the next raw input word to offset. It returns false once the
// input is exhausted.
func (state *inflaterState) copyWord(offset uint32) bool {
	word, ok := state.reader.NextWord()
	if !ok {
		return false
	}

	if uint64(offset)+4 <= uint64(len(state.output)) {
		binary.LittleEndian.PutUint32(state.output[offset:], word)
	}

	return true
}

// putComponent writes the low size bytes of value at offset.
func (state *inflaterState) putComponent(offset uint32, value uint64, size uint32) {
	var i uint32
	for i = 0; i < size && i < 8 && uint64(offset+i) < uint64(len(state.output)); i++ {
		state.output[offset+i] = uint8((value >> (8 * i)) & 0xFF)
	}
}
