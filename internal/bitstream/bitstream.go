// Package bitstream reads bits most-significant first out of a buffer of
// little-endian 32-bit words, the layout used by every compressed payload of
// the archive.
package bitstream

import (
	"encoding/binary"
	"fmt"

	"github.com/ptolstoi/gw2inflate/internal/inflateerr"
)

// Every 0x4000th word of a compressed payload is a chunk checksum and is
// skipped when pulling.
const chunkWords = 0x4000

type Reader struct {
	input     []uint32
	inputSize uint32
	inputPos  uint32

	head   uint32
	buffer uint32
	bits   uint8

	// padded counts the zero bits appended once the input ran out. They may
	// be peeked at but never dropped.
	padded  uint8
	isEmpty bool
}

// NewReader wraps inputRaw. Trailing bytes that do not fill a whole word are
// ignored.
func NewReader(inputRaw []byte) *Reader {
	input := make([]uint32, len(inputRaw)/4)
	for i := range input {
		input[i] = binary.LittleEndian.Uint32(inputRaw[i*4:])
	}

	return &Reader{
		input:     input,
		inputSize: uint32(len(input)),
	}
}

// NeedBits makes sure at least bits bits are buffered.
func (reader *Reader) NeedBits(bits uint8) error {
	if bits > 32 {
		return fmt.Errorf("tried to need more than 32 bits, %v", bits)
	}

	if reader.bits < bits {
		return reader.pullWord()
	}

	return nil
}

func (reader *Reader) pullWord() error {
	if reader.bits >= 32 {
		return fmt.Errorf("tried to pull a value while we still have %v bits available", reader.bits)
	}

	if (reader.inputPos+1)%chunkWords == 0 {
		reader.inputPos++
	}

	var value uint32

	if reader.inputPos >= reader.inputSize {
		if reader.isEmpty {
			return inflateerr.ErrTruncatedInput
		}

		reader.isEmpty = true
		reader.padded = 32
	} else {
		value = reader.input[reader.inputPos]
	}

	if reader.bits == 0 {
		reader.head = value
		reader.buffer = 0
	} else {
		reader.head |= value >> reader.bits
		reader.buffer = value << (32 - reader.bits)
	}

	reader.bits += 32
	reader.inputPos++

	return nil
}

// ReadBits peeks at the next bits bits without consuming them. NeedBits must
// have been called with at least bits beforehand.
func (reader *Reader) ReadBits(bits uint8) uint32 {
	return reader.head >> (32 - bits)
}

// DropBits consumes bits bits.
func (reader *Reader) DropBits(bits uint8) error {
	if bits > 32 {
		return fmt.Errorf("tried to drop more than 32 bits, %v", bits)
	}

	if bits > reader.bits-reader.padded {
		return inflateerr.ErrTruncatedInput
	}

	if bits == 32 {
		reader.head = reader.buffer
		reader.buffer = 0
	} else {
		reader.head <<= bits
		reader.head |= reader.buffer >> (32 - bits)
		reader.buffer <<= bits
	}

	reader.bits -= bits

	return nil
}

// TakeBits is NeedBits, ReadBits and DropBits in one call.
func (reader *Reader) TakeBits(bits uint8) (uint32, error) {
	if err := reader.NeedBits(bits); err != nil {
		return 0, err
	}

	value := reader.ReadBits(bits)

	if err := reader.DropBits(bits); err != nil {
		return 0, err
	}

	return value, nil
}

// Buffered reports how many bits are held in the lookahead.
func (reader *Reader) Buffered() uint8 {
	return reader.bits
}

// WordPos is the index of the next word that a pull would fetch.
func (reader *Reader) WordPos() uint32 {
	return reader.inputPos
}

// WordCount is the number of whole words in the input.
func (reader *Reader) WordCount() uint32 {
	return reader.inputSize
}

// ReleaseLookahead gives back the last pulled word when a full word of
// lookahead is still unconsumed, so that NextWord starts right after the last
// consumed bit. The buffered bits become meaningless afterwards.
func (reader *Reader) ReleaseLookahead() {
	if reader.bits >= 32 {
		reader.inputPos--
	}
}

// NextWord returns the raw word at WordPos and advances past it. ok is false
// once the input is exhausted.
func (reader *Reader) NextWord() (word uint32, ok bool) {
	if reader.inputPos >= reader.inputSize {
		return 0, false
	}

	word = reader.input[reader.inputPos]
	reader.inputPos++

	return word, true
}
