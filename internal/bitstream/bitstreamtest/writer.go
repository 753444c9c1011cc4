// Package bitstreamtest builds inputs for bitstream.Reader in tests.
package bitstreamtest

import (
	"bytes"

	"github.com/icza/bitio"
)

// Writer appends bits most-significant first and lays them out the way
// bitstream.Reader expects them: little-endian 32-bit words.
type Writer struct {
	buffer bytes.Buffer
	bits   *bitio.Writer
	err    error
}

func NewWriter() *Writer {
	writer := &Writer{}
	writer.bits = bitio.NewWriter(&writer.buffer)
	return writer
}

// WriteBits appends the low bits bits of value.
func (writer *Writer) WriteBits(value uint64, bits uint8) *Writer {
	if writer.err == nil && bits != 0 {
		writer.err = writer.bits.WriteBits(value, bits)
	}
	return writer
}

// WriteWord appends a whole 32-bit word.
func (writer *Writer) WriteWord(word uint32) *Writer {
	return writer.WriteBits(uint64(word), 32)
}

// Err returns the first error met while writing.
func (writer *Writer) Err() error {
	return writer.err
}

// Bytes pads the stream with zero bits up to a whole word and returns it.
// The writer must not be used afterwards.
func (writer *Writer) Bytes() []byte {
	if err := writer.bits.Close(); err != nil && writer.err == nil {
		writer.err = err
	}

	for writer.buffer.Len()%4 != 0 {
		writer.buffer.WriteByte(0)
	}

	return Words(writer.buffer.Bytes())
}

// Words turns a big-endian stream of bytes into little-endian words. len(raw)
// must be a multiple of 4.
func Words(raw []byte) []byte {
	out := make([]byte, len(raw))
	for i := 0; i+4 <= len(raw); i += 4 {
		out[i], out[i+1], out[i+2], out[i+3] = raw[i+3], raw[i+2], raw[i+1], raw[i]
	}
	return out
}
