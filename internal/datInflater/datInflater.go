// Package datInflater decodes the generic LZ/Huffman payload used for
// compressed archive entries.
package datInflater

import (
	"fmt"

	"github.com/ptolstoi/gw2inflate/internal/bitstream"
	"github.com/ptolstoi/gw2inflate/internal/huffman"
	"github.com/ptolstoi/gw2inflate/internal/inflateerr"
)

// Inflate decodes inputRaw. When outputSize is not 0 the result is capped to
// it. When output is not nil it receives the decoded bytes and the returned
// slice aliases it.
func Inflate(inputRaw []byte, output []byte, outputSize uint32) ([]byte, error) {
	if inputRaw == nil {
		return nil, inflateerr.ErrNullInput
	}

	if output != nil && outputSize == 0 {
		return nil, inflateerr.ErrInconsistentOutputArgs
	}

	if output != nil && uint32(len(output)) < outputSize {
		return nil, fmt.Errorf("%w: output has %v bytes, %v announced",
			inflateerr.ErrInconsistentOutputArgs, len(output), outputSize)
	}

	tree, err := dictionary()
	if err != nil {
		return nil, err
	}

	reader := bitstream.NewReader(inputRaw)

	// Skipping header
	if _, err := reader.TakeBits(32); err != nil {
		return nil, err
	}

	// Size of the uncompressed data
	anOutputSize, err := reader.TakeBits(32)
	if err != nil {
		return nil, err
	}

	if outputSize != 0 && outputSize < anOutputSize {
		anOutputSize = outputSize
	}

	if output == nil {
		output = make([]byte, anOutputSize)
	} else {
		output = output[:anOutputSize]
	}

	state := inflaterState{
		reader:         reader,
		dictionaryTree: tree,
		output:         output,
	}

	if err := state.inflateData(); err != nil {
		return nil, err
	}

	return output, nil
}

type inflaterState struct {
	reader         *bitstream.Reader
	dictionaryTree *huffman.Tree

	symbolTree huffman.Tree
	copyTree   huffman.Tree

	output    []byte
	outputPos uint32
}

func (state *inflaterState) inflateData() error {
	outputSize := uint32(len(state.output))
	if outputSize == 0 {
		return nil
	}

	if err := state.reader.NeedBits(8); err != nil {
		return err
	}
	if err := state.reader.DropBits(4); err != nil {
		return err
	}
	writeSizeConstAdd := state.reader.ReadBits(4) + 1
	if err := state.reader.DropBits(4); err != nil {
		return err
	}

	for state.outputPos < outputSize {
		if err := huffman.ParseTree(state.reader, state.dictionaryTree, &state.symbolTree); err != nil {
			return fmt.Errorf("symbol tree: %w", err)
		}
		if err := huffman.ParseTree(state.reader, state.dictionaryTree, &state.copyTree); err != nil {
			return fmt.Errorf("copy tree: %w", err)
		}

		maxCount, err := state.reader.TakeBits(4)
		if err != nil {
			return err
		}
		maxCount = (maxCount + 1) << 12

		var currentCodeReadCount uint32
		for currentCodeReadCount < maxCount && state.outputPos < outputSize {
			currentCodeReadCount++

			if err := state.inflateCode(writeSizeConstAdd); err != nil {
				return err
			}
		}
	}

	return nil
}

// inflateCode emits either one literal or one back reference.
func (state *inflaterState) inflateCode(writeSizeConstAdd uint32) error {
	code, err := state.symbolTree.ReadCode(state.reader)
	if err != nil {
		return err
	}

	if code < 0x100 {
		state.output[state.outputPos] = uint8(code)
		state.outputPos++
		return nil
	}

	writeSize, err := state.readWriteSize(code - 0x100)
	if err != nil {
		return err
	}
	writeSize += writeSizeConstAdd

	code, err = state.copyTree.ReadCode(state.reader)
	if err != nil {
		return err
	}

	writeOffset, err := state.readWriteOffset(code)
	if err != nil {
		return err
	}
	writeOffset++

	if writeOffset > state.outputPos {
		return fmt.Errorf("%w: offset %v at position %v",
			inflateerr.ErrInvalidBackReference, writeOffset, state.outputPos)
	}

	outputSize := uint32(len(state.output))

	// Byte by byte so that an offset below writeSize repeats the pattern.
	for alreadyWritten := uint32(0); alreadyWritten < writeSize && state.outputPos < outputSize; alreadyWritten++ {
		state.output[state.outputPos] = state.output[state.outputPos-writeOffset]
		state.outputPos++
	}

	return nil
}

func (state *inflaterState) readWriteSize(code uint16) (uint32, error) {
	quot, rem := code/4, code%4

	var writeSize uint32
	switch {
	case quot == 0:
		writeSize = uint32(code)
	case quot < 7:
		writeSize = (1 << (quot - 1)) * (4 + uint32(rem))
	case code == 28:
		return 0xFF, nil
	default:
		return 0, fmt.Errorf("%w: %v", inflateerr.ErrInvalidLengthCode, code)
	}

	if quot > 1 {
		addBits, err := state.reader.TakeBits(uint8(quot - 1))
		if err != nil {
			return 0, err
		}
		writeSize |= addBits
	}

	return writeSize, nil
}

func (state *inflaterState) readWriteOffset(code uint16) (uint32, error) {
	quot, rem := code/2, code%2

	var writeOffset uint32
	switch {
	case quot == 0:
		writeOffset = uint32(code)
	case quot < 17:
		writeOffset = (1 << (quot - 1)) * (2 + uint32(rem))
	default:
		return 0, fmt.Errorf("%w: %v", inflateerr.ErrInvalidOffsetCode, code)
	}

	if quot > 1 {
		addBits, err := state.reader.TakeBits(uint8(quot - 1))
		if err != nil {
			return 0, err
		}
		writeOffset |= addBits
	}

	return writeOffset, nil
}
