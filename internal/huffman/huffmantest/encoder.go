// Package huffmantest encodes symbols with the canonical codes huffman.Tree
// assigns, for building test inputs.
package huffmantest

import (
	"fmt"
	"sort"

	"github.com/ptolstoi/gw2inflate/internal/bitstream/bitstreamtest"
	"github.com/ptolstoi/gw2inflate/internal/huffman"
)

type code struct {
	value uint32
	bits  uint8
}

type Encoder struct {
	codes map[uint16]code
}

// NewEncoder assigns codes the way huffman.NewDictionary does for rows.
func NewEncoder(rows []huffman.DictionaryRow) *Encoder {
	var byBits [huffman.MaxCodeBitsLength][]uint16
	for _, row := range rows {
		byBits[row.Bits] = append(byBits[row.Bits], row.Symbols...)
	}

	encoder := &Encoder{codes: map[uint16]code{}}

	var value int64
	for bits := range byBits {
		symbols := byBits[bits]
		for i := len(symbols) - 1; i >= 0; i-- {
			encoder.codes[symbols[i]] = code{value: uint32(value), bits: uint8(bits)}
			value--
		}
		value = (value << 1) + 1
	}

	return encoder
}

// FromLengths assigns codes the way huffman.ParseTree does, symbols being
// registered from the highest down.
func FromLengths(lengths map[uint16]uint8) *Encoder {
	return NewEncoder(rowsOf(lengths))
}

func rowsOf(lengths map[uint16]uint8) []huffman.DictionaryRow {
	symbols := make([]uint16, 0, len(lengths))
	for symbol, bits := range lengths {
		if bits != 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] > symbols[j] })

	var rows []huffman.DictionaryRow
	for _, symbol := range symbols {
		rows = append(rows, huffman.DictionaryRow{Bits: lengths[symbol], Symbols: []uint16{symbol}})
	}
	return rows
}

// Write appends the code of symbol. It panics on a symbol without code.
func (encoder *Encoder) Write(writer *bitstreamtest.Writer, symbol uint16) {
	c, ok := encoder.codes[symbol]
	if !ok {
		panic(fmt.Sprintf("huffmantest: no code for symbol 0x%X", symbol))
	}
	writer.WriteBits(uint64(c.value), c.bits)
}

// WriteTree appends a dynamic tree header for numberOfSymbols symbols with
// the given code lengths, runs being coded with dictionary.
func WriteTree(writer *bitstreamtest.Writer, dictionary *Encoder, numberOfSymbols int, lengths map[uint16]uint8) {
	writer.WriteBits(uint64(numberOfSymbols), 16)

	for symbol := numberOfSymbols - 1; symbol >= 0; {
		bits := lengths[uint16(symbol)]

		run := 1
		for run < 8 && symbol-run >= 0 && lengths[uint16(symbol-run)] == bits {
			run++
		}

		dictionary.Write(writer, uint16(run-1)<<5|uint16(bits))
		symbol -= run
	}
}
