// Package huffman builds and reads the canonical Huffman trees of the
// archive's compressed payloads.
package huffman

import (
	"fmt"

	"github.com/ptolstoi/gw2inflate/internal/bitstream"
	"github.com/ptolstoi/gw2inflate/internal/inflateerr"
)

const (
	MaxCodeBitsLength uint8  = 32  // Max number of bits per code
	MaxSymbolValue    uint16 = 286 // Max number of symbols of a tree
	MaxNbBitsHash     uint8  = 8

	unusedSymbol uint16 = 0xFFFF
)

// CodeLengths groups symbols by the bit length of their code. Symbols added
// last to a length receive the highest codes of that length.
type CodeLengths struct {
	symbols [MaxCodeBitsLength][]uint16
}

// Add registers symbol with a code of bits bits.
func (lengths *CodeLengths) Add(bits uint8, symbol uint16) error {
	if bits >= MaxCodeBitsLength {
		return fmt.Errorf("too many bits, got %v expected less than %v", bits, MaxCodeBitsLength)
	}
	if symbol >= MaxSymbolValue {
		return fmt.Errorf("too high symbol, got %v expected less than %v", symbol, MaxSymbolValue)
	}

	lengths.symbols[bits] = append(lengths.symbols[bits], symbol)

	return nil
}

// each walks the symbols of one length from the highest code to the lowest.
func (lengths *CodeLengths) each(bits uint8, fn func(symbol uint16) error) error {
	symbols := lengths.symbols[bits]
	for i := len(symbols) - 1; i >= 0; i-- {
		if err := fn(symbols[i]); err != nil {
			return err
		}
	}
	return nil
}

// Tree decodes codes of up to MaxNbBitsHash bits with a single table lookup
// and longer ones by scanning the minimum code value of every longer length.
type Tree struct {
	codeCompTab             [MaxCodeBitsLength]uint32
	symbolValueTabOffsetTab [MaxCodeBitsLength]uint16
	codeBitsTab             [MaxCodeBitsLength]uint8
	codeCompCount           int
	symbolValueTab          [MaxSymbolValue]uint16

	symbolValueHashTab [1 << MaxNbBitsHash]uint16
	codeBitsHashTab    [1 << MaxNbBitsHash]uint8

	isEmpty bool
}

// NewTree builds a tree from a fixed code length assignment.
func NewTree(lengths *CodeLengths) (*Tree, error) {
	tree := &Tree{}
	if err := tree.Build(lengths); err != nil {
		return nil, err
	}
	return tree, nil
}

func (tree *Tree) IsEmpty() bool {
	return tree.isEmpty
}

// Build resets the tree and assigns canonical codes to lengths.
func (tree *Tree) Build(lengths *CodeLengths) error {
	*tree = Tree{isEmpty: true}

	for i := range tree.symbolValueHashTab {
		tree.symbolValueHashTab[i] = unusedSymbol
	}

	code, nbBits, err := tree.fillHashPart(lengths)
	if err != nil {
		return err
	}

	return tree.fillCompPart(lengths, code, nbBits)
}

// fillHashPart registers codes of at most MaxNbBitsHash bits in every hash
// slot they prefix. code is signed so that an exhausted code space stays
// negative across lengths.
func (tree *Tree) fillHashPart(lengths *CodeLengths) (int64, uint8, error) {
	var code int64
	var nbBits uint8

	for nbBits <= MaxNbBitsHash {
		err := lengths.each(nbBits, func(symbol uint16) error {
			if code < 0 {
				return fmt.Errorf("%w: %v bits", inflateerr.ErrInvalidTree, nbBits)
			}
			tree.isEmpty = false

			hashValue := code << (MaxNbBitsHash - nbBits)
			nextHashValue := (code + 1) << (MaxNbBitsHash - nbBits)

			for ; hashValue < nextHashValue; hashValue++ {
				tree.symbolValueHashTab[hashValue] = symbol
				tree.codeBitsHashTab[hashValue] = nbBits
			}

			code--
			return nil
		})
		if err != nil {
			return 0, 0, err
		}

		code = (code << 1) + 1
		nbBits++
	}

	return code, nbBits, nil
}

func (tree *Tree) fillCompPart(lengths *CodeLengths, code int64, nbBits uint8) error {
	var symbolOffset uint16

	for nbBits < MaxCodeBitsLength {
		if len(lengths.symbols[nbBits]) != 0 {
			tree.isEmpty = false

			err := lengths.each(nbBits, func(symbol uint16) error {
				if code < 0 {
					return fmt.Errorf("%w: %v bits", inflateerr.ErrInvalidTree, nbBits)
				}

				tree.symbolValueTab[symbolOffset] = symbol
				symbolOffset++
				code--
				return nil
			})
			if err != nil {
				return err
			}

			// Minimum code value for nbBits bits, left aligned
			tree.codeCompTab[tree.codeCompCount] = uint32((code + 1) << (32 - nbBits))
			tree.codeBitsTab[tree.codeCompCount] = nbBits
			// Offset of the symbol holding the minimum code
			tree.symbolValueTabOffsetTab[tree.codeCompCount] = symbolOffset - 1

			tree.codeCompCount++
		}

		code = (code << 1) + 1
		nbBits++
	}

	return nil
}

// ReadCode decodes the next symbol from reader.
func (tree *Tree) ReadCode(reader *bitstream.Reader) (uint16, error) {
	if tree.isEmpty {
		return 0, inflateerr.ErrEmptyTree
	}

	if err := reader.NeedBits(32); err != nil {
		return 0, err
	}

	hash := reader.ReadBits(MaxNbBitsHash)

	if symbol := tree.symbolValueHashTab[hash]; symbol != unusedSymbol {
		if err := reader.DropBits(tree.codeBitsHashTab[hash]); err != nil {
			return 0, err
		}
		return symbol, nil
	}

	window := reader.ReadBits(32)

	index := 0
	for index < tree.codeCompCount && window < tree.codeCompTab[index] {
		index++
	}
	if index == tree.codeCompCount {
		return 0, fmt.Errorf("%w: 0x%08x", inflateerr.ErrInvalidCode, window)
	}

	nbBits := tree.codeBitsTab[index]
	symbol := tree.symbolValueTab[uint32(tree.symbolValueTabOffsetTab[index])-
		((window-tree.codeCompTab[index])>>(32-nbBits))]

	if err := reader.DropBits(nbBits); err != nil {
		return 0, err
	}

	return symbol, nil
}

// DictionaryRow lists the symbols sharing one code length, in the order they
// are registered.
type DictionaryRow struct {
	Bits    uint8
	Symbols []uint16
}

// NewDictionary builds a static tree from a declarative table.
func NewDictionary(rows []DictionaryRow) (*Tree, error) {
	var lengths CodeLengths

	for _, row := range rows {
		for _, symbol := range row.Symbols {
			if err := lengths.Add(row.Bits, symbol); err != nil {
				return nil, err
			}
		}
	}

	return NewTree(&lengths)
}
